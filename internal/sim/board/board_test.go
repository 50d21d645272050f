package board

import (
	"errors"
	"testing"

	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := New(4, catalogs.Defaults(), rng.New(1), 1000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func corner(t *testing.T, r, q, c int) hexgrid.CornerID {
	t.Helper()
	id, ok := hexgrid.LookupCorner(hexgrid.Corner{R: r, Q: q, C: c})
	if !ok {
		t.Fatalf("bad corner (%d,%d,%d)", r, q, c)
	}
	return id
}

func edge(t *testing.T, r, q, e int) hexgrid.EdgeID {
	t.Helper()
	id, ok := hexgrid.LookupEdge(hexgrid.Edge{R: r, Q: q, E: e})
	if !ok {
		t.Fatalf("bad edge (%d,%d,%d)", r, q, e)
	}
	return id
}

func TestNew_NoAdjacentHotNumbers(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		b, err := New(4, catalogs.Defaults(), rng.New(seed), 1000)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		deserts := 0
		for _, h := range hexgrid.Hexes {
			t1, _ := b.Tile(h)
			if t1.Desert {
				deserts++
				if h != b.Robber() {
					t.Fatalf("seed %d: desert %v but robber %v", seed, h, b.Robber())
				}
				continue
			}
			if !hot(t1.Number) {
				continue
			}
			for _, o := range hexgrid.Hexes {
				t2, _ := b.Tile(o)
				if hexgrid.Distance(h, o) == 1 && !t2.Desert && hot(t2.Number) {
					t.Fatalf("seed %d: %v and %v both hot", seed, h, o)
				}
			}
		}
		if deserts != 1 {
			t.Fatalf("seed %d: %d deserts", seed, deserts)
		}
	}
}

func TestNew_ExhaustsAttempts(t *testing.T) {
	// Identity shuffles put both sixes on (2,1) and (2,2).
	_, err := New(4, catalogs.Defaults(), &rng.Scripted{Values: []int{0, 0, 0}}, 3)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("got %v", err)
	}
}

func TestScenarioA_DistanceAndRoad(t *testing.T) {
	b := newTestBoard(t)
	b.PlaceFreeSettlement(corner(t, 2, 2, 0), model.Red)

	if b.CanPlaceSettlement(corner(t, 1, 2, 2), model.Red) {
		t.Fatalf("expected (1,2,2) blocked")
	}
	if b.CanPlaceSetupSettlement(corner(t, 2, 2, 1)) {
		t.Fatalf("expected neighbor corner blocked by distance rule")
	}
	if !b.CanPlaceRoad(edge(t, 2, 2, 0), model.Red) {
		t.Fatalf("expected road touching settlement allowed")
	}
	if b.CanPlaceRoad(edge(t, 2, 2, 0), model.Blue) {
		t.Fatalf("expected other color rejected")
	}
	// Every duplicate coordinate sees the same structure.
	for _, d := range hexgrid.DupCorners(hexgrid.Corner{R: 2, Q: 2, C: 0}) {
		id, _ := hexgrid.LookupCorner(d)
		if s := b.StructureAt(id); s.Kind != model.Settlement || s.Color != model.Red {
			t.Fatalf("dup %v: got %+v", d, s)
		}
	}
}

func TestCanPlaceRoad_BlockedByOpponent(t *testing.T) {
	b := newTestBoard(t)
	b.PlaceFreeSettlement(corner(t, 2, 2, 0), model.Red)
	b.PlaceFreeRoad(edge(t, 2, 2, 1), model.Red)
	// Edge 2 continues from corner 1.
	if !b.CanPlaceRoad(edge(t, 2, 2, 2), model.Red) {
		t.Fatalf("expected continuation allowed")
	}
	b.PlaceFreeSettlement(corner(t, 2, 2, 1), model.Blue)
	if b.CanPlaceRoad(edge(t, 2, 2, 2), model.Red) {
		t.Fatalf("expected continuation through opponent settlement rejected")
	}
}

func TestCanPlaceSettlement_NeedsRoad(t *testing.T) {
	b := newTestBoard(t)
	c := corner(t, 2, 2, 2)
	if b.CanPlaceSettlement(c, model.Red) {
		t.Fatalf("expected road requirement")
	}
	b.PlaceFreeRoad(edge(t, 2, 2, 2), model.Red)
	if !b.CanPlaceSettlement(c, model.Red) {
		t.Fatalf("expected settlement at road end allowed")
	}
	if !b.CanPlaceAnySettlement(model.Red) || b.CanPlaceAnySettlement(model.Blue) {
		t.Fatalf("unexpected CanPlaceAnySettlement results")
	}
}

func TestCity_UpgradeOnly(t *testing.T) {
	b := newTestBoard(t)
	c := corner(t, 3, 1, 3)
	if b.CanPlaceCity(c, model.Red) {
		t.Fatalf("expected city on empty corner rejected")
	}
	b.PlaceFreeSettlement(c, model.Red)
	if b.CanPlaceCity(c, model.Blue) {
		t.Fatalf("expected other color rejected")
	}
	before := b.Bank()
	b.PlaceCity(c)
	if s := b.StructureAt(c); s.Kind != model.City {
		t.Fatalf("got %+v", s)
	}
	want := before
	want.Add(model.CityCost)
	if b.Bank() != want {
		t.Fatalf("bank %v want %v", b.Bank(), want)
	}
	if b.CanPlaceAnyCity(model.Red) {
		t.Fatalf("expected no further upgrades")
	}
}

func TestDistanceRule_GreedyFill(t *testing.T) {
	b := newTestBoard(t)
	for i := range hexgrid.Corners {
		c := hexgrid.CornerID(i)
		if b.CanPlaceSetupSettlement(c) {
			b.PlaceFreeSettlement(c, model.Colors[i%4])
		}
	}
	for i := range hexgrid.Corners {
		c := hexgrid.CornerID(i)
		if b.StructureAt(c).Empty() {
			continue
		}
		for _, n := range c.Neighbors() {
			if !b.StructureAt(n).Empty() {
				t.Fatalf("settled neighbors %v and %v", c.Coord(), n.Coord())
			}
		}
	}
}

func isolate(b *Board, h hexgrid.Hex, t Tile) {
	for i := range b.tiles {
		if !b.tiles[i].Desert {
			b.tiles[i].Number = 12
		}
	}
	hi, _ := hexgrid.HexIndex(h)
	b.tiles[hi] = t
	if b.robber == h {
		b.robber = hexgrid.Hexes[(hi+1)%hexgrid.NumHexes]
	}
}

func TestScenarioB_Production(t *testing.T) {
	b := newTestBoard(t)
	center := hexgrid.Hex{R: 2, Q: 2}
	isolate(b, center, Tile{Resource: model.Ore, Number: 5})
	b.PlaceFreeSettlement(corner(t, 2, 2, 0), model.Red)
	b.PlaceFreeSettlement(corner(t, 2, 2, 3), model.Blue)
	b.PlaceCity(corner(t, 2, 2, 3))
	bank := b.Bank()

	got := b.Produce(5)
	if got[model.Red] != model.One(model.Ore, 1) {
		t.Fatalf("settlement got %v", got[model.Red])
	}
	if got[model.Blue] != model.One(model.Ore, 2) {
		t.Fatalf("city got %v", got[model.Blue])
	}
	if b.Bank()[model.Ore] != bank[model.Ore]-3 {
		t.Fatalf("bank ore %d", b.Bank()[model.Ore])
	}

	b.robber = center
	got = b.Produce(5)
	if !got[model.Red].IsZero() || !got[model.Blue].IsZero() {
		t.Fatalf("robbed hex produced %v", got)
	}
}

func TestProduce_BankShortage(t *testing.T) {
	b := newTestBoard(t)
	center := hexgrid.Hex{R: 2, Q: 2}
	isolate(b, center, Tile{Resource: model.Ore, Number: 9})
	b.PlaceFreeSettlement(corner(t, 2, 2, 0), model.Red)
	b.PlaceFreeSettlement(corner(t, 2, 2, 3), model.Blue)
	b.bank[model.Ore] = 1

	got := b.Produce(9)
	if !got[model.Red].IsZero() || !got[model.Blue].IsZero() {
		t.Fatalf("expected nobody paid, got %v", got)
	}
	if b.Bank()[model.Ore] != 1 {
		t.Fatalf("bank changed: %v", b.Bank())
	}
}

func TestScenarioE_TradeRates(t *testing.T) {
	b := newTestBoard(t)
	b.ports[0] = model.Port{Resource: model.Wood}
	b.ports[1] = model.Port{Generic: true}
	for i := 2; i < hexgrid.NumPorts; i++ {
		b.ports[i] = model.Port{Resource: model.Ore}
	}

	if r := b.TradeRate(model.Red, model.Wood); r != 4 {
		t.Fatalf("no port: got %d", r)
	}
	b.PlaceFreeSettlement(hexgrid.PortCorners(1)[0], model.Red)
	if r := b.TradeRate(model.Red, model.Wood); r != 3 {
		t.Fatalf("generic port: got %d", r)
	}
	b.PlaceFreeSettlement(hexgrid.PortCorners(0)[1], model.Red)
	if r := b.TradeRate(model.Red, model.Wood); r != 2 {
		t.Fatalf("wood port: got %d", r)
	}
	if r := b.TradeRate(model.Red, model.Sheep); r != 3 {
		t.Fatalf("sheep with generic port: got %d", r)
	}
	if r := b.TradeRate(model.Blue, model.Wood); r != 4 {
		t.Fatalf("blue: got %d", r)
	}
}

func TestLongestRoad(t *testing.T) {
	b := newTestBoard(t)
	for e := 1; e <= 5; e++ {
		b.PlaceFreeRoad(edge(t, 2, 2, e), model.Red)
	}
	if n := b.LongestRoad(model.Red); n != 5 {
		t.Fatalf("chain: got %d", n)
	}
	// A branch at corner 1 does not extend the longest trail.
	b.PlaceFreeRoad(edge(t, 1, 3, 3), model.Red)
	if n := b.LongestRoad(model.Red); n != 5 {
		t.Fatalf("branch: got %d", n)
	}
	b.PlaceFreeSettlement(corner(t, 2, 2, 2), model.Blue)
	if n := b.LongestRoad(model.Red); n != 3 {
		t.Fatalf("split: got %d", n)
	}
	if n := b.LongestRoad(model.Blue); n != 0 {
		t.Fatalf("blue: got %d", n)
	}
}

func TestRobber(t *testing.T) {
	b := newTestBoard(t)
	target := hexgrid.Hex{R: 2, Q: 2}
	if b.Robber() == target {
		target = hexgrid.Hex{R: 2, Q: 3}
	}
	if b.CanMoveRobber(b.Robber()) {
		t.Fatalf("expected same-hex move rejected")
	}
	if b.CanMoveRobber(hexgrid.Hex{R: 0, Q: 0}) {
		t.Fatalf("expected off-board move rejected")
	}
	cs := hexgrid.HexCorners(target)
	b.PlaceFreeSettlement(cs[0], model.Red)
	b.PlaceFreeSettlement(cs[2], model.Blue)
	b.PlaceFreeSettlement(cs[4], model.Blue)
	b.MoveRobber(target)

	if got := b.ColorsOnHex(target); len(got) != 2 || got[0] != model.Red || got[1] != model.Blue {
		t.Fatalf("colors %v", got)
	}
	v := b.Victims(model.Red)
	if len(v) != 1 || v[0] != model.Blue {
		t.Fatalf("victims %v", v)
	}
	if !b.IsRobbable(cs[2], model.Red) || b.IsRobbable(cs[0], model.Red) || b.IsRobbable(cs[1], model.Red) {
		t.Fatalf("unexpected IsRobbable results")
	}
}

func TestDrawDevCard_DrainsDeck(t *testing.T) {
	b := newTestBoard(t)
	r := rng.New(3)
	var drawn model.DevHand
	for b.CanDrawDevCard() {
		drawn[b.DrawDevCard(r)]++
	}
	if drawn != catalogs.Defaults().DevDeck {
		t.Fatalf("drawn %v", drawn)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty deck")
		}
	}()
	b.DrawDevCard(r)
}

func TestState_RoundTrip(t *testing.T) {
	b := newTestBoard(t)
	b.PlaceFreeSettlement(corner(t, 2, 2, 0), model.Orange)
	b.PlaceFreeRoad(edge(t, 2, 2, 0), model.Orange)
	b.PlaceCity(corner(t, 2, 2, 0))

	got, err := FromState(4, b.Rules(), b.ExportState())
	if err != nil {
		t.Fatalf("FromState: %v", err)
	}
	if got.ExportState() != b.ExportState() {
		t.Fatalf("state mismatch")
	}
	if _, err := FromState(2, b.Rules(), b.ExportState()); err == nil {
		t.Fatalf("expected absent color rejected")
	}
}

func TestFromState_DesertCount(t *testing.T) {
	b := newTestBoard(t)
	for _, h := range hexgrid.Hexes {
		if h != b.Robber() {
			b.MoveRobber(h)
			break
		}
	}
	s := b.ExportState()
	if _, err := FromState(4, b.Rules(), s); err != nil {
		t.Fatalf("robber off the desert: %v", err)
	}

	for i := range s.Tiles {
		if !s.Tiles[i].Desert {
			s.Tiles[i].Desert = true
			break
		}
	}
	if _, err := FromState(4, b.Rules(), s); err == nil {
		t.Fatalf("expected two deserts rejected")
	}
}
