package game

import (
	"errors"
	"testing"

	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/rng"
)

func newTestSetup(t *testing.T, n int) *Setup {
	t.Helper()
	b, err := board.New(n, catalogs.Defaults(), rng.New(7), 1000)
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	return NewSetup(b, Config{})
}

// firstSpot finds the lowest legal settlement corner and a road for it.
func firstSpot(t *testing.T, s *Setup) (hexgrid.CornerID, hexgrid.EdgeID) {
	t.Helper()
	for c := hexgrid.CornerID(0); c < hexgrid.NumCorners; c++ {
		if !s.board.CanPlaceSetupSettlement(c) {
			continue
		}
		for _, e := range c.Edges() {
			if s.board.CanPlaceSetupRoad(e, c) {
				return c, e
			}
		}
	}
	t.Fatalf("no setup spot left")
	return -1, -1
}

func TestSetup_SnakeOrder(t *testing.T) {
	s := newTestSetup(t, 3)
	want := []int{0, 1, 2, 2, 1, 0}
	for i, seat := range want {
		if s.Seat() != seat {
			t.Fatalf("step %d: seat %d want %d", i, s.Seat(), seat)
		}
		c, e := firstSpot(t, s)
		if err := s.PlaceSettlement(seat, c.Coord()); err != nil {
			t.Fatalf("step %d settlement: %v", i, err)
		}
		if err := s.PlaceRoad(seat, e.Coord()); err != nil {
			t.Fatalf("step %d road: %v", i, err)
		}
	}
	if !s.Done() || s.Seat() != -1 {
		t.Fatalf("done %v seat %d", s.Done(), s.Seat())
	}
	g, err := s.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if g.TurnPlayer() != 0 || g.Rolled() {
		t.Fatalf("turn %d rolled %v", g.TurnPlayer(), g.Rolled())
	}
	for seat := 0; seat < 3; seat++ {
		p := g.Player(seat)
		if p.Points != 2 || p.SettlementsLeft != 3 || p.RoadsLeft != 13 {
			t.Fatalf("seat %d: %+v", seat, p.State)
		}
	}
}

func TestSetup_SecondPassYields(t *testing.T) {
	s := newTestSetup(t, 2)
	for step := 0; step < 4; step++ {
		seat := s.Seat()
		c, e := firstSpot(t, s)
		before := s.Player(seat).Hand
		want := before
		if step >= 2 {
			for _, h := range c.Hexes() {
				tile, _ := s.board.Tile(h)
				if !tile.Desert {
					want[tile.Resource]++
				}
			}
		}
		if err := s.PlaceSettlement(seat, c.Coord()); err != nil {
			t.Fatalf("settlement: %v", err)
		}
		if got := s.Player(seat).Hand; got != want {
			t.Fatalf("step %d: hand %v want %v", step, got, want)
		}
		if err := s.PlaceRoad(seat, e.Coord()); err != nil {
			t.Fatalf("road: %v", err)
		}
	}
}

func TestSetup_Rejections(t *testing.T) {
	s := newTestSetup(t, 4)
	c, e := firstSpot(t, s)

	if err := s.PlaceSettlement(1, c.Coord()); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("wrong seat: got %v", err)
	}
	if err := s.PlaceRoad(0, e.Coord()); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("road first: got %v", err)
	}
	if err := s.PlaceSettlement(0, c.Coord()); err != nil {
		t.Fatalf("settlement: %v", err)
	}
	if !s.AwaitingRoad() {
		t.Fatalf("expected road pending")
	}
	if err := s.PlaceSettlement(0, c.Coord()); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("second settlement: got %v", err)
	}
	// A road elsewhere must touch the new settlement.
	far := hexgrid.HexCorners(hexgrid.Hexes[hexgrid.NumHexes-1])[0].Edges()[0]
	if err := s.PlaceRoad(0, far.Coord()); !errors.Is(err, ErrIllegalPlacement) {
		t.Fatalf("detached road: got %v", err)
	}
	if err := s.PlaceRoad(0, e.Coord()); err != nil {
		t.Fatalf("road: %v", err)
	}

	// Next settlement must respect the distance rule.
	n := c.Neighbors()[0]
	if err := s.PlaceSettlement(1, n.Coord()); !errors.Is(err, ErrIllegalPlacement) {
		t.Fatalf("adjacent settlement: got %v", err)
	}
	if _, err := s.Finish(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("finish early: got %v", err)
	}
}

func TestSetup_StateRoundTrip(t *testing.T) {
	s := newTestSetup(t, 2)
	c, _ := firstSpot(t, s)
	if err := s.PlaceSettlement(0, c.Coord()); err != nil {
		t.Fatalf("settlement: %v", err)
	}
	s2, err := SetupFromState(catalogs.Defaults(), Config{}, s.ExportState())
	if err != nil {
		t.Fatalf("SetupFromState: %v", err)
	}
	if p, ok := s2.PendingSettlement(); !ok || p != c || s2.Seat() != 0 {
		t.Fatalf("pending %v %v seat %d", p, ok, s2.Seat())
	}
}
