package match

import (
	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/game"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/player"
)

func (m *Match) board() *board.Board {
	if m.game != nil {
		return m.game.Board()
	}
	return m.setup.Board()
}

func (m *Match) player(seat int) *player.Player {
	if m.game != nil {
		return m.game.Player(seat)
	}
	return m.setup.Player(seat)
}

// Obs builds the observation for seat. Hidden information of other seats is
// reduced to counts.
func (m *Match) Obs(seat int) protocol.ObsMsg { return m.buildObs(seat) }

func (m *Match) buildObs(seat int) protocol.ObsMsg {
	b := m.board()
	me := m.player(seat)

	obs := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		MatchID:         m.cfg.ID,
		Seq:             m.seq,
		Seat:            seat,
		Phase:           m.Phase(),
		Board:           boardObs(b),
		Self: protocol.SelfObs{
			Color:         me.Color.String(),
			Hand:          handMap(me.Hand),
			DevCards:      devMap(me.Dev),
			NewDevCards:   devMap(me.NewDev),
			TradeRates:    rateMap(b.TradeRates(me.Color)),
			VictoryPoints: me.VictoryPoints(),
		},
	}
	for i := 0; i < m.cfg.NumPlayers; i++ {
		p := m.player(i)
		obs.Players = append(obs.Players, protocol.PlayerObs{
			Seat:            i,
			Color:           p.Color.String(),
			Cards:           p.Hand.Size(),
			DevCards:        p.DevCardCount(),
			Knights:         p.Knights,
			RoadLength:      p.RoadLength,
			LargestArmy:     p.LargestArmy,
			LongestRoad:     p.LongestRoad,
			PublicPoints:    p.PublicVictoryPoints(),
			RoadsLeft:       p.RoadsLeft,
			SettlementsLeft: p.SettlementsLeft,
			CitiesLeft:      p.CitiesLeft,
		})
	}

	if m.game == nil {
		obs.Turn = protocol.TurnObs{
			Number:       0,
			TurnSeat:     m.setup.Seat(),
			CurrentSeat:  m.setup.Seat(),
			SetupStep:    m.setup.Step(),
			AwaitingRoad: m.setup.AwaitingRoad(),
		}
		return obs
	}

	g := m.game
	obs.Turn = protocol.TurnObs{
		Number:        g.TurnNumber(),
		TurnSeat:      g.TurnPlayer(),
		CurrentSeat:   g.CurrentPlayer(),
		Action:        g.Action().String(),
		Roll:          g.Roll(),
		Dice:          g.Dice(),
		PlayedDevCard: g.PlayedDevCard(),
		DiscardQueue:  g.DiscardQueue(),
	}
	if sel, ok := g.Selector(); ok {
		so := &protocol.SelectorObs{
			Kind:       sel.Kind.String(),
			Seat:       sel.Seat,
			Bottom:     handMap(sel.Bottom),
			Need:       sel.Need,
			CanExecute: g.CanExecuteSelector(sel.Seat),
		}
		if sel.Kind == game.SelectTrade {
			so.Top = handMap(sel.Top)
		}
		obs.Turn.Selector = so
	}
	for _, o := range g.Offers() {
		obs.Turn.Offers = append(obs.Turn.Offers, protocol.OfferObs{
			ID:   o.ID,
			Seat: o.Seat,
			Give: handMap(o.Give),
			Get:  handMap(o.Get),
		})
	}

	av := g.AvailableActions(me.Color)
	obs.Available = protocol.AvailableObs{
		BuyDevCard: av[game.SlotBuyDevCard],
		Road:       av[game.SlotRoad],
		Settlement: av[game.SlotSettlement],
		City:       av[game.SlotCity],
		EndTurn:    av[game.SlotEndTurn],
	}
	if w, ok := g.Winner(); ok {
		obs.Winner = &w
	}
	return obs
}

func boardObs(b *board.Board) protocol.BoardObs {
	out := protocol.BoardObs{
		Structures: []protocol.StructureObs{},
		Roads:      []protocol.RoadObs{},
		Bank:       handMap(b.Bank()),
		DevDeck:    b.DevBank().Size(),
	}
	robber := b.Robber()
	out.Robber = [2]int{robber.R, robber.Q}

	for _, h := range hexgrid.Hexes {
		t, _ := b.Tile(h)
		to := protocol.TileObs{Hex: [2]int{h.R, h.Q}, Desert: t.Desert}
		if !t.Desert {
			to.Resource = t.Resource.String()
			to.Number = t.Number
		}
		out.Tiles = append(out.Tiles, to)
	}
	for i := 0; i < hexgrid.NumPorts; i++ {
		p := b.Port(i)
		kind := "GENERIC"
		if !p.Generic {
			kind = p.Resource.String()
		}
		cs := hexgrid.PortCorners(i)
		out.Ports = append(out.Ports, protocol.PortObs{
			Corners: [2][3]int{cornerArr(cs[0]), cornerArr(cs[1])},
			Kind:    kind,
		})
	}
	for id := hexgrid.CornerID(0); id < hexgrid.NumCorners; id++ {
		s := b.StructureAt(id)
		if s.Empty() {
			continue
		}
		out.Structures = append(out.Structures, protocol.StructureObs{
			Corner: cornerArr(id),
			Kind:   s.Kind.String(),
			Color:  s.Color.String(),
		})
	}
	for id := hexgrid.EdgeID(0); id < hexgrid.NumEdges; id++ {
		col, ok := b.RoadAt(id)
		if !ok {
			continue
		}
		e := id.Coord()
		out.Roads = append(out.Roads, protocol.RoadObs{Edge: [3]int{e.R, e.Q, e.E}, Color: col.String()})
	}
	return out
}

func cornerArr(id hexgrid.CornerID) [3]int {
	c := id.Coord()
	return [3]int{c.R, c.Q, c.C}
}

func handMap(h model.Hand) map[string]int {
	out := make(map[string]int, model.NumResources)
	for _, r := range model.Resources {
		out[r.String()] = h[r]
	}
	return out
}

func devMap(d model.DevHand) map[string]int {
	out := make(map[string]int, model.NumDevCards)
	for _, c := range model.DevCards {
		out[c.String()] = d[c]
	}
	return out
}

func rateMap(rates [model.NumResources]int) map[string]int {
	out := make(map[string]int, model.NumResources)
	for _, r := range model.Resources {
		out[r.String()] = rates[r]
	}
	return out
}
