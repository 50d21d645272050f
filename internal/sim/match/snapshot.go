package match

import (
	"fmt"

	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/encoding"
	"hexsettlers/internal/sim/game"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/player"
)

// ExportSnapshot captures everything needed to resume at the current seq.
func (m *Match) ExportSnapshot() snapshot.MatchV1 {
	snap := snapshot.MatchV1{
		Header:                snapshot.Header{Version: snapshot.Version, MatchID: m.cfg.ID, Seq: m.seq},
		Seed:                  m.cfg.Seed,
		NumPlayers:            m.cfg.NumPlayers,
		RulesDigest:           m.rules.Digest,
		MaxOpenOffers:         m.cfg.MaxOpenOffers,
		SnapshotEveryCommands: m.cfg.SnapshotEveryCommands,
		Phase:                 m.Phase(),
	}
	if m.game == nil {
		st := m.setup.ExportState()
		snap.Board = boardV1(st.Board)
		snap.Players = playersV1(st.Players)
		snap.Setup = &snapshot.SetupV1{Step: st.Step, Pending: st.Pending}
		return snap
	}

	st := m.game.ExportState()
	snap.Board = boardV1(st.Board)
	snap.Players = playersV1(st.Players)
	t := &snapshot.TurnV1{
		Turn:         st.Turn,
		Current:      st.Current,
		Number:       st.TurnNumber,
		Roll:         st.Roll,
		Dice:         st.Dice,
		PlayedDev:    st.PlayedDev,
		Action:       st.Action.String(),
		PlacedFirst:  st.PlacedFirst,
		NextOfferID:  st.NextOfferID,
		DiscardQueue: st.DiscardQueue,
		LargestArmy:  st.LargestArmy,
		LongestRoad:  st.LongestRoad,
		Winner:       st.Winner,
	}
	if s := st.Selector; s != nil {
		t.Selector = &snapshot.SelectorV1{
			Kind:   s.Kind.String(),
			Seat:   s.Seat,
			Bottom: s.Bottom,
			Top:    s.Top,
			Need:   s.Need,
		}
	}
	for _, o := range st.Offers {
		t.Offers = append(t.Offers, snapshot.OfferV1{ID: o.ID, Seat: o.Seat, Give: o.Give, Get: o.Get})
	}
	snap.Turn = t
	return snap
}

// FromSnapshot rebuilds a match that continues at snap's seq. The rules
// must be the ones the match was started with.
func FromSnapshot(rules *catalogs.Rules, snap snapshot.MatchV1, inboxSize int) (*Match, error) {
	if snap.RulesDigest != rules.Digest {
		return nil, fmt.Errorf("match: rules digest mismatch: snapshot %s, loaded %s", snap.RulesDigest, rules.Digest)
	}
	if snap.NumPlayers != len(snap.Players) {
		return nil, fmt.Errorf("match: snapshot has %d players, header says %d", len(snap.Players), snap.NumPlayers)
	}
	cfg := Config{
		ID:                    snap.Header.MatchID,
		Seed:                  snap.Seed,
		NumPlayers:            snap.NumPlayers,
		MaxOpenOffers:         snap.MaxOpenOffers,
		SnapshotEveryCommands: snap.SnapshotEveryCommands,
		InboxSize:             inboxSize,
	}
	m := newMatch(cfg, rules)
	m.seq = snap.Header.Seq
	m.pubSeq.Store(m.seq)

	bs, err := boardFromV1(snap.Board)
	if err != nil {
		return nil, err
	}
	ps := playersFromV1(snap.Players)

	switch {
	case snap.Setup != nil:
		s, err := game.SetupFromState(rules, m.gameConfig(), game.SetupState{
			Board:   bs,
			Players: ps,
			Step:    snap.Setup.Step,
			Pending: snap.Setup.Pending,
		})
		if err != nil {
			return nil, err
		}
		m.setup = s
	case snap.Turn != nil:
		t := snap.Turn
		st := game.State{
			Board:        bs,
			Players:      ps,
			Turn:         t.Turn,
			Current:      t.Current,
			Roll:         t.Roll,
			Dice:         t.Dice,
			PlayedDev:    t.PlayedDev,
			PlacedFirst:  t.PlacedFirst,
			NextOfferID:  t.NextOfferID,
			DiscardQueue: t.DiscardQueue,
			LargestArmy:  t.LargestArmy,
			LongestRoad:  t.LongestRoad,
			Winner:       t.Winner,
			TurnNumber:   t.Number,
		}
		if err := st.Action.UnmarshalText([]byte(t.Action)); err != nil {
			return nil, fmt.Errorf("match: %w", err)
		}
		if s := t.Selector; s != nil {
			sel := game.Selector{Seat: s.Seat, Bottom: s.Bottom, Top: s.Top, Need: s.Need}
			if err := sel.Kind.UnmarshalText([]byte(s.Kind)); err != nil {
				return nil, fmt.Errorf("match: %w", err)
			}
			st.Selector = &sel
		}
		for _, o := range t.Offers {
			st.Offers = append(st.Offers, game.Offer{ID: o.ID, Seat: o.Seat, Give: o.Give, Get: o.Get})
		}
		g, err := game.FromState(rules, m.gameConfig(), st)
		if err != nil {
			return nil, err
		}
		m.game = g
		if _, ok := g.Winner(); ok {
			m.finished = true
		}
	default:
		return nil, fmt.Errorf("match: snapshot has neither setup nor turn state")
	}
	return m, nil
}

func boardV1(s board.State) snapshot.BoardV1 {
	out := snapshot.BoardV1{
		Robber:     [2]int{s.Robber.R, s.Robber.Q},
		Structures: encoding.EncodeRLE(s.Structures[:]),
		Roads:      encoding.EncodeRLE(s.Roads[:]),
		Bank:       s.Bank,
		DevBank:    s.DevBank,
	}
	for _, t := range s.Tiles {
		out.Tiles = append(out.Tiles, snapshot.TileV1{Desert: t.Desert, Resource: int(t.Resource), Number: t.Number})
	}
	for _, p := range s.Ports {
		out.Ports = append(out.Ports, snapshot.PortV1{Generic: p.Generic, Resource: int(p.Resource)})
	}
	return out
}

func boardFromV1(b snapshot.BoardV1) (board.State, error) {
	var s board.State
	if len(b.Tiles) != hexgrid.NumHexes || len(b.Ports) != hexgrid.NumPorts {
		return s, fmt.Errorf("match: snapshot board has %d tiles and %d ports", len(b.Tiles), len(b.Ports))
	}
	for i, t := range b.Tiles {
		s.Tiles[i] = board.Tile{Desert: t.Desert, Resource: model.Resource(t.Resource), Number: t.Number}
	}
	for i, p := range b.Ports {
		s.Ports[i] = model.Port{Generic: p.Generic, Resource: model.Resource(p.Resource)}
	}
	s.Robber = hexgrid.Hex{R: b.Robber[0], Q: b.Robber[1]}
	s.Bank = b.Bank
	s.DevBank = b.DevBank

	structures, err := encoding.DecodeRLE(b.Structures, hexgrid.NumCorners)
	if err != nil {
		return s, fmt.Errorf("match: structures: %w", err)
	}
	roads, err := encoding.DecodeRLE(b.Roads, hexgrid.NumEdges)
	if err != nil {
		return s, fmt.Errorf("match: roads: %w", err)
	}
	copy(s.Structures[:], structures)
	copy(s.Roads[:], roads)
	return s, nil
}

func playersV1(ps []player.State) []snapshot.PlayerV1 {
	out := make([]snapshot.PlayerV1, 0, len(ps))
	for _, p := range ps {
		out = append(out, snapshot.PlayerV1{
			Color:           int(p.Color),
			Hand:            p.Hand,
			Dev:             p.Dev,
			NewDev:          p.NewDev,
			Knights:         p.Knights,
			RoadLength:      p.RoadLength,
			LargestArmy:     p.LargestArmy,
			LongestRoad:     p.LongestRoad,
			Points:          p.Points,
			RoadsLeft:       p.RoadsLeft,
			SettlementsLeft: p.SettlementsLeft,
			CitiesLeft:      p.CitiesLeft,
		})
	}
	return out
}

func playersFromV1(ps []snapshot.PlayerV1) []player.State {
	out := make([]player.State, 0, len(ps))
	for _, p := range ps {
		out = append(out, player.State{
			Color:           model.Color(p.Color),
			Hand:            p.Hand,
			Dev:             p.Dev,
			NewDev:          p.NewDev,
			Knights:         p.Knights,
			RoadLength:      p.RoadLength,
			LargestArmy:     p.LargestArmy,
			LongestRoad:     p.LongestRoad,
			Points:          p.Points,
			RoadsLeft:       p.RoadsLeft,
			SettlementsLeft: p.SettlementsLeft,
			CitiesLeft:      p.CitiesLeft,
		})
	}
	return out
}
