package game

import (
	"fmt"

	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/player"
)

// State is the full main-phase engine state.
type State struct {
	Board   board.State
	Players []player.State

	Turn        int
	Current     int
	Roll        int
	Dice        [2]int
	PlayedDev   bool
	Action      Action
	PlacedFirst bool
	Selector    *Selector

	Offers       []Offer
	NextOfferID  int
	DiscardQueue []int

	LargestArmy int
	LongestRoad int
	Winner      int
	TurnNumber  int
}

func (g *Game) ExportState() State {
	st := State{
		Board:        g.board.ExportState(),
		Turn:         g.turn,
		Current:      g.current,
		Roll:         g.roll,
		Dice:         g.dice,
		PlayedDev:    g.playedDev,
		Action:       g.action,
		PlacedFirst:  g.placedFirst,
		Offers:       g.Offers(),
		NextOfferID:  g.nextOfferID,
		DiscardQueue: g.DiscardQueue(),
		LargestArmy:  g.largestArmy,
		LongestRoad:  g.longestRoad,
		Winner:       g.winner,
		TurnNumber:   g.turnNumber,
	}
	if g.selector != nil {
		sel := *g.selector
		st.Selector = &sel
	}
	for _, p := range g.players {
		st.Players = append(st.Players, p.State)
	}
	return st
}

func FromState(rules *catalogs.Rules, cfg Config, st State) (*Game, error) {
	n := len(st.Players)
	b, err := board.FromState(n, rules, st.Board)
	if err != nil {
		return nil, err
	}
	seat := func(v int, allowNone bool) bool {
		return (allowNone && v == -1) || (v >= 0 && v < n)
	}
	if !seat(st.Turn, false) || !seat(st.Current, false) || !seat(st.LargestArmy, true) ||
		!seat(st.LongestRoad, true) || !seat(st.Winner, true) {
		return nil, fmt.Errorf("game: seat index out of range")
	}
	for _, s := range st.DiscardQueue {
		if !seat(s, false) {
			return nil, fmt.Errorf("game: discard seat %d out of range", s)
		}
	}
	if st.Selector != nil && !seat(st.Selector.Seat, false) {
		return nil, fmt.Errorf("game: selector seat %d out of range", st.Selector.Seat)
	}

	players := make([]*player.Player, n)
	for i, ps := range st.Players {
		players[i] = player.FromState(rules, ps)
	}
	g := newGame(b, players, cfg)
	g.turn = st.Turn
	g.current = st.Current
	g.roll = st.Roll
	g.dice = st.Dice
	g.playedDev = st.PlayedDev
	g.action = st.Action
	g.placedFirst = st.PlacedFirst
	if st.Selector != nil {
		sel := *st.Selector
		g.selector = &sel
	}
	g.offers = append([]Offer(nil), st.Offers...)
	g.nextOfferID = st.NextOfferID
	g.discardQueue = append([]int(nil), st.DiscardQueue...)
	g.largestArmy = st.LargestArmy
	g.longestRoad = st.LongestRoad
	g.winner = st.Winner
	g.turnNumber = st.TurnNumber
	return g, nil
}

// SetupState is the full setup-phase engine state.
type SetupState struct {
	Board   board.State
	Players []player.State
	Step    int
	Pending int
}

func (s *Setup) ExportState() SetupState {
	st := SetupState{
		Board:   s.board.ExportState(),
		Step:    s.step,
		Pending: int(s.pending),
	}
	for _, p := range s.players {
		st.Players = append(st.Players, p.State)
	}
	return st
}

func SetupFromState(rules *catalogs.Rules, cfg Config, st SetupState) (*Setup, error) {
	n := len(st.Players)
	b, err := board.FromState(n, rules, st.Board)
	if err != nil {
		return nil, err
	}
	if st.Step < 0 || st.Step > 2*n {
		return nil, fmt.Errorf("game: setup step %d out of range", st.Step)
	}
	if st.Pending < -1 || st.Pending >= hexgrid.NumCorners {
		return nil, fmt.Errorf("game: pending corner %d out of range", st.Pending)
	}
	s := &Setup{
		cfg:     cfg,
		board:   b,
		players: make([]*player.Player, n),
		order:   snakeOrder(n),
		step:    st.Step,
		pending: hexgrid.CornerID(st.Pending),
	}
	for i, ps := range st.Players {
		s.players[i] = player.FromState(rules, ps)
	}
	return s, nil
}
