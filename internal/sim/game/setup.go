package game

import (
	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/player"
)

// Setup is the snake-order initial placement: seats 0..n-1 then n-1..0, each
// placing one settlement (distance rule only) and then one road touching it.
// Settlements placed on the way back grant their adjacent resources.
type Setup struct {
	cfg     Config
	board   *board.Board
	players []*player.Player

	order []int
	step  int
	// pending is the settlement awaiting its road, or -1.
	pending hexgrid.CornerID
}

func NewSetup(b *board.Board, cfg Config) *Setup {
	n := b.NumPlayers()
	players := make([]*player.Player, n)
	for i := range players {
		players[i] = player.New(model.Colors[i], b.Rules())
	}
	return &Setup{
		cfg:     cfg,
		board:   b,
		players: players,
		order:   snakeOrder(n),
		pending: -1,
	}
}

func snakeOrder(n int) []int {
	order := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		order = append(order, i)
	}
	for i := n - 1; i >= 0; i-- {
		order = append(order, i)
	}
	return order
}

func (s *Setup) Board() *board.Board            { return s.board }
func (s *Setup) NumPlayers() int                { return len(s.players) }
func (s *Setup) Player(seat int) *player.Player { return s.players[seat] }
func (s *Setup) Step() int                      { return s.step }
func (s *Setup) Done() bool                     { return s.step >= len(s.order) }

// Seat is the seat to act, or -1 once setup is done.
func (s *Setup) Seat() int {
	if s.Done() {
		return -1
	}
	return s.order[s.step]
}

// AwaitingRoad reports whether the current seat has placed its settlement.
func (s *Setup) AwaitingRoad() bool { return s.pending >= 0 }

// PendingSettlement is the settlement the next road must touch.
func (s *Setup) PendingSettlement() (hexgrid.CornerID, bool) { return s.pending, s.pending >= 0 }

func (s *Setup) secondPass() bool { return s.step >= len(s.players) }

func (s *Setup) authorize(seat int) error {
	if s.Done() {
		return ErrWrongPhase
	}
	if seat != s.Seat() {
		return ErrNotYourTurn
	}
	return nil
}

func (s *Setup) PlaceSettlement(seat int, c hexgrid.Corner) error {
	if err := s.authorize(seat); err != nil {
		return err
	}
	if s.pending >= 0 {
		return ErrWrongPhase
	}
	id, err := lookupCorner(c)
	if err != nil {
		return err
	}
	if !s.board.CanPlaceSetupSettlement(id) {
		return ErrIllegalPlacement
	}
	p := s.players[seat]
	p.FreeSettlement()
	s.board.PlaceFreeSettlement(id, p.Color)
	if s.secondPass() {
		p.Hand.Add(s.board.SetupYield(id))
	}
	s.pending = id
	return nil
}

func (s *Setup) PlaceRoad(seat int, e hexgrid.Edge) error {
	if err := s.authorize(seat); err != nil {
		return err
	}
	if s.pending < 0 {
		return ErrWrongPhase
	}
	id, err := lookupEdge(e)
	if err != nil {
		return err
	}
	if !s.board.CanPlaceSetupRoad(id, s.pending) {
		return ErrIllegalPlacement
	}
	p := s.players[seat]
	p.FreeRoad()
	s.board.PlaceFreeRoad(id, p.Color)
	s.pending = -1
	s.step++
	return nil
}

// Finish hands the board and players to the main game. Seat 0 opens.
func (s *Setup) Finish() (*Game, error) {
	if !s.Done() {
		return nil, ErrWrongPhase
	}
	g := newGame(s.board, s.players, s.cfg)
	for _, p := range g.players {
		p.RoadLength = g.board.LongestRoad(p.Color)
	}
	return g, nil
}
