package game

import (
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
)

// RollDice rolls two dice for the turn player. A seven starts the discard
// round (or goes straight to the robber); anything else produces.
func (g *Game) RollDice(seat int, r rng.Rand) (int, error) {
	if err := g.authorize(seat); err != nil {
		return 0, err
	}
	if err := g.idle(); err != nil {
		return 0, err
	}
	if g.roll != 0 {
		return 0, ErrAlreadyRolled
	}

	g.dice = [2]int{r.Intn(6) + 1, r.Intn(6) + 1}
	g.roll = g.dice[0] + g.dice[1]

	if g.roll != 7 {
		got := g.board.Produce(g.roll)
		for _, p := range g.players {
			p.Hand.Add(got[p.Color])
		}
		return g.roll, nil
	}

	g.discardQueue = g.discardQueue[:0]
	n := len(g.players)
	for i := 1; i <= n; i++ {
		seat := (g.turn + i) % n
		if g.players[seat].DiscardCount() > 0 {
			g.discardQueue = append(g.discardQueue, seat)
		}
	}
	g.nextDiscard()
	return g.roll, nil
}

// nextDiscard opens the discard selector for the next owing seat, or hands
// the robber to the turn player once everyone has discarded.
func (g *Game) nextDiscard() {
	if len(g.discardQueue) == 0 {
		g.action = MovingRobber
		g.current = g.turn
		return
	}
	seat := g.discardQueue[0]
	g.action = Discarding
	g.current = seat
	g.selector = &Selector{Kind: SelectDiscard, Seat: seat, Need: g.players[seat].DiscardCount()}
}

// MoveRobber moves the robber and resolves theft. With several possible
// victims the turn moves on to ChoosingVictim.
func (g *Game) MoveRobber(seat int, h hexgrid.Hex, r rng.Rand) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if g.action != MovingRobber {
		return ErrWrongPhase
	}
	if !g.board.CanMoveRobber(h) {
		return ErrBadRobberMove
	}
	g.board.MoveRobber(h)

	victims := g.board.Victims(g.color(seat))
	switch len(victims) {
	case 0:
		g.action = Idling
	case 1:
		g.steal(seat, victims[0], r)
		g.action = Idling
	default:
		g.action = ChoosingVictim
	}
	return nil
}

// ChooseVictim steals from the owner of a robbable corner.
func (g *Game) ChooseVictim(seat int, c hexgrid.Corner, r rng.Rand) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if g.action != ChoosingVictim {
		return ErrWrongPhase
	}
	id, err := lookupCorner(c)
	if err != nil {
		return err
	}
	if !g.board.IsRobbable(id, g.color(seat)) {
		return ErrNotRobbable
	}
	g.steal(seat, g.board.StructureAt(id).Color, r)
	g.action = Idling
	return nil
}

func (g *Game) steal(seat int, victim model.Color, r rng.Rand) {
	vs, ok := g.SeatOf(victim)
	if !ok {
		panic("game: victim color not seated")
	}
	g.players[seat].StealFrom(g.players[vs], r)
}

// PassTurn ends the turn: bought cards become playable and open offers lapse.
func (g *Game) PassTurn(seat int) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if err := g.idle(); err != nil {
		return err
	}
	if g.roll == 0 {
		return ErrNotRolled
	}
	g.players[seat].CycleDevCards()
	g.offers = nil
	g.turn = (g.turn + 1) % len(g.players)
	g.current = g.turn
	g.roll = 0
	g.dice = [2]int{}
	g.playedDev = false
	g.placedFirst = false
	g.turnNumber++
	return nil
}
