// Package game is the turn and action state machine. Every command checks
// who may act and what phase the turn is in, validates against the board and
// player, then applies atomically. A rejected command returns a sentinel
// error and changes nothing.
package game

import (
	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/player"
)

type Config struct {
	// MaxOpenOffers caps queued peer trade offers; 0 means unlimited.
	MaxOpenOffers int
}

// Offer is a queued peer trade proposal.
type Offer struct {
	ID   int        `json:"id"`
	Seat int        `json:"seat"`
	Give model.Hand `json:"give"`
	Get  model.Hand `json:"get"`
}

type Game struct {
	cfg     Config
	rules   *catalogs.Rules
	board   *board.Board
	players []*player.Player

	turn    int
	current int
	// roll is 0 until the dice are rolled this turn.
	roll        int
	dice        [2]int
	playedDev   bool
	action      Action
	placedFirst bool
	selector    *Selector

	offers      []Offer
	nextOfferID int

	// discardQueue lists seats still owing a discard after a seven.
	discardQueue []int

	largestArmy int
	longestRoad int
	winner      int
	turnNumber  int
}

func newGame(b *board.Board, players []*player.Player, cfg Config) *Game {
	return &Game{
		cfg:         cfg,
		rules:       b.Rules(),
		board:       b,
		players:     players,
		largestArmy: -1,
		longestRoad: -1,
		winner:      -1,
		nextOfferID: 1,
		turnNumber:  1,
	}
}

func (g *Game) Board() *board.Board { return g.board }
func (g *Game) NumPlayers() int     { return len(g.players) }

func (g *Game) Player(seat int) *player.Player { return g.players[seat] }

func (g *Game) TurnPlayer() int     { return g.turn }
func (g *Game) CurrentPlayer() int  { return g.current }
func (g *Game) Roll() int           { return g.roll }
func (g *Game) Dice() [2]int        { return g.dice }
func (g *Game) Rolled() bool        { return g.roll != 0 }
func (g *Game) PlayedDevCard() bool { return g.playedDev }
func (g *Game) Action() Action      { return g.action }
func (g *Game) TurnNumber() int     { return g.turnNumber }

// RoadBuildingPlacedFirst reports whether the first free road of a road
// building card is down.
func (g *Game) RoadBuildingPlacedFirst() bool { return g.placedFirst }

// Selector returns a copy of the pending selection, if any.
func (g *Game) Selector() (Selector, bool) {
	if g.selector == nil {
		return Selector{}, false
	}
	return *g.selector, true
}

func (g *Game) Offers() []Offer { return append([]Offer(nil), g.offers...) }

func (g *Game) DiscardQueue() []int { return append([]int(nil), g.discardQueue...) }

func (g *Game) LargestArmyHolder() int { return g.largestArmy }
func (g *Game) LongestRoadHolder() int { return g.longestRoad }

// Winner returns the winning seat once the game has ended.
func (g *Game) Winner() (int, bool) { return g.winner, g.winner >= 0 }

func (g *Game) color(seat int) model.Color { return g.players[seat].Color }

// SeatOf returns the seat playing color.
func (g *Game) SeatOf(color model.Color) (int, bool) {
	for i, p := range g.players {
		if p.Color == color {
			return i, true
		}
	}
	return -1, false
}

// authorize is the common gate for commands issued by seat.
func (g *Game) authorize(seat int) error {
	if g.winner >= 0 {
		return ErrGameOver
	}
	if seat < 0 || seat >= len(g.players) || seat != g.current {
		return ErrNotYourTurn
	}
	return nil
}

// idle requires the Idling phase with no pending selection.
func (g *Game) idle() error {
	if g.action != Idling {
		return ErrWrongPhase
	}
	if g.selector != nil {
		return ErrSelectorOpen
	}
	return nil
}

// AvailableActions reports which menu slots color may use right now: buy dev
// card, build road, build settlement, build city, end turn. In a build mode
// only that mode's slot is lit.
func (g *Game) AvailableActions(color model.Color) [NumSlots]bool {
	var out [NumSlots]bool
	seat, ok := g.SeatOf(color)
	if !ok || seat != g.current || seat != g.turn || g.roll == 0 || g.winner >= 0 || g.selector != nil {
		return out
	}
	p := g.players[seat]
	switch g.action {
	case Idling:
		out[SlotBuyDevCard] = p.CanBuyDevCard() && g.board.CanDrawDevCard()
		out[SlotRoad] = p.CanBuildRoad() && g.board.CanPlaceAnyRoad(color)
		out[SlotSettlement] = p.CanBuildSettlement() && g.board.CanPlaceAnySettlement(color)
		out[SlotCity] = p.CanBuildCity() && g.board.CanPlaceAnyCity(color)
		out[SlotEndTurn] = true
	case BuildingRoad:
		out[SlotRoad] = true
	case BuildingSettlement:
		out[SlotSettlement] = true
	case BuildingCity:
		out[SlotCity] = true
	}
	return out
}

// checkWinner ends the game when the turn player reaches the target.
func (g *Game) checkWinner() {
	if g.winner < 0 && g.players[g.turn].VictoryPoints() >= g.rules.VictoryTarget {
		g.winner = g.turn
	}
}

func lookupCorner(c hexgrid.Corner) (hexgrid.CornerID, error) {
	id, ok := hexgrid.LookupCorner(c)
	if !ok {
		return -1, ErrBadCoordinate
	}
	return id, nil
}

func lookupEdge(e hexgrid.Edge) (hexgrid.EdgeID, error) {
	id, ok := hexgrid.LookupEdge(e)
	if !ok {
		return -1, ErrBadCoordinate
	}
	return id, nil
}
