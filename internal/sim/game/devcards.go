package game

import (
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
)

// BuyDevCard draws a random card into the player's unplayable new cards.
func (g *Game) BuyDevCard(seat int, r rng.Rand) (model.DevCard, error) {
	if err := g.authorize(seat); err != nil {
		return 0, err
	}
	if err := g.idle(); err != nil {
		return 0, err
	}
	if g.roll == 0 {
		return 0, ErrNotRolled
	}
	p := g.players[seat]
	if !p.CanBuyDevCard() {
		return 0, ErrCannotAfford
	}
	if !g.board.CanDrawDevCard() {
		return 0, ErrDeckEmpty
	}
	card := g.board.DrawDevCard(r)
	p.BuyDevCard(card)
	g.checkWinner()
	return card, nil
}

// PlayDevCard plays one card, at most once per turn, before or after the
// roll. Year of plenty and monopoly open a selector and are only spent when
// it executes.
func (g *Game) PlayDevCard(seat int, card model.DevCard) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if err := g.idle(); err != nil {
		return err
	}
	if g.playedDev {
		return ErrDevCardPlayed
	}
	p := g.players[seat]
	if !p.CanPlayDevCard(card) {
		return ErrCardUnavailable
	}

	switch card {
	case model.Knight:
		p.PlayDevCard(card)
		g.playedDev = true
		g.updateLargestArmy(seat)
		g.action = MovingRobber
	case model.RoadBuilding:
		p.PlayDevCard(card)
		g.playedDev = true
		g.placedFirst = false
		if p.RoadsLeft > 0 && g.board.CanPlaceAnyRoad(p.Color) {
			g.action = RoadBuilding
		}
	case model.YearOfPlenty:
		g.selector = &Selector{Kind: SelectYearOfPlenty, Seat: seat}
	case model.Monopoly:
		g.selector = &Selector{Kind: SelectMonopoly, Seat: seat}
	}
	g.checkWinner()
	return nil
}
