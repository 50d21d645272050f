// Package player tracks one participant: hand, development cards, knights,
// bonus flags, points and build pools.
package player

import (
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
)

// State is the serializable part of a player.
type State struct {
	Color model.Color `json:"color"`
	Hand  model.Hand  `json:"hand"`

	// Dev cards are playable; NewDev were bought this turn and become
	// playable when the turn passes.
	Dev    model.DevHand `json:"dev"`
	NewDev model.DevHand `json:"new_dev"`

	Knights     int  `json:"knights"`
	RoadLength  int  `json:"road_length"`
	LargestArmy bool `json:"largest_army"`
	LongestRoad bool `json:"longest_road"`

	// Points counts settlements and cities only.
	Points int `json:"points"`

	RoadsLeft       int `json:"roads_left"`
	SettlementsLeft int `json:"settlements_left"`
	CitiesLeft      int `json:"cities_left"`
}

type Player struct {
	State
	rules *catalogs.Rules
}

func New(color model.Color, rules *catalogs.Rules) *Player {
	return &Player{
		State: State{
			Color:           color,
			RoadsLeft:       rules.Pools.Roads,
			SettlementsLeft: rules.Pools.Settlements,
			CitiesLeft:      rules.Pools.Cities,
		},
		rules: rules,
	}
}

func FromState(rules *catalogs.Rules, s State) *Player {
	return &Player{State: s, rules: rules}
}

func (p *Player) CanAfford(cost model.Hand) bool { return p.Hand.Covers(cost) }

func (p *Player) CanBuildRoad() bool {
	return p.RoadsLeft > 0 && p.CanAfford(p.rules.Costs.Road)
}

func (p *Player) CanBuildSettlement() bool {
	return p.SettlementsLeft > 0 && p.CanAfford(p.rules.Costs.Settlement)
}

func (p *Player) CanBuildCity() bool {
	return p.CitiesLeft > 0 && p.CanAfford(p.rules.Costs.City)
}

// CanBuyDevCard checks the hand only; the deck is the board's concern.
func (p *Player) CanBuyDevCard() bool { return p.CanAfford(p.rules.Costs.DevCard) }

func (p *Player) BuildRoad() {
	p.Hand.Sub(p.rules.Costs.Road)
	p.FreeRoad()
}

func (p *Player) FreeRoad() {
	if p.RoadsLeft <= 0 {
		panic("player: no roads left")
	}
	p.RoadsLeft--
}

func (p *Player) BuildSettlement() {
	p.Hand.Sub(p.rules.Costs.Settlement)
	p.FreeSettlement()
}

func (p *Player) FreeSettlement() {
	if p.SettlementsLeft <= 0 {
		panic("player: no settlements left")
	}
	p.SettlementsLeft--
	p.Points++
}

// BuildCity upgrades a settlement, returning its piece to the pool.
func (p *Player) BuildCity() {
	if p.CitiesLeft <= 0 {
		panic("player: no cities left")
	}
	p.Hand.Sub(p.rules.Costs.City)
	p.CitiesLeft--
	p.SettlementsLeft++
	p.Points++
}

func (p *Player) BuyDevCard(card model.DevCard) {
	p.Hand.Sub(p.rules.Costs.DevCard)
	p.NewDev[card]++
}

// CanPlayDevCard: victory point cards are never played.
func (p *Player) CanPlayDevCard(card model.DevCard) bool {
	return card.Valid() && card != model.VictoryPoint && p.Dev[card] > 0
}

func (p *Player) PlayDevCard(card model.DevCard) {
	if !p.CanPlayDevCard(card) {
		panic("player: cannot play " + card.String())
	}
	p.Dev[card]--
	if card == model.Knight {
		p.Knights++
	}
}

// CycleDevCards makes cards bought this turn playable.
func (p *Player) CycleDevCards() {
	p.Dev.Add(p.NewDev)
	p.NewDev = model.DevHand{}
}

// StealFrom moves one random card from victim to p. It reports false when
// the victim's hand is empty.
func (p *Player) StealFrom(victim *Player, r rng.Rand) (model.Resource, bool) {
	res, ok := victim.Hand.TakeRandom(r)
	if ok {
		p.Hand[res]++
	}
	return res, ok
}

// DiscardCount is how many cards p must discard after a seven.
func (p *Player) DiscardCount() int {
	n := p.Hand.Size()
	if n > p.rules.DiscardLimit {
		return n / 2
	}
	return 0
}

func (p *Player) VictoryPoints() int {
	return p.PublicVictoryPoints() + p.Dev[model.VictoryPoint] + p.NewDev[model.VictoryPoint]
}

// PublicVictoryPoints excludes hidden victory point cards.
func (p *Player) PublicVictoryPoints() int {
	vp := p.Points
	if p.LargestArmy {
		vp += 2
	}
	if p.LongestRoad {
		vp += 2
	}
	return vp
}

func (p *Player) DevCardCount() int { return p.Dev.Size() + p.NewDev.Size() }
