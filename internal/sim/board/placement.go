package board

import (
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
)

// CanPlaceRoad: the edge is free and either touches a structure of color or
// continues a road of color through a corner no opponent occupies.
func (b *Board) CanPlaceRoad(e hexgrid.EdgeID, color model.Color) bool {
	if _, taken := b.RoadAt(e); taken {
		return false
	}
	for _, c := range e.Ends() {
		if b.structureIs(c, color) {
			return true
		}
	}
	for _, n := range e.Neighbors() {
		if !b.roadIs(n, color) {
			continue
		}
		shared, _ := e.Shared(n)
		if !b.structureIsNot(shared, color) {
			return true
		}
	}
	return false
}

// CanPlaceSetupRoad: the edge is free and touches the settlement just placed.
func (b *Board) CanPlaceSetupRoad(e hexgrid.EdgeID, settlement hexgrid.CornerID) bool {
	if _, taken := b.RoadAt(e); taken {
		return false
	}
	ends := e.Ends()
	return ends[0] == settlement || ends[1] == settlement
}

func (b *Board) distanceRuleOK(c hexgrid.CornerID) bool {
	if !b.structures[c].Empty() {
		return false
	}
	for _, n := range c.Neighbors() {
		if !b.structures[n].Empty() {
			return false
		}
	}
	return true
}

func (b *Board) CanPlaceSettlement(c hexgrid.CornerID, color model.Color) bool {
	if !b.distanceRuleOK(c) {
		return false
	}
	for _, e := range c.Edges() {
		if b.roadIs(e, color) {
			return true
		}
	}
	return false
}

// CanPlaceSetupSettlement applies the distance rule only.
func (b *Board) CanPlaceSetupSettlement(c hexgrid.CornerID) bool {
	return b.distanceRuleOK(c)
}

// CanPlaceCity: cities only upgrade a settlement of the same color.
func (b *Board) CanPlaceCity(c hexgrid.CornerID, color model.Color) bool {
	s := b.structures[c]
	return s.Kind == model.Settlement && s.Color == color
}

func (b *Board) CanPlaceAnyRoad(color model.Color) bool {
	for e := range hexgrid.Edges {
		if b.CanPlaceRoad(hexgrid.EdgeID(e), color) {
			return true
		}
	}
	return false
}

func (b *Board) CanPlaceAnySettlement(color model.Color) bool {
	for c := range hexgrid.Corners {
		if b.CanPlaceSettlement(hexgrid.CornerID(c), color) {
			return true
		}
	}
	return false
}

func (b *Board) CanPlaceAnySetupSettlement() bool {
	for c := range hexgrid.Corners {
		if b.CanPlaceSetupSettlement(hexgrid.CornerID(c)) {
			return true
		}
	}
	return false
}

func (b *Board) CanPlaceAnyCity(color model.Color) bool {
	for c := range hexgrid.Corners {
		if b.CanPlaceCity(hexgrid.CornerID(c), color) {
			return true
		}
	}
	return false
}

// PlaceRoad sets the road and credits the road cost to the bank. The caller
// has already debited the player's hand.
func (b *Board) PlaceRoad(e hexgrid.EdgeID, color model.Color) {
	b.PlaceFreeRoad(e, color)
	b.bank.Add(b.rules.Costs.Road)
}

// PlaceFreeRoad sets the road without touching the bank, for setup and the
// road building card.
func (b *Board) PlaceFreeRoad(e hexgrid.EdgeID, color model.Color) {
	if _, taken := b.RoadAt(e); taken {
		panic("board: road already placed at " + e.Coord().String())
	}
	b.roads[e] = color
}

func (b *Board) PlaceSettlement(c hexgrid.CornerID, color model.Color) {
	b.PlaceFreeSettlement(c, color)
	b.bank.Add(b.rules.Costs.Settlement)
}

func (b *Board) PlaceFreeSettlement(c hexgrid.CornerID, color model.Color) {
	if !b.structures[c].Empty() {
		panic("board: corner already occupied at " + c.Coord().String())
	}
	b.structures[c] = model.Structure{Kind: model.Settlement, Color: color}
}

func (b *Board) PlaceCity(c hexgrid.CornerID) {
	s := b.structures[c]
	if s.Kind != model.Settlement {
		panic("board: city needs a settlement at " + c.Coord().String())
	}
	b.structures[c] = model.Structure{Kind: model.City, Color: s.Color}
	b.bank.Add(b.rules.Costs.City)
}
