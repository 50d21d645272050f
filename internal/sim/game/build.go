package game

import "hexsettlers/internal/sim/hexgrid"

// BeginBuild enters a build mode from the menu.
func (g *Game) BeginBuild(seat int, kind BuildKind) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if err := g.idle(); err != nil {
		return err
	}
	if g.roll == 0 {
		return ErrNotRolled
	}
	p := g.players[seat]
	col := p.Color
	switch kind {
	case KindRoad:
		if err := g.buildable(p.RoadsLeft, p.CanAfford(g.rules.Costs.Road), g.board.CanPlaceAnyRoad(col)); err != nil {
			return err
		}
		g.action = BuildingRoad
	case KindSettlement:
		if err := g.buildable(p.SettlementsLeft, p.CanAfford(g.rules.Costs.Settlement), g.board.CanPlaceAnySettlement(col)); err != nil {
			return err
		}
		g.action = BuildingSettlement
	case KindCity:
		if err := g.buildable(p.CitiesLeft, p.CanAfford(g.rules.Costs.City), g.board.CanPlaceAnyCity(col)); err != nil {
			return err
		}
		g.action = BuildingCity
	default:
		return ErrWrongPhase
	}
	return nil
}

func (g *Game) buildable(left int, affordable, placeable bool) error {
	switch {
	case left <= 0:
		return ErrNoPieces
	case !affordable:
		return ErrCannotAfford
	case !placeable:
		return ErrIllegalPlacement
	}
	return nil
}

// CancelBuild leaves a build mode without building.
func (g *Game) CancelBuild(seat int) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	switch g.action {
	case BuildingRoad, BuildingSettlement, BuildingCity:
		g.action = Idling
		return nil
	}
	return ErrWrongPhase
}

// BuildRoad places a road. In BuildingRoad it is paid for; under the road
// building card it is free, and the second placement (or no legal spot for
// one) returns to Idling.
func (g *Game) BuildRoad(seat int, e hexgrid.Edge) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if g.action != BuildingRoad && g.action != RoadBuilding {
		return ErrWrongPhase
	}
	id, err := lookupEdge(e)
	if err != nil {
		return err
	}
	p := g.players[seat]
	if !g.board.CanPlaceRoad(id, p.Color) {
		return ErrIllegalPlacement
	}

	if g.action == RoadBuilding {
		if p.RoadsLeft <= 0 {
			return ErrNoPieces
		}
		p.FreeRoad()
		g.board.PlaceFreeRoad(id, p.Color)
		if !g.placedFirst && p.RoadsLeft > 0 && g.board.CanPlaceAnyRoad(p.Color) {
			g.placedFirst = true
		} else {
			g.placedFirst = false
			g.action = Idling
		}
	} else {
		if err := g.buildable(p.RoadsLeft, p.CanAfford(g.rules.Costs.Road), true); err != nil {
			return err
		}
		p.BuildRoad()
		g.board.PlaceRoad(id, p.Color)
		g.action = Idling
	}

	g.updateLongestRoad()
	g.checkWinner()
	return nil
}

func (g *Game) BuildSettlement(seat int, c hexgrid.Corner) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if g.action != BuildingSettlement {
		return ErrWrongPhase
	}
	id, err := lookupCorner(c)
	if err != nil {
		return err
	}
	p := g.players[seat]
	if !g.board.CanPlaceSettlement(id, p.Color) {
		return ErrIllegalPlacement
	}
	if err := g.buildable(p.SettlementsLeft, p.CanAfford(g.rules.Costs.Settlement), true); err != nil {
		return err
	}
	p.BuildSettlement()
	g.board.PlaceSettlement(id, p.Color)
	g.action = Idling

	// A new settlement can cut an opponent's road.
	g.updateLongestRoad()
	g.checkWinner()
	return nil
}

func (g *Game) BuildCity(seat int, c hexgrid.Corner) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if g.action != BuildingCity {
		return ErrWrongPhase
	}
	id, err := lookupCorner(c)
	if err != nil {
		return err
	}
	p := g.players[seat]
	if !g.board.CanPlaceCity(id, p.Color) {
		return ErrIllegalPlacement
	}
	if err := g.buildable(p.CitiesLeft, p.CanAfford(g.rules.Costs.City), true); err != nil {
		return err
	}
	p.BuildCity()
	g.board.PlaceCity(id)
	g.action = Idling
	g.checkWinner()
	return nil
}
