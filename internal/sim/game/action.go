package game

import "fmt"

// Action is the phase of the current turn.
type Action int

const (
	Idling Action = iota
	Discarding
	MovingRobber
	ChoosingVictim
	BuildingRoad
	BuildingSettlement
	BuildingCity
	RoadBuilding
)

var actionNames = [...]string{
	"IDLING",
	"DISCARDING",
	"MOVING_ROBBER",
	"CHOOSING_VICTIM",
	"BUILDING_ROAD",
	"BUILDING_SETTLEMENT",
	"BUILDING_CITY",
	"ROAD_BUILDING",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Action) UnmarshalText(b []byte) error {
	for i, n := range actionNames {
		if n == string(b) {
			*a = Action(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", b)
}

// Menu slots reported by AvailableActions.
const (
	SlotBuyDevCard = iota
	SlotRoad
	SlotSettlement
	SlotCity
	SlotEndTurn
	NumSlots
)

// BuildKind selects a build mode.
type BuildKind int

const (
	KindRoad BuildKind = iota
	KindSettlement
	KindCity
)

func ParseBuildKind(s string) (BuildKind, error) {
	switch s {
	case "ROAD":
		return KindRoad, nil
	case "SETTLEMENT":
		return KindSettlement, nil
	case "CITY":
		return KindCity, nil
	}
	return 0, fmt.Errorf("unknown build kind %q", s)
}
