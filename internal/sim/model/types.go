// Package model holds the closed enums and fixed-size card hands shared by
// the board, players and turn engine.
package model

import "fmt"

type Resource int

const (
	Wood Resource = iota
	Brick
	Wheat
	Sheep
	Ore
)

const NumResources = 5

var Resources = [NumResources]Resource{Wood, Brick, Wheat, Sheep, Ore}

var resourceNames = [NumResources]string{"WOOD", "BRICK", "WHEAT", "SHEEP", "ORE"}

func (r Resource) Valid() bool { return r >= 0 && r < NumResources }

func (r Resource) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Resource(%d)", int(r))
	}
	return resourceNames[r]
}

func ParseResource(s string) (Resource, error) {
	for i, n := range resourceNames {
		if n == s {
			return Resource(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

func (r Resource) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid resource %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Resource) UnmarshalText(b []byte) error {
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

type DevCard int

const (
	Knight DevCard = iota
	RoadBuilding
	YearOfPlenty
	Monopoly
	VictoryPoint
)

const NumDevCards = 5

var DevCards = [NumDevCards]DevCard{Knight, RoadBuilding, YearOfPlenty, Monopoly, VictoryPoint}

var devCardNames = [NumDevCards]string{"KNIGHT", "ROAD_BUILDING", "YEAR_OF_PLENTY", "MONOPOLY", "VICTORY_POINT"}

func (d DevCard) Valid() bool { return d >= 0 && d < NumDevCards }

func (d DevCard) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DevCard(%d)", int(d))
	}
	return devCardNames[d]
}

func ParseDevCard(s string) (DevCard, error) {
	for i, n := range devCardNames {
		if n == s {
			return DevCard(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dev card %q", s)
}

func (d DevCard) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid dev card %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *DevCard) UnmarshalText(b []byte) error {
	v, err := ParseDevCard(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Color identifies a seat. Seat i plays Colors[i].
type Color int

const (
	Red Color = iota
	Blue
	Orange
	White
)

const MaxPlayers = 4

var Colors = [MaxPlayers]Color{Red, Blue, Orange, White}

var colorNames = [MaxPlayers]string{"RED", "BLUE", "ORANGE", "WHITE"}

func (c Color) Valid() bool { return c >= 0 && c < MaxPlayers }

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

func ParseColor(s string) (Color, error) {
	for i, n := range colorNames {
		if n == s {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

type StructureKind int

const (
	Settlement StructureKind = iota + 1
	City
)

func (k StructureKind) String() string {
	switch k {
	case Settlement:
		return "SETTLEMENT"
	case City:
		return "CITY"
	default:
		return "NONE"
	}
}

// Structure is a settlement or city owned by a color. The zero value is an
// empty corner.
type Structure struct {
	Kind  StructureKind `json:"kind"`
	Color Color         `json:"color"`
}

func (s Structure) Empty() bool { return s.Kind == 0 }

// Port is either a generic 3:1 harbor (Generic) or a 2:1 harbor for Resource.
type Port struct {
	Generic  bool     `json:"generic"`
	Resource Resource `json:"resource"`
}

func (p Port) String() string {
	if p.Generic {
		return "3:1"
	}
	return "2:1 " + p.Resource.String()
}
