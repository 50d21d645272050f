package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
)

// Rules is the static rule catalog of a match: costs, bank seeds, decks and
// thresholds. It is immutable once loaded.
type Rules struct {
	Costs   Costs         `json:"costs"`
	Bank    model.Hand    `json:"bank"`
	DevDeck model.DevHand `json:"dev_deck"`
	Pools   Pools         `json:"pools"`

	VictoryTarget  int `json:"victory_target"`
	DiscardLimit   int `json:"discard_limit"`
	LongestRoadMin int `json:"longest_road_min"`
	LargestArmyMin int `json:"largest_army_min"`

	// Terrain counts the producing tiles per resource; the one remaining hex
	// is the desert.
	Terrain model.Hand `json:"terrain"`
	Numbers []int      `json:"numbers"`
	Ports   PortDeck   `json:"ports"`

	Digest string `json:"-"`
}

type Costs struct {
	Road       model.Hand `json:"road"`
	Settlement model.Hand `json:"settlement"`
	City       model.Hand `json:"city"`
	DevCard    model.Hand `json:"dev_card"`
}

type Pools struct {
	Roads       int `json:"roads"`
	Settlements int `json:"settlements"`
	Cities      int `json:"cities"`
}

// PortDeck lists how many generic 3:1 ports and 2:1 ports per resource are
// shuffled onto the fixed port slots.
type PortDeck struct {
	Generic int        `json:"generic"`
	Special model.Hand `json:"special"`
}

// Defaults returns the standard rules.
func Defaults() *Rules {
	r := &Rules{
		Costs: Costs{
			Road:       model.RoadCost,
			Settlement: model.SettlementCost,
			City:       model.CityCost,
			DevCard:    model.DevCardCost,
		},
		Bank:           model.Hand{19, 19, 19, 19, 19},
		DevDeck:        model.DevHand{14, 2, 2, 2, 5},
		Pools:          Pools{Roads: 15, Settlements: 5, Cities: 4},
		VictoryTarget:  10,
		DiscardLimit:   7,
		LongestRoadMin: 5,
		LargestArmyMin: 3,
		Terrain:        model.Hand{4, 3, 4, 4, 3},
		Numbers:        []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12},
		Ports:          PortDeck{Generic: 4, Special: model.Hand{1, 1, 1, 1, 1}},
	}
	r.Digest = r.digest()
	return r
}

// Load reads rules.json from configDir.
func Load(configDir string) (*Rules, error) {
	path := filepath.Join(configDir, "rules.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Rules
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("rules.json: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rules.json: %w", err)
	}
	r.Digest = r.digest()
	return &r, nil
}

// digest hashes the canonical encoding, so equal rules share a digest no
// matter how the source file was laid out.
func (r *Rules) digest() string {
	raw, _ := json.Marshal(r)
	return sha256Hex(raw)
}

// Validate checks that the decks fit the fixed board and every count is
// usable.
func (r *Rules) Validate() error {
	if !nonNegative(r.Terrain) {
		return fmt.Errorf("negative terrain count")
	}
	if n := r.Terrain.Size(); n != hexgrid.NumHexes-1 {
		return fmt.Errorf("terrain has %d tiles, want %d", n, hexgrid.NumHexes-1)
	}
	if len(r.Numbers) != hexgrid.NumHexes-1 {
		return fmt.Errorf("numbers has %d tokens, want %d", len(r.Numbers), hexgrid.NumHexes-1)
	}
	for _, n := range r.Numbers {
		if n < 2 || n > 12 || n == 7 {
			return fmt.Errorf("invalid number token %d", n)
		}
	}
	if r.Ports.Generic < 0 || !nonNegative(r.Ports.Special) {
		return fmt.Errorf("negative port count")
	}
	if n := r.Ports.Generic + r.Ports.Special.Size(); n != hexgrid.NumPorts {
		return fmt.Errorf("ports has %d entries, want %d", n, hexgrid.NumPorts)
	}
	if !nonNegative(r.Bank) {
		return fmt.Errorf("negative bank count")
	}
	for _, c := range r.DevDeck {
		if c < 0 {
			return fmt.Errorf("negative dev_deck count")
		}
	}
	for name, cost := range map[string]model.Hand{
		"road":       r.Costs.Road,
		"settlement": r.Costs.Settlement,
		"city":       r.Costs.City,
		"dev_card":   r.Costs.DevCard,
	} {
		if !nonNegative(cost) {
			return fmt.Errorf("negative %s cost", name)
		}
	}
	if r.Pools.Roads <= 0 || r.Pools.Settlements <= 0 || r.Pools.Cities < 0 {
		return fmt.Errorf("invalid build pools %+v", r.Pools)
	}
	if r.VictoryTarget <= 0 {
		return fmt.Errorf("victory_target must be positive")
	}
	if r.DiscardLimit <= 0 {
		return fmt.Errorf("discard_limit must be positive")
	}
	if r.LongestRoadMin <= 0 || r.LargestArmyMin <= 0 {
		return fmt.Errorf("longest_road_min and largest_army_min must be positive")
	}
	return nil
}

func nonNegative(h model.Hand) bool {
	for _, c := range h {
		if c < 0 {
			return false
		}
	}
	return true
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
