// Package board owns the authoritative board state: terrain, ports, the
// corner and edge arenas, the robber and both banks.
//
// Queries never mutate. Mutators assume the matching query already passed and
// panic when an arena invariant would break.
package board

import (
	"errors"
	"fmt"

	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
)

var ErrGenerationExhausted = errors.New("board generation exhausted attempts")

// Tile is the terrain of one hex. The desert carries no number and never
// produces.
type Tile struct {
	Desert   bool           `json:"desert,omitempty"`
	Resource model.Resource `json:"resource"`
	Number   int            `json:"number"`
}

const noRoad = model.Color(-1)

type Board struct {
	rules      *catalogs.Rules
	numPlayers int

	tiles  [hexgrid.NumHexes]Tile
	ports  [hexgrid.NumPorts]model.Port
	robber hexgrid.Hex

	structures [hexgrid.NumCorners]model.Structure
	roads      [hexgrid.NumEdges]model.Color

	bank    model.Hand
	devBank model.DevHand
}

// New generates a board, regenerating from scratch while two 6/8 tokens end
// up adjacent. It gives up after maxAttempts tries.
func New(numPlayers int, rules *catalogs.Rules, r rng.Rand, maxAttempts int) (*Board, error) {
	if numPlayers < 2 || numPlayers > model.MaxPlayers {
		return nil, fmt.Errorf("board: invalid player count %d", numPlayers)
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := empty(numPlayers, rules)
		if b.generate(r) {
			return b, nil
		}
	}
	return nil, ErrGenerationExhausted
}

func empty(numPlayers int, rules *catalogs.Rules) *Board {
	b := &Board{
		rules:      rules,
		numPlayers: numPlayers,
		bank:       rules.Bank,
		devBank:    rules.DevDeck,
	}
	for i := range b.roads {
		b.roads[i] = noRoad
	}
	return b
}

func (b *Board) generate(r rng.Rand) bool {
	b.robber = hexgrid.Hexes[r.Intn(hexgrid.NumHexes)]

	terrain := make([]model.Resource, 0, hexgrid.NumHexes-1)
	for _, res := range model.Resources {
		for i := 0; i < b.rules.Terrain[res]; i++ {
			terrain = append(terrain, res)
		}
	}
	r.Shuffle(len(terrain), func(i, j int) { terrain[i], terrain[j] = terrain[j], terrain[i] })

	numbers := append([]int(nil), b.rules.Numbers...)
	r.Shuffle(len(numbers), func(i, j int) { numbers[i], numbers[j] = numbers[j], numbers[i] })

	ports := make([]model.Port, 0, hexgrid.NumPorts)
	for i := 0; i < b.rules.Ports.Generic; i++ {
		ports = append(ports, model.Port{Generic: true})
	}
	for _, res := range model.Resources {
		for i := 0; i < b.rules.Ports.Special[res]; i++ {
			ports = append(ports, model.Port{Resource: res})
		}
	}
	r.Shuffle(len(ports), func(i, j int) { ports[i], ports[j] = ports[j], ports[i] })
	copy(b.ports[:], ports)

	next := 0
	for hi, h := range hexgrid.Hexes {
		if h == b.robber {
			b.tiles[hi] = Tile{Desert: true}
			continue
		}
		n := numbers[next]
		if hot(n) {
			// Only earlier hexes in scan order are filled in yet.
			for _, dir := range [...]int{5, 0, 1} {
				nb := h.Step(dir)
				ni, ok := hexgrid.HexIndex(nb)
				if ok && !b.tiles[ni].Desert && hot(b.tiles[ni].Number) {
					return false
				}
			}
		}
		b.tiles[hi] = Tile{Resource: terrain[next], Number: n}
		next++
	}
	return true
}

func hot(n int) bool { return n == 6 || n == 8 }

func (b *Board) Rules() *catalogs.Rules { return b.rules }
func (b *Board) NumPlayers() int        { return b.numPlayers }
func (b *Board) Robber() hexgrid.Hex    { return b.robber }
func (b *Board) Bank() model.Hand       { return b.bank }
func (b *Board) DevBank() model.DevHand { return b.devBank }

func (b *Board) Tile(h hexgrid.Hex) (Tile, bool) {
	hi, ok := hexgrid.HexIndex(h)
	if !ok {
		return Tile{}, false
	}
	return b.tiles[hi], true
}

func (b *Board) Port(i int) model.Port { return b.ports[i] }

func (b *Board) StructureAt(c hexgrid.CornerID) model.Structure { return b.structures[c] }

func (b *Board) RoadAt(e hexgrid.EdgeID) (model.Color, bool) {
	col := b.roads[e]
	return col, col != noRoad
}

func (b *Board) roadIs(e hexgrid.EdgeID, color model.Color) bool { return b.roads[e] == color }

func (b *Board) structureIs(c hexgrid.CornerID, color model.Color) bool {
	s := b.structures[c]
	return !s.Empty() && s.Color == color
}

func (b *Board) structureIsNot(c hexgrid.CornerID, color model.Color) bool {
	s := b.structures[c]
	return !s.Empty() && s.Color != color
}
