package board

import (
	"fmt"

	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
)

// State is the complete board, arena-indexed. Roads hold color+1, 0 = empty;
// structures hold kind*8 + color, 0 = empty.
type State struct {
	Tiles      [hexgrid.NumHexes]Tile
	Ports      [hexgrid.NumPorts]model.Port
	Robber     hexgrid.Hex
	Structures [hexgrid.NumCorners]uint16
	Roads      [hexgrid.NumEdges]uint16
	Bank       model.Hand
	DevBank    model.DevHand
}

func (b *Board) ExportState() State {
	s := State{
		Tiles:   b.tiles,
		Ports:   b.ports,
		Robber:  b.robber,
		Bank:    b.bank,
		DevBank: b.devBank,
	}
	for i, st := range b.structures {
		s.Structures[i] = PackStructure(st)
	}
	for i, col := range b.roads {
		s.Roads[i] = uint16(col + 1)
	}
	return s
}

// FromState rebuilds a board. It validates owners against numPlayers, the
// robber is on the board and exactly one tile is the desert.
func FromState(numPlayers int, rules *catalogs.Rules, s State) (*Board, error) {
	if numPlayers < 2 || numPlayers > model.MaxPlayers {
		return nil, fmt.Errorf("board: invalid player count %d", numPlayers)
	}
	if !s.Robber.OnBoard() {
		return nil, fmt.Errorf("board: robber off board at %v", s.Robber)
	}
	b := empty(numPlayers, rules)
	b.tiles = s.Tiles
	b.ports = s.Ports
	b.robber = s.Robber
	b.bank = s.Bank
	b.devBank = s.DevBank

	deserts := 0
	for _, t := range b.tiles {
		if t.Desert {
			deserts++
		}
	}
	if deserts != 1 {
		return nil, fmt.Errorf("board: want 1 desert, got %d", deserts)
	}
	for i, v := range s.Structures {
		st, err := UnpackStructure(v)
		if err != nil {
			return nil, err
		}
		if !st.Empty() && int(st.Color) >= numPlayers {
			return nil, fmt.Errorf("board: corner %d owned by absent color %v", i, st.Color)
		}
		b.structures[i] = st
	}
	for i, v := range s.Roads {
		col := model.Color(v) - 1
		if v != 0 && int(col) >= numPlayers {
			return nil, fmt.Errorf("board: edge %d owned by absent color %d", i, col)
		}
		b.roads[i] = col
	}
	return b, nil
}

func PackStructure(s model.Structure) uint16 {
	if s.Empty() {
		return 0
	}
	return uint16(s.Kind)*8 + uint16(s.Color)
}

func UnpackStructure(v uint16) (model.Structure, error) {
	if v == 0 {
		return model.Structure{}, nil
	}
	kind := model.StructureKind(v / 8)
	col := model.Color(v % 8)
	if (kind != model.Settlement && kind != model.City) || !col.Valid() {
		return model.Structure{}, fmt.Errorf("board: bad structure code %d", v)
	}
	return model.Structure{Kind: kind, Color: col}, nil
}
