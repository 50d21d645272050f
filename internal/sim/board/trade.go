package board

import (
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
)

// DefaultTradeRate applies when a color owns no port.
const DefaultTradeRate = 4

// TradeRate is the number of res cards color must give the bank for one card:
// 2 with a matching 2:1 port, 3 with any generic port, 4 otherwise.
func (b *Board) TradeRate(color model.Color, res model.Resource) int {
	rate := DefaultTradeRate
	for i := 0; i < hexgrid.NumPorts; i++ {
		if !b.ownsPort(i, color) {
			continue
		}
		p := b.ports[i]
		switch {
		case !p.Generic && p.Resource == res:
			return 2
		case p.Generic:
			rate = 3
		}
	}
	return rate
}

func (b *Board) TradeRates(color model.Color) [model.NumResources]int {
	var out [model.NumResources]int
	for _, res := range model.Resources {
		out[res] = b.TradeRate(color, res)
	}
	return out
}

func (b *Board) ownsPort(i int, color model.Color) bool {
	for _, c := range hexgrid.PortCorners(i) {
		if b.structureIs(c, color) {
			return true
		}
	}
	return false
}
