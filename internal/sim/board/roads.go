package board

import (
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
)

// LongestRoad is the length of the longest trail of color's roads. A trail
// never reuses an edge and cannot continue through a corner held by another
// color.
func (b *Board) LongestRoad(color model.Color) int {
	var used [hexgrid.NumEdges]bool
	best := 0

	var walk func(at hexgrid.CornerID, length int)
	walk = func(at hexgrid.CornerID, length int) {
		if length > best {
			best = length
		}
		if length > 0 && b.structureIsNot(at, color) {
			return
		}
		for _, e := range at.Edges() {
			if used[e] || !b.roadIs(e, color) {
				continue
			}
			ends := e.Ends()
			next := ends[0]
			if next == at {
				next = ends[1]
			}
			used[e] = true
			walk(next, length+1)
			used[e] = false
		}
	}

	var started [hexgrid.NumCorners]bool
	for e := range hexgrid.Edges {
		if !b.roadIs(hexgrid.EdgeID(e), color) {
			continue
		}
		for _, c := range hexgrid.EdgeID(e).Ends() {
			if started[c] {
				continue
			}
			started[c] = true
			walk(c, 0)
		}
	}
	return best
}
