// Package hexgrid implements the coordinate algebra of the 19-hex board.
//
// Hexes use axial coordinates (r, q) inside a 5x5 window with 2 <= r+q <= 6.
// Corners are numbered clockwise from the top corner; edge e sits half a step
// counterclockwise from corner e, so it joins corners e-1 and e. A physical
// corner has up to three hex-relative coordinates and an edge up to two;
// ReduceCorner and ReduceEdge pick the canonical one.
package hexgrid

import "fmt"

const (
	Size       = 5
	NumHexes   = 19
	NumCorners = 54
	NumEdges   = 72
	NumPorts   = 9
)

type Hex struct {
	R int `json:"r"`
	Q int `json:"q"`
}

type Corner struct {
	R int `json:"r"`
	Q int `json:"q"`
	C int `json:"c"`
}

type Edge struct {
	R int `json:"r"`
	Q int `json:"q"`
	E int `json:"e"`
}

func (h Hex) String() string    { return fmt.Sprintf("(%d,%d)", h.R, h.Q) }
func (c Corner) String() string { return fmt.Sprintf("(%d,%d,c%d)", c.R, c.Q, c.C) }
func (e Edge) String() string   { return fmt.Sprintf("(%d,%d,e%d)", e.R, e.Q, e.E) }

func (c Corner) Hex() Hex { return Hex{R: c.R, Q: c.Q} }
func (e Edge) Hex() Hex   { return Hex{R: e.R, Q: e.Q} }

// Hexes lists every board hex in scan order (row-major).
var Hexes = [NumHexes]Hex{
	{0, 2}, {0, 3}, {0, 4},
	{1, 1}, {1, 2}, {1, 3}, {1, 4},
	{2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4},
	{3, 0}, {3, 1}, {3, 2}, {3, 3},
	{4, 0}, {4, 1}, {4, 2},
}

// PortEdges are the fixed coastal edges that carry a port.
var PortEdges = [NumPorts]Edge{
	{0, 3, 0}, {0, 4, 1}, {1, 4, 2},
	{3, 3, 2}, {4, 2, 3}, {4, 1, 4},
	{3, 0, 4}, {2, 0, 5}, {1, 1, 0},
}

// dirs[i] is the neighbor across edge i.
var dirs = [6][2]int{
	{-1, 0},
	{-1, 1},
	{0, 1},
	{1, 0},
	{1, -1},
	{0, -1},
}

func OnBoard(r, q int) bool {
	return r >= 0 && q >= 0 && r < Size && q < Size && r+q >= 2 && r+q <= 6
}

func (h Hex) OnBoard() bool { return OnBoard(h.R, h.Q) }

// Step returns the hex across edge dir.
func (h Hex) Step(dir int) Hex {
	d := dirs[mod6(dir)]
	return Hex{R: h.R + d[0], Q: h.Q + d[1]}
}

// Distance is the axial hex distance.
func Distance(a, b Hex) int {
	dr := a.R - b.R
	dq := a.Q - b.Q
	return (abs(dr) + abs(dq) + abs(dr+dq)) / 2
}

func mod6(i int) int { return ((i % 6) + 6) % 6 }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func checkIndex(kind string, i int) {
	if i < 0 || i >= 6 {
		panic(fmt.Sprintf("hexgrid: invalid %s index %d", kind, i))
	}
}

// ReduceCorner walks to the earliest hex (in scan order) that contains the
// corner and returns that coordinate.
func ReduceCorner(c Corner) Corner {
	checkIndex("corner", c.C)
	r, q := c.R, c.Q
	switch c.C {
	case 0:
		if OnBoard(r-1, q) {
			return Corner{r - 1, q, 2}
		}
		if OnBoard(r-1, q+1) {
			return Corner{r - 1, q + 1, 4}
		}
	case 1:
		if OnBoard(r-1, q+1) {
			return Corner{r - 1, q + 1, 3}
		}
	case 4:
		if OnBoard(r, q-1) {
			return Corner{r, q - 1, 2}
		}
	case 5:
		if OnBoard(r-1, q) {
			return Corner{r - 1, q, 3}
		}
		if OnBoard(r, q-1) {
			return Corner{r, q - 1, 1}
		}
	}
	return c
}

// ReduceEdge is the edge analogue of ReduceCorner.
func ReduceEdge(e Edge) Edge {
	checkIndex("edge", e.E)
	r, q := e.R, e.Q
	switch e.E {
	case 0:
		if OnBoard(r-1, q) {
			return Edge{r - 1, q, 3}
		}
	case 1:
		if OnBoard(r-1, q+1) {
			return Edge{r - 1, q + 1, 4}
		}
	case 5:
		if OnBoard(r, q-1) {
			return Edge{r, q - 1, 2}
		}
	}
	return e
}

func (c Corner) Canonical() bool { return ReduceCorner(c) == c }
func (e Edge) Canonical() bool   { return ReduceEdge(e) == e }

// DupCorners returns every raw coordinate of the physical corner, starting
// with c itself.
func DupCorners(c Corner) []Corner {
	checkIndex("corner", c.C)
	h := c.Hex()
	dups := []Corner{c}
	if n := h.Step(c.C); n.OnBoard() {
		dups = append(dups, Corner{n.R, n.Q, mod6(c.C + 2)})
	}
	if n := h.Step(c.C + 1); n.OnBoard() {
		dups = append(dups, Corner{n.R, n.Q, mod6(c.C + 4)})
	}
	return dups
}

// DupEdges returns every raw coordinate of the physical edge, starting with e.
func DupEdges(e Edge) []Edge {
	checkIndex("edge", e.E)
	dups := []Edge{e}
	if n := e.Hex().Step(e.E); n.OnBoard() {
		dups = append(dups, Edge{n.R, n.Q, mod6(e.E + 3)})
	}
	return dups
}

// HexesTouching returns the on-board hexes that share the corner.
func HexesTouching(c Corner) []Hex {
	checkIndex("corner", c.C)
	h := c.Hex()
	out := []Hex{h}
	if n := h.Step(c.C); n.OnBoard() {
		out = append(out, n)
	}
	if n := h.Step(c.C + 1); n.OnBoard() {
		out = append(out, n)
	}
	return out
}

// CornerCornerNeighbors returns the corners one edge away.
func CornerCornerNeighbors(c Corner) []Corner {
	checkIndex("corner", c.C)
	h := c.Hex()
	out := []Corner{{c.R, c.Q, mod6(c.C + 5)}, {c.R, c.Q, mod6(c.C + 1)}}
	if n := h.Step(c.C); n.OnBoard() {
		out = append(out, Corner{n.R, n.Q, mod6(c.C + 1)})
	} else if n := h.Step(c.C + 1); n.OnBoard() {
		out = append(out, Corner{n.R, n.Q, mod6(c.C + 5)})
	}
	return out
}

// EdgeEdgeNeighbors returns the edges sharing an endpoint with e.
func EdgeEdgeNeighbors(e Edge) []Edge {
	checkIndex("edge", e.E)
	h := e.Hex()
	out := []Edge{{e.R, e.Q, mod6(e.E + 5)}, {e.R, e.Q, mod6(e.E + 1)}}
	if n := h.Step(e.E); n.OnBoard() {
		return append(out, Edge{n.R, n.Q, mod6(e.E + 2)}, Edge{n.R, n.Q, mod6(e.E + 4)})
	}
	if n := h.Step(e.E + 5); n.OnBoard() {
		out = append(out, Edge{n.R, n.Q, mod6(e.E + 1)})
	}
	if n := h.Step(e.E + 1); n.OnBoard() {
		out = append(out, Edge{n.R, n.Q, mod6(e.E + 5)})
	}
	return out
}

// CornerEdgeNeighbors returns the edges meeting at the corner.
func CornerEdgeNeighbors(c Corner) []Edge {
	checkIndex("corner", c.C)
	h := c.Hex()
	out := []Edge{{c.R, c.Q, c.C}, {c.R, c.Q, mod6(c.C + 1)}}
	if n := h.Step(c.C); n.OnBoard() {
		out = append(out, Edge{n.R, n.Q, mod6(c.C + 2)})
	} else if n := h.Step(c.C + 1); n.OnBoard() {
		out = append(out, Edge{n.R, n.Q, mod6(c.C + 5)})
	}
	return out
}

// EdgeCornerNeighbors returns the two endpoints of the edge.
func EdgeCornerNeighbors(e Edge) [2]Corner {
	checkIndex("edge", e.E)
	return [2]Corner{{e.R, e.Q, e.E}, {e.R, e.Q, mod6(e.E + 5)}}
}

// IntersectingCorner returns the endpoint shared by two edges.
func IntersectingCorner(e1, e2 Edge) (Corner, bool) {
	for _, c1 := range EdgeCornerNeighbors(e1) {
		for _, d := range DupCorners(c1) {
			for _, c2 := range EdgeCornerNeighbors(e2) {
				if d == c2 {
					return ReduceCorner(c1), true
				}
			}
		}
	}
	return Corner{}, false
}
