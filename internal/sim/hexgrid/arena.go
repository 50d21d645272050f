package hexgrid

// CornerID and EdgeID index the canonical arenas. Every raw coordinate of a
// physical corner or edge resolves to the same id, so state keyed by id has a
// single source of truth.
type CornerID int

type EdgeID int

// Corners and Edges hold the canonical coordinate of each arena slot, in
// scan order.
var (
	Corners [NumCorners]Corner
	Edges   [NumEdges]Edge
)

var (
	cornerIDs [Size][Size][6]CornerID
	edgeIDs   [Size][Size][6]EdgeID
	hexIndex  [Size][Size]int

	cornerCorners [NumCorners][]CornerID
	cornerEdges   [NumCorners][]EdgeID
	cornerHexes   [NumCorners][]Hex
	edgeCorners   [NumEdges][2]CornerID
	edgeEdges     [NumEdges][]EdgeID
	hexCorners    [NumHexes][6]CornerID
	portCorners   [NumPorts][2]CornerID
)

func init() {
	for r := 0; r < Size; r++ {
		for q := 0; q < Size; q++ {
			hexIndex[r][q] = -1
			for i := 0; i < 6; i++ {
				cornerIDs[r][q][i] = -1
				edgeIDs[r][q][i] = -1
			}
		}
	}

	nc, ne := 0, 0
	for hi, h := range Hexes {
		hexIndex[h.R][h.Q] = hi
		for i := 0; i < 6; i++ {
			if c := (Corner{h.R, h.Q, i}); c.Canonical() {
				Corners[nc] = c
				nc++
			}
			if e := (Edge{h.R, h.Q, i}); e.Canonical() {
				Edges[ne] = e
				ne++
			}
		}
	}
	if nc != NumCorners || ne != NumEdges {
		panic("hexgrid: arena size mismatch")
	}

	for id, c := range Corners {
		for _, d := range DupCorners(c) {
			cornerIDs[d.R][d.Q][d.C] = CornerID(id)
		}
	}
	for id, e := range Edges {
		for _, d := range DupEdges(e) {
			edgeIDs[d.R][d.Q][d.E] = EdgeID(id)
		}
	}

	for id, c := range Corners {
		for _, n := range CornerCornerNeighbors(c) {
			cornerCorners[id] = append(cornerCorners[id], cornerIDs[n.R][n.Q][n.C])
		}
		for _, n := range CornerEdgeNeighbors(c) {
			cornerEdges[id] = append(cornerEdges[id], edgeIDs[n.R][n.Q][n.E])
		}
		cornerHexes[id] = HexesTouching(c)
	}
	for id, e := range Edges {
		ends := EdgeCornerNeighbors(e)
		edgeCorners[id] = [2]CornerID{cornerIDs[ends[0].R][ends[0].Q][ends[0].C], cornerIDs[ends[1].R][ends[1].Q][ends[1].C]}
		for _, n := range EdgeEdgeNeighbors(e) {
			edgeEdges[id] = append(edgeEdges[id], edgeIDs[n.R][n.Q][n.E])
		}
	}
	for hi, h := range Hexes {
		for i := 0; i < 6; i++ {
			hexCorners[hi][i] = cornerIDs[h.R][h.Q][i]
		}
	}
	for pi, pe := range PortEdges {
		ends := EdgeCornerNeighbors(pe)
		portCorners[pi] = [2]CornerID{cornerIDs[ends[0].R][ends[0].Q][ends[0].C], cornerIDs[ends[1].R][ends[1].Q][ends[1].C]}
	}
}

// LookupCorner resolves any raw coordinate to its arena id. It reports false
// for off-board hexes and out-of-range corner indexes.
func LookupCorner(c Corner) (CornerID, bool) {
	if !OnBoard(c.R, c.Q) || c.C < 0 || c.C >= 6 {
		return -1, false
	}
	return cornerIDs[c.R][c.Q][c.C], true
}

func LookupEdge(e Edge) (EdgeID, bool) {
	if !OnBoard(e.R, e.Q) || e.E < 0 || e.E >= 6 {
		return -1, false
	}
	return edgeIDs[e.R][e.Q][e.E], true
}

// HexIndex returns the scan-order position of h.
func HexIndex(h Hex) (int, bool) {
	if !h.OnBoard() {
		return -1, false
	}
	return hexIndex[h.R][h.Q], true
}

func (id CornerID) Coord() Corner { return Corners[id] }
func (id EdgeID) Coord() Edge     { return Edges[id] }

// Neighbors returns the corners one edge away.
func (id CornerID) Neighbors() []CornerID { return cornerCorners[id] }

// Edges returns the edges meeting at the corner.
func (id CornerID) Edges() []EdgeID { return cornerEdges[id] }

// Hexes returns the hexes sharing the corner.
func (id CornerID) Hexes() []Hex { return cornerHexes[id] }

// Ends returns the two endpoints of the edge.
func (id EdgeID) Ends() [2]CornerID { return edgeCorners[id] }

// Neighbors returns the edges sharing an endpoint.
func (id EdgeID) Neighbors() []EdgeID { return edgeEdges[id] }

// Shared returns the endpoint two edges have in common.
func (id EdgeID) Shared(other EdgeID) (CornerID, bool) {
	a := edgeCorners[id]
	b := edgeCorners[other]
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return x, true
			}
		}
	}
	return -1, false
}

// HexCorners returns the six corners of an on-board hex.
func HexCorners(h Hex) [6]CornerID {
	hi, ok := HexIndex(h)
	if !ok {
		panic("hexgrid: hex off board: " + h.String())
	}
	return hexCorners[hi]
}

// PortCorners returns the two corners that can use port i.
func PortCorners(i int) [2]CornerID { return portCorners[i] }
