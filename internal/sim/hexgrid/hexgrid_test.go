package hexgrid

import "testing"

func TestReduce_Idempotent(t *testing.T) {
	for _, h := range Hexes {
		for i := 0; i < 6; i++ {
			c := ReduceCorner(Corner{h.R, h.Q, i})
			if ReduceCorner(c) != c {
				t.Fatalf("corner %v: reduce not idempotent", c)
			}
			e := ReduceEdge(Edge{h.R, h.Q, i})
			if ReduceEdge(e) != e {
				t.Fatalf("edge %v: reduce not idempotent", e)
			}
		}
	}
}

func TestArena_Sizes(t *testing.T) {
	seenC := map[Corner]bool{}
	for _, c := range Corners {
		if seenC[c] {
			t.Fatalf("duplicate canonical corner %v", c)
		}
		if !c.Canonical() {
			t.Fatalf("corner %v not canonical", c)
		}
		seenC[c] = true
	}
	seenE := map[Edge]bool{}
	for _, e := range Edges {
		if seenE[e] {
			t.Fatalf("duplicate canonical edge %v", e)
		}
		if !e.Canonical() {
			t.Fatalf("edge %v not canonical", e)
		}
		seenE[e] = true
	}
	if len(seenC) != NumCorners || len(seenE) != NumEdges {
		t.Fatalf("got %d corners, %d edges", len(seenC), len(seenE))
	}
}

func TestDuplicates_ShareCanonical(t *testing.T) {
	for _, h := range Hexes {
		for i := 0; i < 6; i++ {
			c := Corner{h.R, h.Q, i}
			want := ReduceCorner(c)
			dups := DupCorners(c)
			if len(dups) < 1 || len(dups) > 3 {
				t.Fatalf("corner %v: %d duplicates", c, len(dups))
			}
			for _, d := range dups {
				if got := ReduceCorner(d); got != want {
					t.Fatalf("corner %v dup %v reduces to %v, want %v", c, d, got, want)
				}
				id, _ := LookupCorner(d)
				if id.Coord() != want {
					t.Fatalf("corner %v dup %v resolves to %v", c, d, id.Coord())
				}
			}

			e := Edge{h.R, h.Q, i}
			wantE := ReduceEdge(e)
			for _, d := range DupEdges(e) {
				if got := ReduceEdge(d); got != wantE {
					t.Fatalf("edge %v dup %v reduces to %v, want %v", e, d, got, wantE)
				}
			}
		}
	}
}

func TestNeighbors_Symmetric(t *testing.T) {
	for id := range Corners {
		c := CornerID(id)
		ns := c.Neighbors()
		if len(ns) < 2 || len(ns) > 3 {
			t.Fatalf("corner %v: %d neighbors", c.Coord(), len(ns))
		}
		for _, n := range ns {
			found := false
			for _, back := range n.Neighbors() {
				if back == c {
					found = true
				}
			}
			if !found {
				t.Fatalf("corner %v -> %v not symmetric", c.Coord(), n.Coord())
			}
		}
		if len(c.Edges()) != len(ns) {
			t.Fatalf("corner %v: %d edges vs %d neighbors", c.Coord(), len(c.Edges()), len(ns))
		}
	}
	for id := range Edges {
		e := EdgeID(id)
		ends := e.Ends()
		if ends[0] == ends[1] {
			t.Fatalf("edge %v has identical ends", e.Coord())
		}
		for _, end := range ends {
			found := false
			for _, x := range end.Edges() {
				if x == e {
					found = true
				}
			}
			if !found {
				t.Fatalf("edge %v missing from corner %v", e.Coord(), end.Coord())
			}
		}
		ns := e.Neighbors()
		if len(ns) < 2 || len(ns) > 4 {
			t.Fatalf("edge %v: %d neighbors", e.Coord(), len(ns))
		}
		for _, n := range ns {
			if _, ok := e.Shared(n); !ok {
				t.Fatalf("edge %v and neighbor %v share no corner", e.Coord(), n.Coord())
			}
		}
	}
}

func TestIntersectingCorner(t *testing.T) {
	c, ok := IntersectingCorner(Edge{2, 2, 0}, Edge{2, 2, 1})
	if !ok || c != (Corner{1, 2, 2}) {
		t.Fatalf("got %v %v", c, ok)
	}
	// Same physical corner reached through the neighbor's coordinates.
	c, ok = IntersectingCorner(Edge{2, 2, 0}, Edge{1, 2, 2})
	if !ok || c != (Corner{1, 2, 2}) {
		t.Fatalf("got %v %v", c, ok)
	}
	if _, ok := IntersectingCorner(Edge{2, 2, 0}, Edge{2, 2, 3}); ok {
		t.Fatalf("opposite edges must not meet")
	}
}

func TestPortEdges_Coastal(t *testing.T) {
	for _, pe := range PortEdges {
		if !pe.Hex().OnBoard() {
			t.Fatalf("port %v off board", pe)
		}
		if n := len(DupEdges(pe)); n != 1 {
			t.Fatalf("port %v is not on the coast", pe)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Hex{2, 2}, Hex{1, 2}); d != 1 {
		t.Fatalf("got %d", d)
	}
	if d := Distance(Hex{0, 2}, Hex{4, 2}); d != 4 {
		t.Fatalf("got %d", d)
	}
	for i := 0; i < 6; i++ {
		if d := Distance(Hex{2, 2}, Hex{2, 2}.Step(i)); d != 1 {
			t.Fatalf("dir %d: got %d", i, d)
		}
	}
}

func TestLookup_OffBoard(t *testing.T) {
	if _, ok := LookupCorner(Corner{0, 0, 0}); ok {
		t.Fatalf("expected off-board corner rejected")
	}
	if _, ok := LookupEdge(Edge{2, 2, 6}); ok {
		t.Fatalf("expected bad edge index rejected")
	}
}
