package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleSnapshot() MatchV1 {
	return MatchV1{
		Header:      Header{Version: Version, MatchID: "m-1", Seq: 42},
		Seed:        1337,
		NumPlayers:  3,
		RulesDigest: "abc",
		Phase:       "MAIN",
		Board: BoardV1{
			Tiles:      []TileV1{{Desert: true}, {Resource: 4, Number: 6}},
			Ports:      []PortV1{{Generic: true}, {Resource: 1}},
			Robber:     [2]int{2, 2},
			Structures: "AAE2",
			Roads:      "AEg=",
			Bank:       [5]int{19, 18, 17, 16, 15},
			DevBank:    [5]int{14, 2, 2, 2, 5},
		},
		Players: []PlayerV1{{Color: 0, Hand: [5]int{1, 0, 0, 0, 2}, Points: 2, RoadsLeft: 13}},
		Turn: &TurnV1{
			Turn:        1,
			Current:     2,
			Action:      "DISCARDING",
			Selector:    &SelectorV1{Kind: "DISCARD", Seat: 2, Need: 4},
			Offers:      []OfferV1{{ID: 1, Seat: 1, Give: [5]int{1}, Get: [5]int{0, 1}}},
			NextOfferID: 2,
			LargestArmy: -1,
			LongestRoad: -1,
			Winner:      -1,
		},
	}
}

func TestWriteReadSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := Path(filepath.Join(dir, "snapshots"), 42)
	want := sampleSnapshot()
	if err := WriteSnapshot(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if h != want.Header {
		t.Fatalf("header: got %+v want %+v", h, want.Header)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Seed != want.Seed || got.Board.Structures != want.Board.Structures || got.Board.Bank != want.Board.Bank {
		t.Fatalf("board mismatch: %+v", got.Board)
	}
	if got.Turn == nil || got.Turn.Selector == nil || got.Turn.Selector.Need != 4 || len(got.Turn.Offers) != 1 {
		t.Fatalf("turn mismatch: %+v", got.Turn)
	}
	if got.Turn.Winner != -1 || got.Setup != nil {
		t.Fatalf("unexpected fields: %+v", got)
	}
}

func TestReadSnapshot_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.snap.zst")
	if err := os.WriteFile(path, []byte("not zstd"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPath_SortsBySeq(t *testing.T) {
	a, b := Path("d", 9), Path("d", 10)
	if !(a < b) {
		t.Fatalf("paths not ordered: %s %s", a, b)
	}
}
