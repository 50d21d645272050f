package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"hexsettlers/internal/persistence/snapshot"
)

func TestArchiveFinishedMatch_CopiesFinalSnapshot(t *testing.T) {
	matchDir := filepath.Join(t.TempDir(), "matches", "m1")
	src := snapshot.Path(filepath.Join(matchDir, "snapshots"), 77)
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir snapshots: %v", err)
	}
	want := []byte("dummy")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	snap := snapshot.MatchV1{
		Header:     snapshot.Header{Version: snapshot.Version, MatchID: "m1", Seq: 77},
		Seed:       42,
		NumPlayers: 2,
		Players:    []snapshot.PlayerV1{{Points: 10}, {Points: 6}},
		Turn:       &snapshot.TurnV1{Number: 31, Winner: 0},
	}
	archivedPath, ok, err := ArchiveFinishedMatch(matchDir, src, snap)
	if err != nil || !ok {
		t.Fatalf("archive: ok=%v err=%v", ok, err)
	}
	got, err := os.ReadFile(archivedPath)
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("archived content mismatch: got=%q", got)
	}

	raw, err := os.ReadFile(filepath.Join(matchDir, "archive", "meta.json"))
	if err != nil {
		t.Fatalf("meta.json: %v", err)
	}
	var meta MatchArchiveMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.Winner != 0 || meta.FinalSeq != 77 || meta.Turns != 31 || len(meta.Points) != 2 || meta.Points[0] != 10 {
		t.Fatalf("meta: %+v", meta)
	}
}

func TestArchiveFinishedMatch_SkipsUndecided(t *testing.T) {
	dir := t.TempDir()
	cases := []snapshot.MatchV1{
		{Setup: &snapshot.SetupV1{Pending: -1}},
		{Turn: &snapshot.TurnV1{Winner: -1}},
	}
	for i, snap := range cases {
		if _, ok, err := ArchiveFinishedMatch(dir, "missing", snap); ok || err != nil {
			t.Fatalf("case %d: ok=%v err=%v", i, ok, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "archive")); !os.IsNotExist(err) {
		t.Fatalf("archive dir created for undecided match")
	}
}
