package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_RepoConfig(t *testing.T) {
	got, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("repo tuning differs from defaults: %+v", got)
	}
}

func TestLoad_PartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("num_players: 3\nseed: 99\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.NumPlayers != 3 || got.Seed != 99 {
		t.Fatalf("got %+v", got)
	}
	if got.MaxBoardAttempts != Defaults().MaxBoardAttempts {
		t.Fatalf("expected default attempts, got %d", got.MaxBoardAttempts)
	}
}

func TestLoad_RejectsBadPlayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("num_players: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDigest_TracksValues(t *testing.T) {
	a := Defaults()
	b := Defaults()
	if a.Digest() == "" || a.Digest() != b.Digest() {
		t.Fatalf("digest not stable: %q %q", a.Digest(), b.Digest())
	}
	b.MaxOpenOffers++
	if a.Digest() == b.Digest() {
		t.Fatalf("digest ignores max_open_offers")
	}
}
