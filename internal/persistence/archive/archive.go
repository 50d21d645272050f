package archive

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"hexsettlers/internal/persistence/snapshot"
)

type MatchArchiveMeta struct {
	MatchID     string `json:"match_id"`
	Seed        int64  `json:"seed"`
	NumPlayers  int    `json:"num_players"`
	RulesDigest string `json:"rules_digest"`
	FinalSeq    uint64 `json:"final_seq"`
	Turns       int    `json:"turns"`
	Winner      int    `json:"winner"`
	Points      []int  `json:"points"`
	Snapshot    string `json:"snapshot"`
	CreatedAt   string `json:"created_at"`
}

// Winner reports the winning seat recorded in snap, if any.
func Winner(snap snapshot.MatchV1) (int, bool) {
	if snap.Turn == nil || snap.Turn.Winner < 0 {
		return 0, false
	}
	return snap.Turn.Winner, true
}

// ArchiveFinishedMatch copies the snapshot of a decided match into
// `matchDir/archive/` next to a meta.json summary. Snapshots of matches
// still in play are left alone (archived=false).
func ArchiveFinishedMatch(matchDir, snapshotPath string, snap snapshot.MatchV1) (archivedPath string, archived bool, err error) {
	winner, ok := Winner(snap)
	if !ok {
		return "", false, nil
	}

	archiveDir := filepath.Join(matchDir, "archive")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", false, err
	}
	dst := filepath.Join(archiveDir, "final.snap.zst")
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", false, err
	}

	meta := MatchArchiveMeta{
		MatchID:     snap.Header.MatchID,
		Seed:        snap.Seed,
		NumPlayers:  snap.NumPlayers,
		RulesDigest: snap.RulesDigest,
		FinalSeq:    snap.Header.Seq,
		Turns:       snap.Turn.Number,
		Winner:      winner,
		Snapshot:    filepath.Base(dst),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, p := range snap.Players {
		meta.Points = append(meta.Points, p.Points)
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}
	return dst, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
