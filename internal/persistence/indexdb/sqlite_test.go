package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/match"
	"hexsettlers/internal/sim/tuning"
)

func TestSQLiteIndex_RecordsMatchCommandsSnapshots(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	rules := catalogs.Defaults()
	if err := idx.UpsertCatalogs(rules, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}

	idx.RecordMatch(MatchRow{ID: "m1", Seed: 42, NumPlayers: 3, RulesDigest: rules.Digest, StartedAt: time.Unix(100, 0)})
	rec := idx.Match("m1")
	for seq := uint64(0); seq < 5; seq++ {
		code := ""
		if seq == 3 {
			code = protocol.ErrWrongPhase
		}
		_ = rec.WriteTurn(match.TurnLogEntry{
			Seq:    seq,
			Seat:   int(seq % 3),
			Cmd:    protocol.CmdMsg{Type: protocol.TypeCmd, Cmd: protocol.CmdRollDice},
			Code:   code,
			Digest: "d",
		})
	}
	idx.RecordSnapshot("/tmp/a.snap.zst", snapshot.MatchV1{
		Header: snapshot.Header{Version: snapshot.Version, MatchID: "m1", Seq: 0},
		Phase:  "SETUP",
		Setup:  &snapshot.SetupV1{Pending: -1},
	})
	idx.RecordSnapshot("/tmp/b.snap.zst", snapshot.MatchV1{
		Header: snapshot.Header{Version: snapshot.Version, MatchID: "m1", Seq: 5},
		Phase:  "MAIN",
		Turn:   &snapshot.TurnV1{Number: 2},
	})
	idx.RecordResult("m1", 2)

	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	// Queries run on a fresh handle.
	idx2, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()
	ctx := context.Background()

	n, err := idx2.CommandCount(ctx, "m1")
	if err != nil || n != 5 {
		t.Fatalf("CommandCount: n=%d err=%v", n, err)
	}
	path, seq, ok, err := idx2.LatestSnapshot(ctx, "m1")
	if err != nil || !ok || seq != 5 || path != "/tmp/b.snap.zst" {
		t.Fatalf("LatestSnapshot: %s %d %v %v", path, seq, ok, err)
	}
	if _, _, ok, err := idx2.LatestSnapshot(ctx, "missing"); err != nil || ok {
		t.Fatalf("LatestSnapshot(missing): %v %v", ok, err)
	}
	w, ok, err := idx2.Winner(ctx, "m1")
	if err != nil || !ok || w != 2 {
		t.Fatalf("Winner: %d %v %v", w, ok, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var rejected int
	if err := db.QueryRow(`SELECT COUNT(*) FROM commands WHERE match_id='m1' AND code != ''`).Scan(&rejected); err != nil {
		t.Fatalf("query commands: %v", err)
	}
	if rejected != 1 {
		t.Fatalf("rejected rows: %d", rejected)
	}
	var rawCmd string
	if err := db.QueryRow(`SELECT raw_json FROM commands WHERE match_id='m1' AND seq=0`).Scan(&rawCmd); err != nil {
		t.Fatalf("query raw: %v", err)
	}
	if rawCmd == "" {
		t.Fatalf("empty raw json")
	}
	var digest string
	if err := db.QueryRow(`SELECT digest FROM catalogs WHERE name='rules'`).Scan(&digest); err != nil {
		t.Fatalf("query catalogs: %v", err)
	}
	if digest != rules.Digest {
		t.Fatalf("rules digest: %s", digest)
	}
	var schemaVersion string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key='schema_version'`).Scan(&schemaVersion); err != nil || schemaVersion != "1" {
		t.Fatalf("schema_version: %q %v", schemaVersion, err)
	}
}

func TestSQLiteIndex_DropsWhenQueueFull(t *testing.T) {
	idx := &SQLiteIndex{ch: make(chan req, 1)}
	rec := idx.Match("m1")
	_ = rec.WriteTurn(match.TurnLogEntry{Seq: 0})
	_ = rec.WriteTurn(match.TurnLogEntry{Seq: 1})
	idx.RecordSnapshot("x", snapshot.MatchV1{})

	st := idx.Stats()
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue: %+v", st)
	}
	if st.DropTurnTotal != 1 || st.DropSnapshotTotal != 1 || st.DropMatchTotal != 0 {
		t.Fatalf("drops: %+v", st)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error")
	}
}
