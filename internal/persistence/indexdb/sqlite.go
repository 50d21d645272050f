package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/match"
	"hexsettlers/internal/sim/tuning"
)

// SQLiteIndex is a secondary, queryable index of matches. Writes go through
// a single background goroutine; turn logs and snapshots stay the source of
// truth, so a full queue drops rows instead of stalling the match.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTurn     atomic.Uint64
	dropSnapshot atomic.Uint64
	dropMatch    atomic.Uint64
}

type reqKind int

const (
	reqMatch reqKind = iota + 1
	reqTurn
	reqSnapshot
	reqResult
)

type req struct {
	kind    reqKind
	matchID string

	match    MatchRow
	turn     match.TurnLogEntry
	snapshot snapshotRow
	winner   int
	at       string
}

// MatchRow describes one match at creation.
type MatchRow struct {
	ID          string
	Seed        int64
	NumPlayers  int
	RulesDigest string
	StartedAt   time.Time
}

type snapshotRow struct {
	Seq        uint64
	Path       string
	Phase      string
	TurnNumber int
}

type QueueStats struct {
	QueueDepth        int
	QueueCapacity     int
	DropTurnTotal     uint64
	DropSnapshotTotal uint64
	DropMatchTotal    uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			match_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			num_players INTEGER NOT NULL,
			rules_digest TEXT NOT NULL,
			started_at TEXT NOT NULL,
			winner INTEGER,
			finished_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS commands (
			match_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			seat INTEGER NOT NULL,
			cmd TEXT NOT NULL,
			code TEXT NOT NULL,
			digest TEXT NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (match_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_commands_seat ON commands(match_id, seat, seq);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			match_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			phase TEXT NOT NULL,
			turn_number INTEGER NOT NULL,
			PRIMARY KEY (match_id, seq)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() QueueStats {
	if s == nil {
		return QueueStats{}
	}
	return QueueStats{
		QueueDepth:        len(s.ch),
		QueueCapacity:     cap(s.ch),
		DropTurnTotal:     s.dropTurn.Load(),
		DropSnapshotTotal: s.dropSnapshot.Load(),
		DropMatchTotal:    s.dropMatch.Load(),
	}
}

func (s *SQLiteIndex) enqueue(r req, drops *atomic.Uint64) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		drops.Add(1)
	}
}

func (s *SQLiteIndex) RecordMatch(m MatchRow) {
	s.enqueue(req{kind: reqMatch, matchID: m.ID, match: m}, &s.dropMatch)
}

func (s *SQLiteIndex) RecordResult(matchID string, winner int) {
	s.enqueue(req{
		kind:    reqResult,
		matchID: matchID,
		winner:  winner,
		at:      time.Now().UTC().Format(time.RFC3339Nano),
	}, &s.dropMatch)
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.MatchV1) {
	r := snapshotRow{Seq: snap.Header.Seq, Path: path, Phase: snap.Phase}
	if snap.Turn != nil {
		r.TurnNumber = snap.Turn.Number
	}
	s.enqueue(req{kind: reqSnapshot, matchID: snap.Header.MatchID, snapshot: r}, &s.dropSnapshot)
}

// Recorder binds the index to one match so it can sit behind the match's
// turn logger.
type Recorder struct {
	s       *SQLiteIndex
	matchID string
}

func (s *SQLiteIndex) Match(matchID string) *Recorder { return &Recorder{s: s, matchID: matchID} }

func (r *Recorder) WriteTurn(entry match.TurnLogEntry) error {
	r.s.enqueue(req{kind: reqTurn, matchID: r.matchID, turn: entry}, &r.s.dropTurn)
	return nil
}

// UpsertCatalogs stores the rules and tuning actually applied.
func (s *SQLiteIndex) UpsertCatalogs(rules *catalogs.Rules, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	tuneJSON, err := json.Marshal(tune)
	if err != nil {
		return err
	}
	rows := []struct {
		name, digest string
		json         []byte
	}{
		{"rules", rules.Digest, rulesJSON},
		{"tuning", tune.Digest(), tuneJSON},
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.digest == "" {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CommandCount returns how many command rows a match has.
func (s *SQLiteIndex) CommandCount(ctx context.Context, matchID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commands WHERE match_id = ?`, matchID).Scan(&n)
	return n, err
}

// LatestSnapshot returns the newest recorded snapshot of a match.
func (s *SQLiteIndex) LatestSnapshot(ctx context.Context, matchID string) (path string, seq uint64, ok bool, err error) {
	var seqI int64
	err = s.db.QueryRowContext(ctx,
		`SELECT path, seq FROM snapshots WHERE match_id = ? ORDER BY seq DESC LIMIT 1`, matchID,
	).Scan(&path, &seqI)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return path, uint64(seqI), true, nil
}

// Winner returns the recorded winner of a finished match.
func (s *SQLiteIndex) Winner(ctx context.Context, matchID string) (int, bool, error) {
	var w sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT winner FROM matches WHERE match_id = ?`, matchID).Scan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return int(w.Int64), w.Valid, nil
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertMatch, _ := s.db.Prepare(`INSERT OR REPLACE INTO matches(match_id,seed,num_players,rules_digest,started_at) VALUES(?,?,?,?,?)`)
	updateResult, _ := s.db.Prepare(`UPDATE matches SET winner = ?, finished_at = ? WHERE match_id = ?`)
	insertCommand, _ := s.db.Prepare(`INSERT OR REPLACE INTO commands(match_id,seq,seat,cmd,code,digest,raw_json) VALUES(?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(match_id,seq,path,phase,turn_number) VALUES(?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertMatch, updateResult, insertCommand, insertSnapshot} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) {
		if st == nil || tx == nil {
			return
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return
		}
		opCount++
	}

	handle := func(r req) {
		begin()
		if tx == nil {
			return
		}
		switch r.kind {
		case reqMatch:
			m := r.match
			exec(insertMatch, m.ID, m.Seed, m.NumPlayers, m.RulesDigest, m.StartedAt.UTC().Format(time.RFC3339Nano))
		case reqResult:
			exec(updateResult, r.winner, r.at, r.matchID)
		case reqTurn:
			e := r.turn
			raw, _ := json.Marshal(e.Cmd)
			exec(insertCommand, r.matchID, int64(e.Seq), e.Seat, e.Cmd.Cmd, e.Code, e.Digest, string(raw))
		case reqSnapshot:
			sn := r.snapshot
			exec(insertSnapshot, r.matchID, int64(sn.Seq), sn.Path, sn.Phase, sn.TurnNumber)
		}
	}
	flushIfNeeded := func() {
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	ticker := time.NewTicker(commitMaxWait / 2)
	defer ticker.Stop()
	for {
		select {
		case r, ok := <-s.ch:
			if !ok {
				commit()
				return
			}
			handle(r)
			flushIfNeeded()
		case <-ticker.C:
			flushIfNeeded()
		}
	}
}
