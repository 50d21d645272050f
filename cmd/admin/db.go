package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hexsettlers/internal/persistence/indexdb"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	dbPath := fs.String("db", "", "sqlite db path (default: <data>/index/matches.sqlite)")
	matchID := fs.String("match", "", "match id (required for commands, snapshots, summary)")
	seat := fs.Int("seat", -1, "seat filter (commands)")
	rejected := fs.Bool("rejected", false, "only rejected commands (commands)")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	q := "matches"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(*dataDir, "index", "matches.sqlite")
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(os.Stderr, "index:", err)
		os.Exit(1)
	}
	if q != "matches" && strings.TrimSpace(*matchID) == "" {
		fmt.Fprintln(os.Stderr, "missing -match")
		os.Exit(2)
	}
	if *limit <= 0 {
		*limit = 20
	}

	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer idx.Close()
	ctx := context.Background()

	switch q {
	case "summary":
		s, err := matchSummary(ctx, idx, *matchID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "summary:", err)
			os.Exit(1)
		}
		printJSON(s)
	case "matches", "commands", "snapshots":
		db, err := sql.Open("sqlite", path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open:", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := queryRows(ctx, db, q, *matchID, *seat, *rejected, *limit, printJSON); err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "supported: matches, commands, snapshots, summary")
		os.Exit(2)
	}
}

type summary struct {
	MatchID        string `json:"match_id"`
	Commands       int    `json:"commands"`
	LatestSnapshot string `json:"latest_snapshot,omitempty"`
	LatestSeq      uint64 `json:"latest_seq,omitempty"`
	Winner         *int   `json:"winner,omitempty"`
}

func matchSummary(ctx context.Context, idx *indexdb.SQLiteIndex, matchID string) (summary, error) {
	s := summary{MatchID: matchID}
	n, err := idx.CommandCount(ctx, matchID)
	if err != nil {
		return s, err
	}
	s.Commands = n
	path, seq, ok, err := idx.LatestSnapshot(ctx, matchID)
	if err != nil {
		return s, err
	}
	if ok {
		s.LatestSnapshot, s.LatestSeq = path, seq
	}
	w, ok, err := idx.Winner(ctx, matchID)
	if err != nil {
		return s, err
	}
	if ok {
		s.Winner = &w
	}
	return s, nil
}

func queryRows(ctx context.Context, db *sql.DB, q, matchID string, seat int, rejected bool, limit int, emit func(any)) error {
	switch q {
	case "matches":
		rows, err := db.QueryContext(ctx, `SELECT match_id,seed,num_players,rules_digest,started_at,winner,finished_at FROM matches ORDER BY started_at DESC LIMIT ?`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				MatchID     string  `json:"match_id"`
				Seed        int64   `json:"seed"`
				NumPlayers  int     `json:"num_players"`
				RulesDigest string  `json:"rules_digest"`
				StartedAt   string  `json:"started_at"`
				Winner      *int64  `json:"winner"`
				FinishedAt  *string `json:"finished_at"`
			}
			if err := rows.Scan(&r.MatchID, &r.Seed, &r.NumPlayers, &r.RulesDigest, &r.StartedAt, &r.Winner, &r.FinishedAt); err != nil {
				return err
			}
			emit(r)
		}
		return rows.Err()

	case "commands":
		query := `SELECT seq,seat,cmd,code,digest,raw_json FROM commands WHERE match_id=?`
		qargs := []any{matchID}
		if seat >= 0 {
			query += ` AND seat=?`
			qargs = append(qargs, seat)
		}
		if rejected {
			query += ` AND code != ''`
		}
		query += ` ORDER BY seq DESC LIMIT ?`
		qargs = append(qargs, limit)
		rows, err := db.QueryContext(ctx, query, qargs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Seq    uint64          `json:"seq"`
				Seat   int             `json:"seat"`
				Cmd    string          `json:"cmd"`
				Code   string          `json:"code,omitempty"`
				Digest string          `json:"digest"`
				Raw    json.RawMessage `json:"raw"`
			}
			var raw string
			if err := rows.Scan(&r.Seq, &r.Seat, &r.Cmd, &r.Code, &r.Digest, &raw); err != nil {
				return err
			}
			r.Raw = json.RawMessage(raw)
			emit(r)
		}
		return rows.Err()

	case "snapshots":
		rows, err := db.QueryContext(ctx, `SELECT seq,path,phase,turn_number FROM snapshots WHERE match_id=? ORDER BY seq DESC LIMIT ?`, matchID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Seq        uint64 `json:"seq"`
				Path       string `json:"path"`
				Phase      string `json:"phase"`
				TurnNumber int    `json:"turn_number"`
			}
			if err := rows.Scan(&r.Seq, &r.Path, &r.Phase, &r.TurnNumber); err != nil {
				return err
			}
			emit(r)
		}
		return rows.Err()
	}
	return fmt.Errorf("unknown query %q", q)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
