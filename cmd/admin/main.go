package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	persistlog "hexsettlers/internal/persistence/log"
	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/match"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "rewind":
			rewindCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	entries, err := os.ReadDir(filepath.Join(*dataDir, "matches"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		latest := latestSnapshot(filepath.Join(*dataDir, "matches", e.Name()))
		if latest == "" {
			fmt.Println(e.Name())
			continue
		}
		h, err := snapshot.ReadHeader(latest)
		if err != nil {
			fmt.Printf("%s\t(unreadable snapshot: %v)\n", e.Name(), err)
			continue
		}
		fmt.Printf("%s\tseq=%d\n", e.Name(), h.Seq)
	}
}

// snapshotCmd prints a summary of a snapshot file.
func snapshotCmd(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: admin snapshot <path.snap.zst>")
		os.Exit(2)
	}
	snap, err := snapshot.ReadSnapshot(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	printJSON(summarize(snap))
}

type snapshotSummary struct {
	MatchID    string `json:"match_id"`
	Seq        uint64 `json:"seq"`
	Seed       int64  `json:"seed"`
	NumPlayers int    `json:"num_players"`
	Phase      string `json:"phase"`
	Turn       int    `json:"turn,omitempty"`
	Current    int    `json:"current,omitempty"`
	Action     string `json:"action,omitempty"`
	Points     []int  `json:"points"`
	Winner     *int   `json:"winner,omitempty"`
}

func summarize(snap snapshot.MatchV1) snapshotSummary {
	s := snapshotSummary{
		MatchID:    snap.Header.MatchID,
		Seq:        snap.Header.Seq,
		Seed:       snap.Seed,
		NumPlayers: snap.NumPlayers,
		Phase:      snap.Phase,
	}
	for _, p := range snap.Players {
		s.Points = append(s.Points, p.Points)
	}
	if t := snap.Turn; t != nil {
		s.Turn = t.Number
		s.Current = t.Current
		s.Action = t.Action
		if t.Winner >= 0 {
			w := t.Winner
			s.Winner = &w
		}
	}
	return s
}

func rewindCmd(args []string) {
	fs := flag.NewFlagSet("rewind", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	matchID := fs.String("match", "", "match id")
	configDir := fs.String("configs", "./configs", "config directory")
	toSeq := fs.Uint64("to_seq", 0, "rebuild the state right before this seq (required)")
	outPath := fs.String("out", "", "output snapshot path (optional)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*matchID) == "" {
		fmt.Fprintln(os.Stderr, "missing -match")
		os.Exit(2)
	}
	rules, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	matchDir := filepath.Join(*dataDir, "matches", *matchID)
	snap, err := rewind(matchDir, rules, *toSeq)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rewind:", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*outPath) == "" {
		*outPath = filepath.Join(matchDir, "snapshots", fmt.Sprintf("%d.rewind.snap.zst", snap.Header.Seq))
	}
	if err := snapshot.WriteSnapshot(*outPath, snap); err != nil {
		fmt.Fprintln(os.Stderr, "write snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("rewind ok: match=%s seq=%d phase=%s out=%s\n", snap.Header.MatchID, snap.Header.Seq, snap.Phase, *outPath)
}

var errStop = errors.New("stop")

// rewind replays the turn log from the match's first snapshot up to, not
// including, toSeq and exports the resulting state.
func rewind(matchDir string, rules *catalogs.Rules, toSeq uint64) (snapshot.MatchV1, error) {
	start, err := snapshot.ReadSnapshot(snapshot.Path(filepath.Join(matchDir, "snapshots"), 0))
	if err != nil {
		return snapshot.MatchV1{}, err
	}
	m, err := match.FromSnapshot(rules, start, 1)
	if err != nil {
		return snapshot.MatchV1{}, err
	}
	_, err = persistlog.ReadTurnsFrom(filepath.Join(matchDir, "turns"), 0, func(e match.TurnLogEntry) error {
		if e.Seq >= toSeq {
			return errStop
		}
		if _, digest, _ := m.StepOnce(e.Seat, e.Cmd); digest != e.Digest {
			return fmt.Errorf("digest mismatch at seq %d", e.Seq)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return snapshot.MatchV1{}, err
	}
	if m.Seq() != toSeq {
		return snapshot.MatchV1{}, fmt.Errorf("turn log ends at seq %d", m.Seq())
	}
	return m.ExportSnapshot(), nil
}

func latestSnapshot(matchDir string) string {
	dir := filepath.Join(matchDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestSeq uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		seq, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		if best == "" || seq > bestSeq {
			bestSeq = seq
			best = filepath.Join(dir, name)
		}
	}
	return best
}
