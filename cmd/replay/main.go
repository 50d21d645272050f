package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	persistlog "hexsettlers/internal/persistence/log"
	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/match"
)

func main() {
	var (
		matchDir  = flag.String("match_dir", "", "match data dir (data/matches/<id>); replays from its seq 0 snapshot")
		snapPath  = flag.String("snapshot", "", "path to .snap.zst (overrides -match_dir's starting point)")
		turnsDir  = flag.String("turns", "", "turn log dir (default: <match_dir>/turns, or next to the snapshot dir)")
		configDir = flag.String("configs", "./configs", "config directory")
	)
	flag.Parse()

	start := *snapPath
	if start == "" && *matchDir != "" {
		start = snapshot.Path(filepath.Join(*matchDir, "snapshots"), 0)
	}
	if start == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot or -match_dir")
		os.Exit(2)
	}
	dir := *turnsDir
	if dir == "" {
		if *matchDir != "" {
			dir = filepath.Join(*matchDir, "turns")
		} else {
			dir = filepath.Join(filepath.Dir(filepath.Dir(start)), "turns")
		}
	}

	snap, err := snapshot.ReadSnapshot(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot v%d match=%s seq=%d seed=%d players=%d phase=%s\n",
		snap.Header.Version, snap.Header.MatchID, snap.Header.Seq, snap.Seed, snap.NumPlayers, snap.Phase)

	rules, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	m, err := match.FromSnapshot(rules, snap, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, "restore snapshot:", err)
		os.Exit(1)
	}

	n, torn, err := persistlog.Replay(m, dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	for _, path := range torn {
		fmt.Fprintln(os.Stderr, "warning: torn last line in", path)
	}
	obs := m.Obs(0)
	if obs.Winner != nil {
		fmt.Printf("replay ok: checked=%d commands (seq %d..%d) phase=%s winner=%d\n", n, snap.Header.Seq, m.Seq(), m.Phase(), *obs.Winner)
		return
	}
	fmt.Printf("replay ok: checked=%d commands (seq %d..%d) phase=%s\n", n, snap.Header.Seq, m.Seq(), m.Phase())
}
