package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"hexsettlers/internal/persistence/archive"
	"hexsettlers/internal/persistence/indexdb"
	persistlog "hexsettlers/internal/persistence/log"
	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/match"
	"hexsettlers/internal/sim/tuning"
	"hexsettlers/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		matchID    = flag.String("match", "", "match id (default: a new uuid; pass an existing id to resume)")
		seed       = flag.Int64("seed", 0, "board seed for a fresh match (0: tuning seed, then wall clock)")
		players    = flag.Int("players", 0, "seats for a fresh match (0: tuning num_players)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable indexing (commands + catalogs + snapshot metadata)")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot of -match if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	envCfg, err := parseEnv()
	if err != nil {
		logger.Fatalf("%v", err)
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	overrideString(set, "addr", addr, envCfg.Addr)
	overrideString(set, "data", dataDir, envCfg.DataDir)
	overrideString(set, "configs", configDir, envCfg.ConfigDir)
	overrideString(set, "match", matchID, envCfg.MatchID)
	if !set["seed"] && envCfg.Seed != 0 {
		*seed = envCfg.Seed
	}
	if !set["players"] && envCfg.NumPlayers != 0 {
		*players = envCfg.NumPlayers
	}

	rules, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	validator, err := protocol.NewValidator()
	if err != nil {
		logger.Fatalf("load schemas: %v", err)
	}

	if *matchID == "" {
		*matchID = uuid.NewString()
	}
	matchDir := filepath.Join(*dataDir, "matches", *matchID)
	turnsDir := filepath.Join(matchDir, "turns")
	snapDir := filepath.Join(matchDir, "snapshots")

	idx, err := openRuntimeIndex(*dataDir, envCfg.IndexBackend, *disableDB)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(rules, tune); err != nil {
			logger.Printf("index catalogs: %v", err)
		}
	}

	loadPath := *snapPath
	if loadPath == "" && *loadLatest {
		loadPath = latestSnapshot(snapDir)
	}

	var m *match.Match
	if loadPath != "" {
		snap, err := snapshot.ReadSnapshot(loadPath)
		if err != nil {
			logger.Fatalf("load snapshot: %v", err)
		}
		m, err = match.FromSnapshot(rules, snap, tune.InboxSize)
		if err != nil {
			logger.Fatalf("restore snapshot: %v", err)
		}
		n, torn, err := persistlog.Replay(m, turnsDir)
		if err != nil {
			logger.Fatalf("catch up from turn log: %v", err)
		}
		for _, path := range torn {
			logger.Printf("turn log %s: dropped torn last line", filepath.Base(path))
		}
		logger.Printf("resumed match %s from %s (+%d logged commands, seq=%d)", m.ID(), loadPath, n, m.Seq())
	} else {
		cfg := match.ConfigFromTuning(*matchID, tune)
		if *seed != 0 {
			cfg.Seed = *seed
		}
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if *players != 0 {
			cfg.NumPlayers = *players
		}
		m, err = match.New(cfg, rules)
		if err != nil {
			logger.Fatalf("new match: %v", err)
		}
		if idx != nil {
			idx.RecordMatch(indexdb.MatchRow{
				ID:          m.ID(),
				Seed:        m.Seed(),
				NumPlayers:  m.NumPlayers(),
				RulesDigest: rules.Digest,
				StartedAt:   time.Now(),
			})
		}
		logger.Printf("new match %s seed=%d players=%d", m.ID(), m.Seed(), m.NumPlayers())
	}
	m.SetTuningDigest(tune.Digest())

	turnLog := persistlog.NewTurnLogger(matchDir)
	defer turnLog.Close()
	if idx != nil {
		m.SetTurnLogger(multiTurnLogger{a: turnLog, b: idx.Match(m.ID())})
	} else {
		m.SetTurnLogger(turnLog)
	}
	m.OnFinish(func(winner int) {
		logger.Printf("match %s won by seat %d at seq=%d", m.ID(), winner, m.Seq())
		if idx != nil {
			idx.RecordResult(m.ID(), winner)
		}
	})

	snapCh := make(chan snapshot.MatchV1, 2)
	m.SetSnapshotSink(snapCh)
	snapDone := make(chan struct{})
	go func() {
		defer close(snapDone)
		for snap := range snapCh {
			path := snapshot.Path(snapDir, snap.Header.Seq)
			if err := snapshot.WriteSnapshot(path, snap); err != nil {
				logger.Printf("snapshot write: %v", err)
				continue
			}
			logger.Printf("snapshot written: %s", path)
			if idx != nil {
				idx.RecordSnapshot(path, snap)
			}
			if dst, ok, err := archive.ArchiveFinishedMatch(matchDir, path, snap); err != nil {
				logger.Printf("archive: %v", err)
			} else if ok {
				logger.Printf("match archived: %s", dst)
			}
		}
	}()

	ctx, cancel := signalContext()
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := m.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("match stopped: %v", err)
		}
	}()

	adminHTTP := envCfg.adminHTTPEnabled()
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetrics(rw, m, idx)
	})
	if adminHTTP {
		mux.HandleFunc("/admin/v1/match", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(map[string]any{
				"match_id":    m.ID(),
				"seed":        m.Seed(),
				"num_players": m.NumPlayers(),
				"metrics":     m.Metrics(),
			})
		})
	} else {
		logger.Printf("admin endpoints disabled (DEPLOY_ENV=%s)", envCfg.DeployEnv)
	}
	wsLogger := log.New(os.Stdout, "[ws] ", log.LstdFlags|log.Lmicroseconds)
	mux.HandleFunc("/v1/ws", ws.NewServer(m, validator, wsLogger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Printf("ListenAndServe: %v", err)
		cancel()
	}

	// The match goroutine owns the sinks; drain it before closing them.
	<-runDone
	close(snapCh)
	<-snapDone
}

func overrideString(set map[string]bool, name string, dst *string, v string) {
	if !set[name] && v != "" {
		*dst = v
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

// latestSnapshot returns the highest-seq snapshot file in dir, or "".
func latestSnapshot(dir string) string {
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

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func writeMetrics(rw http.ResponseWriter, m *match.Match, idx runtimeIndex) {
	mt := m.Metrics()
	fmt.Fprintf(rw, "# HELP hexsettlers_match_seq Commands applied so far.\n")
	fmt.Fprintf(rw, "# TYPE hexsettlers_match_seq counter\n")
	fmt.Fprintf(rw, "hexsettlers_match_seq %d\n", mt.Seq)

	fmt.Fprintf(rw, "# HELP hexsettlers_match_rejected_total Commands rejected with an error code.\n")
	fmt.Fprintf(rw, "# TYPE hexsettlers_match_rejected_total counter\n")
	fmt.Fprintf(rw, "hexsettlers_match_rejected_total %d\n", mt.Rejected)

	fmt.Fprintf(rw, "# HELP hexsettlers_match_clients Attached seats.\n")
	fmt.Fprintf(rw, "# TYPE hexsettlers_match_clients gauge\n")
	fmt.Fprintf(rw, "hexsettlers_match_clients %d\n", mt.Clients)

	fmt.Fprintf(rw, "# HELP hexsettlers_match_inbox_depth Commands waiting in the match inbox.\n")
	fmt.Fprintf(rw, "# TYPE hexsettlers_match_inbox_depth gauge\n")
	fmt.Fprintf(rw, "hexsettlers_match_inbox_depth %d\n", mt.InboxDepth)

	if idx == nil {
		return
	}
	s := idx.Stats()
	fmt.Fprintf(rw, "# HELP hexsettlers_index_queue_depth Current index queue depth.\n")
	fmt.Fprintf(rw, "# TYPE hexsettlers_index_queue_depth gauge\n")
	fmt.Fprintf(rw, "hexsettlers_index_queue_depth %d\n", s.QueueDepth)

	fmt.Fprintf(rw, "# HELP hexsettlers_index_queue_capacity Index queue capacity.\n")
	fmt.Fprintf(rw, "# TYPE hexsettlers_index_queue_capacity gauge\n")
	fmt.Fprintf(rw, "hexsettlers_index_queue_capacity %d\n", s.QueueCapacity)

	fmt.Fprintf(rw, "# HELP hexsettlers_index_dropped_total Index writes dropped because the queue was full.\n")
	fmt.Fprintf(rw, "# TYPE hexsettlers_index_dropped_total counter\n")
	fmt.Fprintf(rw, "hexsettlers_index_dropped_total{kind=\"turn\"} %d\n", s.DropTurnTotal)
	fmt.Fprintf(rw, "hexsettlers_index_dropped_total{kind=\"snapshot\"} %d\n", s.DropSnapshotTotal)
	fmt.Fprintf(rw, "hexsettlers_index_dropped_total{kind=\"match\"} %d\n", s.DropMatchTotal)
}

type multiTurnLogger struct {
	a match.TurnLogger
	b match.TurnLogger
}

func (m multiTurnLogger) WriteTurn(entry match.TurnLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTurn(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTurn(entry)
	}
	return nil
}
