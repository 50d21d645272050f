package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"hexsettlers/internal/sim/match"
)

// liveMatch is the body of the server's /admin/v1/match endpoint.
type liveMatch struct {
	MatchID    string        `json:"match_id"`
	Seed       int64         `json:"seed"`
	NumPlayers int           `json:"num_players"`
	Metrics    match.Metrics `json:"metrics"`
}

// stateCmd prints the seat count, seq and inbox depth of the match a running
// server is hosting. The endpoint only answers loopback callers.
func stateCmd(args []string) {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	_ = fs.Parse(args)

	lm, err := fetchLiveMatch(&http.Client{Timeout: 5 * time.Second}, *baseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "state:", err)
		os.Exit(1)
	}
	fmt.Print(formatLiveMatch(lm))
}

func fetchLiveMatch(cl *http.Client, baseURL string) (liveMatch, error) {
	var lm liveMatch
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/admin/v1/match"
	resp, err := cl.Get(u)
	if err != nil {
		return lm, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return lm, fmt.Errorf("%s: %s", u, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&lm); err != nil {
		return lm, fmt.Errorf("%s: %w", u, err)
	}
	return lm, nil
}

func formatLiveMatch(lm liveMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "match\t%s\n", lm.MatchID)
	fmt.Fprintf(&b, "seed\t%d\n", lm.Seed)
	fmt.Fprintf(&b, "seats\t%d/%d attached\n", lm.Metrics.Clients, lm.NumPlayers)
	fmt.Fprintf(&b, "seq\t%d (%d rejected)\n", lm.Metrics.Seq, lm.Metrics.Rejected)
	fmt.Fprintf(&b, "inbox\t%d queued\n", lm.Metrics.InboxDepth)
	return b.String()
}
