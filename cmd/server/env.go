package main

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// serverEnv holds deployment overrides. Flags win when both are given.
type serverEnv struct {
	Addr       string `env:"HEXSETTLERS_ADDR"`
	DataDir    string `env:"HEXSETTLERS_DATA_DIR"`
	ConfigDir  string `env:"HEXSETTLERS_CONFIG_DIR"`
	MatchID    string `env:"HEXSETTLERS_MATCH_ID"`
	Seed       int64  `env:"HEXSETTLERS_SEED"`
	NumPlayers int    `env:"HEXSETTLERS_NUM_PLAYERS"`

	IndexBackend    string `env:"HEXSETTLERS_INDEX_BACKEND" envDefault:"sqlite"`
	DeployEnv       string `env:"DEPLOY_ENV" envDefault:"dev"`
	EnableAdminHTTP *bool  `env:"HEXSETTLERS_ENABLE_ADMIN_HTTP"`
}

func parseEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.IndexBackend = strings.ToLower(strings.TrimSpace(cfg.IndexBackend))
	return cfg, nil
}

// adminHTTPEnabled defaults to on outside staging and production.
func (e serverEnv) adminHTTPEnabled() bool {
	if e.EnableAdminHTTP != nil {
		return *e.EnableAdminHTTP
	}
	switch strings.ToLower(strings.TrimSpace(e.DeployEnv)) {
	case "staging", "production":
		return false
	default:
		return true
	}
}
