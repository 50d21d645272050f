package main

import "testing"

func TestParseEnv(t *testing.T) {
	t.Setenv("HEXSETTLERS_ADDR", ":9999")
	t.Setenv("HEXSETTLERS_INDEX_BACKEND", " None ")
	t.Setenv("HEXSETTLERS_NUM_PLAYERS", "3")
	t.Setenv("DEPLOY_ENV", "production")

	cfg, err := parseEnv()
	if err != nil {
		t.Fatalf("parseEnv: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.IndexBackend != "none" || cfg.NumPlayers != 3 {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.adminHTTPEnabled() {
		t.Fatalf("admin http must default off in production")
	}

	t.Setenv("HEXSETTLERS_ENABLE_ADMIN_HTTP", "true")
	cfg, err = parseEnv()
	if err != nil {
		t.Fatalf("parseEnv: %v", err)
	}
	if !cfg.adminHTTPEnabled() {
		t.Fatalf("explicit override ignored")
	}
}

func TestParseEnv_BadNumber(t *testing.T) {
	t.Setenv("HEXSETTLERS_SEED", "not-a-number")
	if _, err := parseEnv(); err == nil {
		t.Fatalf("expected error")
	}
}
