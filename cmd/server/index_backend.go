package main

import (
	"fmt"
	"path/filepath"

	"hexsettlers/internal/persistence/indexdb"
	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/tuning"
)

type runtimeIndex interface {
	Close() error
	Stats() indexdb.QueueStats
	UpsertCatalogs(rules *catalogs.Rules, tune tuning.Tuning) error
	RecordMatch(row indexdb.MatchRow)
	RecordSnapshot(path string, snap snapshot.MatchV1)
	RecordResult(matchID string, winner int)
	Match(matchID string) *indexdb.Recorder
}

// openRuntimeIndex returns nil when indexing is off.
func openRuntimeIndex(dataDir, backend string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}
	switch backend {
	case "", "sqlite":
		return indexdb.OpenSQLite(filepath.Join(dataDir, "index", "matches.sqlite"))
	case "none", "off", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported HEXSETTLERS_INDEX_BACKEND: %s", backend)
	}
}
