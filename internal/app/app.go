// Package app assembles the engine from configuration. The server and the
// CLI share it so both run against the same store and snapshot settings.
package app

import (
	"fmt"

	"circletrust/backend/internal/config"
	"circletrust/backend/internal/database"
	"circletrust/backend/internal/metrics"
	"circletrust/backend/internal/scoring"
	"circletrust/backend/internal/snapshot"
	"circletrust/backend/internal/store"

	"go.uber.org/zap"
)

// OpenStore returns the edge store selected by DATABASE_DRIVER.
func OpenStore(cfg *config.Config) (store.EdgeStore, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
}

// SnapshotConfig maps application settings onto the orchestrator.
func SnapshotConfig(cfg *config.Config) snapshot.Config {
	scoringCfg := scoring.DefaultConfig()
	scoringCfg.ChurnWindow = cfg.ChurnWindow

	return snapshot.Config{
		MaxDepth:       cfg.MaxDepth,
		Invalidation:   snapshot.InvalidationMode(cfg.InvalidationMode),
		ServeStale:     cfg.ServeStale,
		RefreshTimeout: cfg.RefreshTimeout,
		Workers:        cfg.RefreshWorkers,
		BatchSize:      cfg.RefreshBatchSize,
		Shards:         cfg.SnapshotShards,
		ScoreEpoch:     cfg.ScoreEpoch,
		Scoring:        scoringCfg,
	}
}

// NewOrchestrator opens the store and builds the orchestrator over it.
func NewOrchestrator(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector) (*snapshot.Orchestrator, error) {
	s, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	return snapshot.New(s, SnapshotConfig(cfg),
		snapshot.WithLogger(logger),
		snapshot.WithMetrics(collector),
	), nil
}
