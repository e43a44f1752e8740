package app

import (
	"context"
	"testing"
	"time"

	"circletrust/backend/internal/config"
	"circletrust/backend/internal/models"
	"circletrust/backend/internal/snapshot"
	"circletrust/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(driver, dsn string) *config.Config {
	return &config.Config{
		DatabaseDriver:   driver,
		DatabaseURL:      dsn,
		MaxDepth:         3,
		InvalidationMode: "eager",
		ServeStale:       false,
		RefreshTimeout:   time.Second,
		RefreshWorkers:   2,
		RefreshBatchSize: 10,
		SnapshotShards:   4,
		ScoreEpoch:       time.Hour,
		ChurnWindow:      48 * time.Hour,
	}
}

func TestSnapshotConfig(t *testing.T) {
	got := SnapshotConfig(testConfig(config.DriverMemory, ""))
	assert.Equal(t, 3, got.MaxDepth)
	assert.Equal(t, snapshot.InvalidateEager, got.Invalidation)
	assert.False(t, got.ServeStale)
	assert.Equal(t, 2, got.Workers)
	assert.Equal(t, 48*time.Hour, got.Scoring.ChurnWindow)
}

func TestOpenStore(t *testing.T) {
	s, err := OpenStore(testConfig(config.DriverMemory, ""))
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	s, err = OpenStore(testConfig(config.DriverSQLite, "file:app_test?mode=memory&cache=shared"))
	require.NoError(t, err)
	assert.IsType(t, &store.GormStore{}, s)

	_, err = OpenStore(testConfig("mysql", ""))
	assert.Error(t, err)
}

func TestNewOrchestratorServesReads(t *testing.T) {
	o, err := NewOrchestrator(testConfig(config.DriverMemory, ""), zap.NewNop(), nil)
	require.NoError(t, err)
	t.Cleanup(o.Close)

	_, err = o.UpsertEdge(context.Background(), "u", "a", models.TierPeoples)
	require.NoError(t, err)
	view, _, err := o.DepthLayer(context.Background(), "u", 1, snapshot.ReadCached)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, view.Nodes)
}
