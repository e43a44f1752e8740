package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", DriverMemory)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, "lazy", cfg.InvalidationMode)
	assert.True(t, cfg.ServeStale)
	assert.Equal(t, 10*time.Second, cfg.RefreshTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ScoreEpoch)
	assert.Equal(t, 720*time.Hour, cfg.ChurnWindow)
	assert.Equal(t, 8, cfg.RefreshWorkers)
}

func TestLoadEnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	env := "DATABASE_DRIVER=sqlite\nDATABASE_URL=file:circle.db\nMAX_DEPTH=3\nSERVE_STALE=false\nREFRESH_TIMEOUT=3s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Setenv("INVALIDATION_MODE", "eager")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "file:circle.db", cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.False(t, cfg.ServeStale)
	assert.Equal(t, 3*time.Second, cfg.RefreshTimeout)
	assert.Equal(t, "eager", cfg.InvalidationMode)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabaseDriver:   DriverMemory,
			LogFormat:        "json",
			MaxDepth:         4,
			InvalidationMode: "lazy",
			RefreshTimeout:   time.Second,
			ScoreEpoch:       time.Hour,
			ChurnWindow:      time.Hour,
			RefreshWorkers:   1,
			RefreshBatchSize: 1,
			SnapshotShards:   1,
		}
	}
	base := valid()
	require.NoError(t, base.Validate())

	cases := map[string]func(*Config){
		"unknown driver":   func(c *Config) { c.DatabaseDriver = "mysql" },
		"missing dsn":      func(c *Config) { c.DatabaseDriver = DriverPostgres },
		"depth too deep":   func(c *Config) { c.MaxDepth = 5 },
		"depth zero":       func(c *Config) { c.MaxDepth = 0 },
		"unknown mode":     func(c *Config) { c.InvalidationMode = "sometimes" },
		"unknown format":   func(c *Config) { c.LogFormat = "xml" },
		"no workers":       func(c *Config) { c.RefreshWorkers = 0 },
		"negative timeout": func(c *Config) { c.RefreshTimeout = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
