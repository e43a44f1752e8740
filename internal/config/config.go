package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds the application configuration.
type Config struct {
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	MaxDepth         int           `mapstructure:"MAX_DEPTH"`
	InvalidationMode string        `mapstructure:"INVALIDATION_MODE"`
	ServeStale       bool          `mapstructure:"SERVE_STALE"`
	RefreshTimeout   time.Duration `mapstructure:"REFRESH_TIMEOUT"`
	RefreshWorkers   int           `mapstructure:"REFRESH_WORKERS"`
	RefreshBatchSize int           `mapstructure:"REFRESH_BATCH_SIZE"`
	SnapshotShards   int           `mapstructure:"SNAPSHOT_SHARDS"`
	ScoreEpoch       time.Duration `mapstructure:"SCORE_EPOCH"`
	ChurnWindow      time.Duration `mapstructure:"CHURN_WINDOW"`

	ProfileServiceURL string        `mapstructure:"PROFILE_SERVICE_URL"`
	ProfileTimeout    time.Duration `mapstructure:"PROFILE_TIMEOUT"`
}

var AppConfig *Config

var defaults = map[string]any{
	"HTTP_ADDR":           ":8080",
	"DATABASE_DRIVER":     DriverPostgres,
	"DATABASE_URL":        "",
	"JWT_SECRET":          "",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"MAX_DEPTH":           4,
	"INVALIDATION_MODE":   "lazy",
	"SERVE_STALE":         true,
	"REFRESH_TIMEOUT":     "10s",
	"REFRESH_WORKERS":     8,
	"REFRESH_BATCH_SIZE":  500,
	"SNAPSHOT_SHARDS":     32,
	"SCORE_EPOCH":         "24h",
	"CHURN_WINDOW":        "720h",
	"PROFILE_SERVICE_URL": "",
	"PROFILE_TIMEOUT":     "2s",
}

// LoadConfig loads the configuration from a .env file in the working
// directory and environment variables, and stores it in AppConfig.
func LoadConfig() (*Config, error) {
	cfg, err := Load(".")
	if err != nil {
		return nil, err
	}
	AppConfig = cfg
	return cfg, nil
}

// Load reads <dir>/.env (optional) overlaid by the environment.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %q", c.DatabaseDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.InvalidationMode {
	case "lazy", "eager":
	default:
		return fmt.Errorf("unknown INVALIDATION_MODE %q", c.InvalidationMode)
	}
	if c.MaxDepth < 1 || c.MaxDepth > 4 {
		return fmt.Errorf("MAX_DEPTH must be between 1 and 4, got %d", c.MaxDepth)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	if c.RefreshTimeout <= 0 || c.ScoreEpoch <= 0 || c.ChurnWindow <= 0 {
		return errors.New("REFRESH_TIMEOUT, SCORE_EPOCH and CHURN_WINDOW must be positive")
	}
	if c.RefreshWorkers < 1 || c.RefreshBatchSize < 1 || c.SnapshotShards < 1 {
		return errors.New("REFRESH_WORKERS, REFRESH_BATCH_SIZE and SNAPSHOT_SHARDS must be at least 1")
	}
	return nil
}
