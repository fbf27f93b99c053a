// Package config assembles the application configuration from defaults, an
// optional YAML file and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/advisorhq/advisor-crm/internal/middleware"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// Storage backend names accepted in configuration.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig               `yaml:"server"`
	Storage   StorageConfig              `yaml:"storage"`
	Logging   logger.LoggingConfig       `yaml:"logging"`
	RateLimit middleware.RateLimitConfig `yaml:"rate_limit"`
	Insights  InsightsConfig             `yaml:"insights"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND"`
	// Seed populates the memory backend with the demo dataset.
	Seed     bool           `yaml:"seed" env:"STORAGE_SEED"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds connection settings for the postgres backend.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn" env:"POSTGRES_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"POSTGRES_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"POSTGRES_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"POSTGRES_CONN_MAX_LIFETIME"`
	Migrate         bool          `yaml:"migrate" env:"POSTGRES_MIGRATE"`
}

// InsightsConfig controls the metric snapshot recorder.
type InsightsConfig struct {
	// Schedule is a cron expression; empty disables the recorder.
	Schedule string `yaml:"schedule" env:"INSIGHTS_SCHEDULE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Seed:    true,
			Postgres: PostgresConfig{
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: 30 * time.Minute,
				Migrate:         true,
			},
		},
		Logging: logger.LoggingConfig{
			Level:   "info",
			Format:  "json",
			Output:  "stdout",
			Service: "advisor-crm",
		},
		RateLimit: middleware.DefaultRateLimitConfig(),
		Insights: InsightsConfig{
			Schedule: "@hourly",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variable overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// envdecode reports when no tagged variable is set; that just means
	// there was nothing to override.
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendPostgres && c.Storage.Postgres.DSN == "" {
		return errors.New("postgres backend requires a DSN")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
