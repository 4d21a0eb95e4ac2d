// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/saju/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory ingestion queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the set of subjects tracked as in flight.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxListLimit caps GET /charts?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// StoreDriver is one of memory, sqlite, postgres, mysql.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is passed to database/sql for the SQL drivers.
	StoreDSN string `koanf:"store_dsn"`

	IngestTimeoutSec   int `koanf:"ingest_timeout_sec"`
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU(),
		DedupeSize:         50_000,
		MaxListLimit:       500,
		StoreDriver:        repository.DriverMemory,
		IngestTimeoutSec:   600,
		ShutdownTimeoutSec: 30,
	}
}

// IngestTimeout bounds one batch ingestion run.
func (c *Config) IngestTimeout() time.Duration {
	return time.Duration(c.IngestTimeoutSec) * time.Second
}

// ShutdownTimeout bounds graceful shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// Validate reports the first invalid setting as an ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize < 1:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.MaxListLimit < 1:
		return fmt.Errorf("%w: max_list_limit must be positive", ErrInvalidConfig)
	case c.IngestTimeoutSec < 1 || c.ShutdownTimeoutSec < 1:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}

	switch c.StoreDriver {
	case "", repository.DriverMemory:
	case repository.DriverSQLite, repository.DriverPostgres, repository.DriverMySQL:
		if strings.TrimSpace(c.StoreDSN) == "" {
			return fmt.Errorf("%w: store_dsn is required for %s", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}
