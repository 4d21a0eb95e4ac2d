// Package repository persists computed charts.
package repository

import (
	"context"

	"github.com/okian/saju/internal/domain/model"
)

// Store provides read/write access to stored charts.
type Store interface {
	// Upsert inserts c or replaces the chart with the same ID. The original
	// CreatedAt is kept on replace.
	Upsert(ctx context.Context, c model.Chart) error

	// Get returns the chart with id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.Chart, error)

	// List returns up to limit charts ordered by ID.
	List(ctx context.Context, limit int) ([]model.Chart, error)

	Count(ctx context.Context) (int, error)

	Close() error
}

// Supported driver names.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open returns the store for driver. The memory driver ignores dsn.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(opts...), nil
	case DriverSQLite, DriverPostgres, DriverMySQL:
		return OpenSQL(ctx, driver, dsn, opts...)
	default:
		return nil, ErrUnsupportedDriver
	}
}
