package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	// SQL drivers, registered for OpenSQL.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/pkg/logger"
	"github.com/okian/saju/pkg/metrics"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore keeps charts in a database/sql table. Timestamps are stored as
// RFC 3339 text so every dialect round-trips them the same way.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	table   string
	logger  logger.Logger

	upsertSQL string
	getSQL    string
	listSQL   string
	countSQL  string
}

// OpenSQL connects with driver and dsn and creates the table if needed.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, ErrUnsupportedDriver
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s store: empty dsn", driver)
	}
	s := newSettings(opts)
	if !tableName.MatchString(s.table) {
		return nil, fmt.Errorf("invalid table name %q", s.table)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer at a time; sqlite serialises writes anyway.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting %s store: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, d.createTable(s.table)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	st := &SQLStore{
		db:        db,
		dialect:   d,
		table:     s.table,
		logger:    s.logger.Named(driver),
		upsertSQL: d.upsert(s.table),
		getSQL:    d.selectByID(s.table),
		listSQL:   d.selectList(s.table),
		countSQL:  d.count(s.table),
	}
	st.logger.Info(ctx, "chart store ready", logger.String("table", s.table))
	return st, nil
}

// Upsert inserts or replaces c.
func (s *SQLStore) Upsert(ctx context.Context, c model.Chart) error { //nolint:gocritic // hugeParam: charts are values
	start := time.Now()
	defer func() { metrics.RecordStoreUpsertLatency(sinceMs(start)) }()

	_, err := s.db.ExecContext(ctx, s.upsertSQL,
		c.ID, c.Name, c.NameEn, c.RealName, c.BirthDate, c.BirthTime, c.BirthPlace,
		c.Gender, c.Category,
		c.YearPillar, c.MonthPillar, c.DayPillar, c.HourPillar, c.SajuString,
		c.WoodCount, c.FireCount, c.EarthCount, c.MetalCount, c.WaterCount,
		c.DominantElement, string(c.FullSajuData), c.DataSource,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		metrics.RecordStoreError("upsert")
		return fmt.Errorf("upsert chart %s: %w", c.ID, err)
	}
	return nil
}

// Get returns the chart with id.
func (s *SQLStore) Get(ctx context.Context, id string) (model.Chart, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(sinceMs(start)) }()

	c, err := scanChart(s.db.QueryRowContext(ctx, s.getSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("store", "not_found")
		return model.Chart{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError("get")
		return model.Chart{}, fmt.Errorf("get chart %s: %w", id, err)
	}
	return c, nil
}

// List returns up to limit charts ordered by id.
func (s *SQLStore) List(ctx context.Context, limit int) ([]model.Chart, error) {
	if limit <= 0 {
		metrics.RecordErrorByComponent("store", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(sinceMs(start)) }()

	rows, err := s.db.QueryContext(ctx, s.listSQL, limit)
	if err != nil {
		metrics.RecordStoreError("list")
		return nil, fmt.Errorf("list charts: %w", err)
	}
	defer rows.Close()

	var out []model.Chart
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			metrics.RecordStoreError("list")
			return nil, fmt.Errorf("list charts: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError("list")
		return nil, fmt.Errorf("list charts: %w", err)
	}
	return out, nil
}

// Count returns the number of stored charts.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.countSQL).Scan(&n); err != nil {
		metrics.RecordStoreError("count")
		return 0, fmt.Errorf("count charts: %w", err)
	}
	metrics.UpdateStoreRecords(n)
	return n, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChart(row scanner) (model.Chart, error) {
	var (
		c                model.Chart
		full             string
		created, updated string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.NameEn, &c.RealName, &c.BirthDate, &c.BirthTime, &c.BirthPlace,
		&c.Gender, &c.Category,
		&c.YearPillar, &c.MonthPillar, &c.DayPillar, &c.HourPillar, &c.SajuString,
		&c.WoodCount, &c.FireCount, &c.EarthCount, &c.MetalCount, &c.WaterCount,
		&c.DominantElement, &full, &c.DataSource, &created, &updated,
	)
	if err != nil {
		return model.Chart{}, err
	}
	c.FullSajuData = []byte(full)
	if c.CreatedAt, err = parseTime(created); err != nil {
		return model.Chart{}, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Chart{}, err
	}
	return c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
