package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/pkg/metrics"
)

// MemoryStore keeps charts in a map. It is the default store and the one
// used by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	charts map[string]model.Chart
	s      settings
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		charts: make(map[string]model.Chart),
		s:      newSettings(opts),
	}
}

func (m *MemoryStore) Upsert(_ context.Context, c model.Chart) error { //nolint:gocritic // hugeParam: charts are values
	start := time.Now()
	defer func() { metrics.RecordStoreUpsertLatency(sinceMs(start)) }()

	m.mu.Lock()
	if old, ok := m.charts[c.ID]; ok {
		c.CreatedAt = old.CreatedAt
	}
	c.FullSajuData = append([]byte(nil), c.FullSajuData...)
	m.charts[c.ID] = c
	n := len(m.charts)
	m.mu.Unlock()

	metrics.UpdateStoreRecords(n)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (model.Chart, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(sinceMs(start)) }()

	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.charts[id]
	if !ok {
		metrics.RecordErrorByComponent("store", "not_found")
		return model.Chart{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]model.Chart, error) {
	if limit <= 0 {
		metrics.RecordErrorByComponent("store", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(sinceMs(start)) }()

	m.mu.RLock()
	ids := make([]string, 0, len(m.charts))
	for id := range m.charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]model.Chart, len(ids))
	for i, id := range ids {
		out[i] = m.charts[id]
	}
	m.mu.RUnlock()
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.charts), nil
}

func (m *MemoryStore) Close() error { return nil }

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
