// Package service wires the chart engine to the ingestion pipeline and the
// chart store. It implements the dependencies required by the HTTP API and
// the command line tools.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/saju/internal/adapters/mq/queue"
	"github.com/okian/saju/internal/adapters/mq/worker"
	"github.com/okian/saju/internal/adapters/repository"
	"github.com/okian/saju/internal/domain/dedupe"
	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/internal/domain/saju"
	"github.com/okian/saju/pkg/logger"
	"github.com/okian/saju/pkg/metrics"
)

// retryInterval is how long Ingest waits before retrying a full queue.
const retryInterval = 5 * time.Millisecond

// Service computes charts on demand and ingests subjects in the background.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	ownsStore bool
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	pool      *worker.Pool

	workerCount  int
	queueSize    int
	dedupeSize   int
	drainTimeout time.Duration
	now          func() time.Time

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Without WithStore it uses a private memory store.
// The global logger must be initialised unless WithLogger is given.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    10000,
		dedupeSize:   50000,
		drainTimeout: 30 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start creates the queue and starts the worker pool. The pool outlives ctx
// and runs until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.ownsStore = true
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "saju service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the queue, stops the workers and closes a store the service
// created itself. Submissions are rejected from the moment Stop is called.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool, q, cancelRun := s.pool, s.queue, s.cancel
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping saju service", logger.Int("queued", q.Len(ctx)))
	// Workers still read the store while draining, so no lock is held here.
	if err := pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	cancelRun()

	s.mu.Lock()
	if s.ownsStore {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "closing store", logger.Error(err))
		}
		s.store = nil
		s.ownsStore = false
	}
	s.mu.Unlock()
	s.logger.Info(ctx, "saju service stopped")
}

// Calculate parses birthDate and computes the chart. An unreadable date is
// a *saju.InvalidDateError; an unreadable time only drops the hour pillar.
func (s *Service) Calculate(ctx context.Context, birthDate, birthTime string) (saju.Result, error) {
	start := time.Now()
	r, err := saju.CalculateString(birthDate, birthTime)
	if err != nil {
		metrics.RecordInvalidDate()
		return saju.Result{}, err
	}
	metrics.RecordChartComputed(float64(time.Since(start).Microseconds())/1000, r.Dominant.Label(), r.HasHour())
	s.logger.Debug(ctx, "chart computed",
		logger.String("birth_date", birthDate),
		logger.String("saju", r.Saju),
	)
	return r, nil
}

// Process computes and stores the chart for one subject. Workers call it
// for every dequeued job.
func (s *Service) Process(ctx context.Context, subj model.Subject) (model.Chart, error) {
	if err := subj.Validate(); err != nil {
		return model.Chart{}, err
	}
	r, err := s.Calculate(ctx, subj.BirthDate, subj.BirthTime)
	if err != nil {
		return model.Chart{}, err
	}
	c, err := model.NewChart(subj, r, s.now())
	if err != nil {
		return model.Chart{}, err
	}

	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	if st == nil {
		return model.Chart{}, ErrNotStarted
	}
	if err := st.Upsert(ctx, c); err != nil {
		return model.Chart{}, fmt.Errorf("storing chart: %w", err)
	}
	return c, nil
}

// Submit queues subj for ingestion. duplicate is true when the same subject
// is already in flight; nothing is queued then. done, if not nil, receives
// the job's outcome.
func (s *Service) Submit(ctx context.Context, subj model.Subject, done func(model.Outcome)) (duplicate bool, err error) {
	if err := subj.Validate(); err != nil {
		metrics.RecordIngestOutcome(metrics.OutcomeInvalid)
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false, ErrNotStarted
	}

	id := subj.ID()
	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordIngestOutcome(metrics.OutcomeDuplicate)
		s.logger.Debug(ctx, "subject already in flight", logger.String("id", id))
		return true, nil
	}

	dd := s.deduper
	job := model.Job{ID: id, Subject: subj, Done: func(o model.Outcome) {
		dd.Unrecord(context.Background(), id)
		if o.Err != nil {
			metrics.RecordIngestOutcome(metrics.OutcomeFailed)
		} else {
			metrics.RecordIngestOutcome(metrics.OutcomeStored)
		}
		if done != nil {
			done(o)
		}
	}}
	if !s.queue.Enqueue(ctx, job) {
		s.deduper.Unrecord(ctx, id)
		return false, ErrBackpressure
	}
	return false, nil
}

// Result is one stored subject in a Summary.
type Result struct {
	Name            string `json:"name"`
	Saju            string `json:"saju"`
	DominantElement string `json:"dominant_element"`
}

// Failure is one rejected subject in a Summary.
type Failure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Summary reports one Ingest run.
type Summary struct {
	RunID   string    `json:"run_id"`
	Total   int       `json:"total"`
	Stored  int       `json:"success"`
	Failed  int       `json:"failed"`
	Skipped int       `json:"skipped"`
	Results []Result  `json:"results"`
	Errors  []Failure `json:"errors"`
}

type slot struct {
	done    bool
	skipped bool
	outcome model.Outcome
}

// Ingest queues every subject and waits for all of them. A failing subject
// is listed in Errors and never stops the batch. When a subject id appears
// more than once only its last occurrence is stored; earlier ones count as
// Skipped. When ctx ends first the summary covers the subjects finished so
// far and ctx's error is returned.
func (s *Service) Ingest(ctx context.Context, subjects []model.Subject) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Total: len(subjects)}
	s.logger.Info(ctx, "ingestion started", logger.String("run_id", sum.RunID), logger.Int("total", len(subjects)))
	start := time.Now()

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		slots = make([]slot, len(subjects))
	)

	last := make(map[string]int, len(subjects))
	for i, subj := range subjects {
		last[subj.ID()] = i
	}

	var runErr error
submit:
	for i, subj := range subjects {
		if last[subj.ID()] != i {
			metrics.RecordIngestOutcome(metrics.OutcomeDuplicate)
			mu.Lock()
			slots[i] = slot{done: true, skipped: true}
			mu.Unlock()
			continue
		}
		wg.Add(1)
		done := func(o model.Outcome) {
			mu.Lock()
			slots[i] = slot{done: true, outcome: o}
			mu.Unlock()
			wg.Done()
		}
		for {
			dup, err := s.Submit(ctx, subj, done)
			if errors.Is(err, ErrBackpressure) {
				select {
				case <-ctx.Done():
					wg.Done()
					runErr = ctx.Err()
					break submit
				case <-time.After(retryInterval):
					continue
				}
			}
			if errors.Is(err, ErrNotStarted) {
				wg.Done()
				return sum, err
			}
			mu.Lock()
			switch {
			case err != nil:
				slots[i] = slot{done: true, outcome: model.Outcome{Err: err}}
			case dup:
				slots[i] = slot{done: true, skipped: true}
			}
			mu.Unlock()
			if err != nil || dup {
				wg.Done()
			}
			break
		}
	}

	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()
	if runErr == nil {
		select {
		case <-waited:
		case <-ctx.Done():
			runErr = ctx.Err()
		}
	}

	mu.Lock()
	for i, sl := range slots {
		if !sl.done {
			continue
		}
		name := subjects[i].Name
		switch {
		case sl.skipped:
			sum.Skipped++
		case sl.outcome.Err != nil:
			sum.Failed++
			sum.Errors = append(sum.Errors, Failure{Name: name, Error: sl.outcome.Err.Error()})
		default:
			sum.Stored++
			sum.Results = append(sum.Results, Result{
				Name:            name,
				Saju:            sl.outcome.Chart.SajuString,
				DominantElement: sl.outcome.Chart.DominantElement,
			})
		}
	}
	mu.Unlock()

	s.logger.Info(ctx, "ingestion finished",
		logger.String("run_id", sum.RunID),
		logger.Int("stored", sum.Stored),
		logger.Int("failed", sum.Failed),
		logger.Int("skipped", sum.Skipped),
		logger.Duration("took", time.Since(start)),
	)
	return sum, runErr
}

// Chart returns the stored chart with id.
func (s *Service) Chart(ctx context.Context, id string) (model.Chart, error) {
	st, err := s.currentStore()
	if err != nil {
		return model.Chart{}, err
	}
	return st.Get(ctx, id)
}

// Charts returns up to limit stored charts ordered by id.
func (s *Service) Charts(ctx context.Context, limit int) ([]model.Chart, error) {
	st, err := s.currentStore()
	if err != nil {
		return nil, err
	}
	return st.List(ctx, limit)
}

func (s *Service) currentStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["inFlight"] = s.deduper.Size()
		stats["activeWorkers"] = s.pool.Active()
		if n, err := s.store.Count(ctx); err == nil {
			stats["charts"] = n
			metrics.UpdateStoreRecords(n)
		}
	}
	return stats
}
