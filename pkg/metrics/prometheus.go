// Package metrics provides Prometheus metrics for the saju service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector the service records into.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Engine
	chartsComputed    prometheus.Counter
	computeLatency    prometheus.Histogram
	chartsWithoutHour prometheus.Counter
	invalidDates      prometheus.Counter
	dominantElement   *prometheus.CounterVec

	// Ingestion
	ingestOutcomes *prometheus.CounterVec

	// Store
	storeUpsertLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram
	storeErrors        *prometheus.CounterVec
	storeRecords       prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "saju",
		subsystem:        "engine",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.chartsComputed = m.counter("charts_computed_total", "Total number of charts computed")
	m.computeLatency = m.histogram("compute_latency_milliseconds", "Chart computation latency in milliseconds")
	m.chartsWithoutHour = m.counter("charts_without_hour_total", "Charts computed without an hour pillar")
	m.invalidDates = m.counter("invalid_dates_total", "Birth dates rejected as invalid")
	m.dominantElement = m.counterVec("dominant_element_total", "Computed charts by dominant element", "element")

	m.ingestOutcomes = m.counterVec("ingest_outcomes_total", "Ingested subjects by outcome", "outcome")

	m.storeUpsertLatency = m.histogram("store_upsert_latency_milliseconds", "Chart store upsert latency in milliseconds")
	m.storeQueryLatency = m.histogram("store_query_latency_milliseconds", "Chart store read latency in milliseconds")
	m.storeErrors = m.counterVec("store_errors_total", "Chart store errors by operation", "operation")
	m.storeRecords = m.gauge("store_records", "Number of charts held by the store")

	m.queueSize = m.gauge("queue_size", "Current number of queued ingestion jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Ingestion queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Jobs accepted by the ingestion queue")
	m.queueDequeued = m.counter("queue_dequeue_total", "Jobs taken from the ingestion queue")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Jobs rejected by the ingestion queue")

	m.workerCount = m.gauge("worker_count", "Configured ingestion workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently processing a job")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Per-job processing latency in milliseconds")
	m.workerErrors = m.counter("worker_errors_total", "Jobs that finished with an error")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// Engine.

// RecordChartComputed records one computed chart and its latency.
func RecordChartComputed(latencyMs float64, dominant string, hasHour bool) {
	globalManager.chartsComputed.Inc()
	globalManager.computeLatency.Observe(latencyMs)
	globalManager.dominantElement.WithLabelValues(dominant).Inc()
	if !hasHour {
		globalManager.chartsWithoutHour.Inc()
	}
}

// RecordInvalidDate increments the invalid date counter.
func RecordInvalidDate() {
	globalManager.invalidDates.Inc()
}

// Ingestion.

// Ingestion outcome labels.
const (
	OutcomeStored    = "stored"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
)

// RecordIngestOutcome counts one subject under outcome.
func RecordIngestOutcome(outcome string) {
	globalManager.ingestOutcomes.WithLabelValues(outcome).Inc()
}

// Store.

// RecordStoreUpsertLatency records a store write in milliseconds.
func RecordStoreUpsertLatency(latencyMs float64) {
	globalManager.storeUpsertLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records a store read in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

// UpdateStoreRecords sets the number of stored charts.
func UpdateStoreRecords(count int) {
	globalManager.storeRecords.Set(float64(count))
}

// Queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a job handed to a worker.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Workers.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records one job's processing time.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a job that finished with an error.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
