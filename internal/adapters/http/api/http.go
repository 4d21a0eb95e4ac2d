// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/internal/domain/saju"
	"github.com/okian/saju/pkg/logger"
)

// Dependencies required by HTTP handlers. internal/app's Service implements
// it; tests substitute fakes.
type Dependencies interface {
	Calculate(ctx context.Context, birthDate, birthTime string) (saju.Result, error)

	// Submit queues a subject for ingestion. duplicate reports a subject
	// already in flight.
	Submit(ctx context.Context, subj model.Subject, done func(model.Outcome)) (duplicate bool, err error)

	Chart(ctx context.Context, id string) (model.Chart, error)
	Charts(ctx context.Context, limit int) ([]model.Chart, error)
}

// DefaultListLimit is used when GET /charts has no limit parameter.
const DefaultListLimit = 50

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sajuHandler     *SajuHandler
	subjectsHandler *SubjectsHandler
	chartsHandler   *ChartsHandler
}

// NewServer creates a new API server with all handlers. maxListLimit caps
// the limit accepted by GET /charts.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxListLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sajuHandler:     NewSajuHandler(deps),
		subjectsHandler: NewSubjectsHandler(deps),
		chartsHandler:   NewChartsHandler(deps, maxListLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/saju", MetricsMiddleware(s.sajuHandler.HandleCalculate, "saju"))
	mux.HandleFunc("/subjects", MetricsMiddleware(s.subjectsHandler.HandlePostSubject, "subjects"))
	mux.HandleFunc("/charts", MetricsMiddleware(s.chartsHandler.HandleList, "charts"))
	mux.HandleFunc("/charts/", MetricsMiddleware(s.chartsHandler.HandleGet, "chart"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(ctx, "request failed", logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// decodeJSON reads a single JSON object of at most 1 MiB from r.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}
