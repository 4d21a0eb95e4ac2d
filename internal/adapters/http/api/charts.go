package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ChartsHandler serves stored charts.
type ChartsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewChartsHandler creates a new charts handler. A maxLimit below 1 means
// DefaultListLimit.
func NewChartsHandler(deps Dependencies, maxLimit int) *ChartsHandler {
	if maxLimit < 1 {
		maxLimit = DefaultListLimit
	}
	return &ChartsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleList handles GET /charts?limit=N requests.
func (h *ChartsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_charts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := min(DefaultListLimit, h.maxLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(r.Context(), w, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid limit %q", raw)))
			return
		}
		limit = min(n, h.maxLimit)
	}

	charts, err := h.deps.Charts(r.Context(), limit)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, charts)
}

// HandleGet handles GET /charts/{id} requests.
func (h *ChartsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chart"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Ids embed the raw birth date, so they may contain slashes; the decoded
	// path covers both kim_2000/03/15 and kim_2000%2F03%2F15.
	id := strings.TrimPrefix(r.URL.Path, "/charts/")
	if id == "" {
		writeError(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}

	c, err := h.deps.Chart(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
