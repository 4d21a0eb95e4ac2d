package api

import (
	"net/http"
	"strings"
)

// SajuHandler computes charts on request.
type SajuHandler struct {
	deps Dependencies
}

// NewSajuHandler creates a new chart handler.
func NewSajuHandler(deps Dependencies) *SajuHandler {
	return &SajuHandler{deps: deps}
}

type sajuRequest struct {
	BirthDate string `json:"birth_date"`
	BirthTime string `json:"birth_time"`
}

// HandleCalculate handles POST /saju requests. It also accepts GET with
// birth_date and birth_time query parameters.
func (h *SajuHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate"
	var req sajuRequest
	switch r.Method {
	case http.MethodPost:
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.BirthDate, req.BirthTime = q.Get("birth_date"), q.Get("birth_time")
	default:
		http.NotFound(w, r)
		return
	}
	if strings.TrimSpace(req.BirthDate) == "" {
		writeError(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}

	res, err := h.deps.Calculate(r.Context(), req.BirthDate, req.BirthTime)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
