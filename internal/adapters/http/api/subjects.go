package api

import (
	"net/http"

	"github.com/okian/saju/internal/domain/model"
)

// SubjectsHandler accepts subjects for background ingestion.
type SubjectsHandler struct {
	deps Dependencies
}

// NewSubjectsHandler creates a new subjects handler.
func NewSubjectsHandler(deps Dependencies) *SubjectsHandler {
	return &SubjectsHandler{deps: deps}
}

type ackResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostSubject handles POST /subjects requests.
func (h *SubjectsHandler) HandlePostSubject(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_subject"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var subj model.Subject
	if err := decodeJSON(w, r, &subj); err != nil {
		writeError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}

	dup, err := h.deps.Submit(r.Context(), subj, nil)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", ID: subj.ID(), Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: subj.ID()})
}
