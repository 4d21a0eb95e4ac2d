package api

import (
	"errors"
	"net/http"

	"github.com/okian/saju/internal/adapters/repository"
	service "github.com/okian/saju/internal/app"
	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/internal/domain/saju"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal error")
)

// OpError records the handler that failed, the kind of failure and its cause.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &OpError{Op: op, Kind: kind}
}

// WrapKind wraps err as an error of kind raised by op.
func WrapKind(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// Wrap classifies err by the sentinel errors of the layers below and wraps it.
func Wrap(op string, err error) error {
	var kind error
	switch {
	case errors.Is(err, saju.ErrInvalidDate),
		errors.Is(err, model.ErrInvalidSubject),
		errors.Is(err, repository.ErrInvalidLimit):
		kind = ErrBadRequest
	case errors.Is(err, repository.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, service.ErrBackpressure):
		kind = ErrBackpressure
	case errors.Is(err, service.ErrNotStarted):
		kind = ErrUnavailable
	default:
		kind = ErrInternal
	}
	return WrapKind(op, kind, err)
}

// statusOf maps an error to its HTTP status and response code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		if errors.Is(err, saju.ErrInvalidDate) {
			return http.StatusBadRequest, "invalid_date"
		}
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
