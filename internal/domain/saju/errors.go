package saju

import (
	"errors"
	"fmt"
)

// ErrInvalidDate is the sentinel every *InvalidDateError matches via errors.Is.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports a birth date that cannot be turned into a calendar day.
type InvalidDateError struct {
	Input  string
	Reason string
	Err    error
}

func (e *InvalidDateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("invalid date %q", e.Input)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidDateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidDate) match without exposing the cause.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

func invalidDate(input, reason string, err error) error {
	return &InvalidDateError{Input: input, Reason: reason, Err: err}
}
