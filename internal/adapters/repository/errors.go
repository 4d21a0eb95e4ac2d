package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("chart not found")
	ErrInvalidLimit      = errors.New("invalid list limit")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)
