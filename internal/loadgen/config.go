// Package loadgen drives a running saju server with generated birth data and
// checks every returned chart against the engine invariants.
package loadgen

import (
	"errors"
	"time"
)

// ErrViolations is returned by Run when any response breaks an invariant.
var ErrViolations = errors.New("chart invariant violations")

// Config holds configuration for a load run.
type Config struct {
	BaseURL string        // Base URL of the service
	Count   int           // Number of requests to send
	Workers int           // Number of concurrent requests
	Timeout time.Duration // HTTP request timeout
	Seed    uint64        // Seed for the generated dates; equal seeds give equal runs

	MinYear int // First birth year generated
	MaxYear int // Last birth year generated

	// Subjects posts generated subjects to /subjects instead of computing
	// charts through /saju.
	Subjects bool
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Count < 1 {
		c.Count = 1000
	}
	if c.Workers < 1 {
		c.Workers = 16
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MinYear == 0 && c.MaxYear == 0 {
		c.MinYear, c.MaxYear = 1900, 2100
	}
	if c.MaxYear < c.MinYear {
		c.MinYear, c.MaxYear = c.MaxYear, c.MinYear
	}
	return c
}

// Stats summarises a load run.
type Stats struct {
	Sent       int           `json:"sent"`
	Succeeded  int           `json:"succeeded"`
	Duplicate  int           `json:"duplicate"`
	Failed     int           `json:"failed"`
	Violations []string      `json:"violations,omitempty"`
	Duration   time.Duration `json:"duration"`
}
