package repository

import (
	"github.com/okian/saju/pkg/logger"
)

// settings is shared by both store implementations.
type settings struct {
	logger logger.Logger
	table  string
}

func newSettings(opts []Option) settings {
	s := settings{table: "celebrities"}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("store")
	}
	return s
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTable sets the SQL table name. It is ignored by the memory store.
func WithTable(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.table = name
		}
	}
}
