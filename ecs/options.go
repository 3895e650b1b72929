package ecs

import (
	"os"

	"github.com/rs/zerolog"
)

// Option configures a Registry at construction time.
type Option func(r *Registry)

// WithLogger sets the logger used for registry events. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithPrettyLog logs human readable output to stderr.
func WithPrettyLog() Option {
	return func(r *Registry) {
		r.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
}

// WithEntityCapacity preallocates bookkeeping for n entities.
func WithEntityCapacity(n int) Option {
	return func(r *Registry) {
		r.entities = make([]Entity, 0, n)
	}
}
