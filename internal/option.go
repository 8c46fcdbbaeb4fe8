package internal

import (
	"io"
	"time"

	"github.com/starford/satcat/internal/orbit"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	out        io.Writer
	now        func() time.Time
	propagator orbit.Propagator
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where command results are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithClock overrides the clock used for ingestion stamps and default
// query times.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}

// WithPropagator replaces the SGP4 propagator built from the configuration.
func WithPropagator(p orbit.Propagator) Option {
	return func(a *application) {
		a.propagator = p
	}
}
