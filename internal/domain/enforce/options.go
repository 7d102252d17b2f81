package enforce

import (
	"time"

	"github.com/squadgate/gatekeeper/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithThreshold sets the score below which enforcement is attempted.
func WithThreshold(threshold int) Option {
	return func(o *Orchestrator) {
		o.threshold = threshold
	}
}

// WithWindowLimit caps ban actions per rate window.
func WithWindowLimit(limit int) Option {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.window.limit = limit
		}
	}
}

// WithWindowDuration sets the rate window duration.
func WithWindowDuration(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.window.duration = d
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}
