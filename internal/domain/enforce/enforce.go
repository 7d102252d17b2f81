// Package enforce decides and issues rate-limited ban actions for
// low-trust identifiers.
package enforce

import (
	"context"
	"sync"
	"time"

	"github.com/squadgate/gatekeeper/internal/domain/model"
	"github.com/squadgate/gatekeeper/internal/domain/scoring"
	"github.com/squadgate/gatekeeper/pkg/logger"
	"github.com/squadgate/gatekeeper/pkg/metrics"
)

// Default enforcement configuration constants.
const (
	defaultThreshold      = 50
	defaultWindowLimit    = 12
	defaultWindowDuration = 25 * time.Minute
)

// Outcome is the result of an enforcement decision.
type Outcome int

const (
	// Skipped means the score met the threshold; no action considered.
	Skipped Outcome = iota
	// Banned means the enforcement service confirmed the ban.
	Banned
	// Failed means all ban attempts were exhausted without confirmation.
	Failed
	// RateLimited means the window was full; no request was issued.
	RateLimited
)

// String returns the lowercase outcome name for logs and metrics labels.
func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Banned:
		return "banned"
	case Failed:
		return "failed"
	case RateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Sender issues a single retryable ban action.
type Sender interface {
	SendBan(ctx context.Context, id model.Identifier) error
}

// Refresher refetches the remote whitelist after a confirmed ban, so an
// operator reacting to a false positive is honored on the next cycle.
type Refresher interface {
	RefreshRemote(ctx context.Context)
}

// window is the rolling rate-limit state. It resets lazily: the next action
// attempt that observes an elapsed duration zeroes the count.
type window struct {
	count    int
	start    time.Time
	limit    int
	duration time.Duration
}

// Orchestrator owns the rate window and turns low scores into ban actions.
// Consider is driven by the single poll loop; the mutex exists so WindowState
// can be read from the ops endpoint.
type Orchestrator struct {
	sender    Sender
	refresher Refresher
	threshold int

	mu     sync.Mutex
	window window

	now    func() time.Time
	logger logger.Logger
}

// New constructs an Orchestrator around the given sender and refresher.
func New(sender Sender, refresher Refresher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sender:    sender,
		refresher: refresher,
		threshold: defaultThreshold,
		window: window{
			limit:    defaultWindowLimit,
			duration: defaultWindowDuration,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	o.window.start = o.now()

	if o.logger == nil {
		o.logger = logger.Get().Named("enforce")
	}

	return o
}

// Consider evaluates a scored identifier and enforces if warranted.
// The window check precedes any network call.
func (o *Orchestrator) Consider(ctx context.Context, id model.Identifier, score scoring.Result) Outcome {
	outcome := o.consider(ctx, id, score)
	metrics.RecordEnforcementOutcome(outcome.String())
	return outcome
}

func (o *Orchestrator) consider(ctx context.Context, id model.Identifier, score scoring.Result) Outcome {
	if score.Total >= o.threshold {
		o.logger.Info(ctx, "identifier passed",
			logger.String("id", string(id)),
			logger.Int("score", score.Total),
		)
		return Skipped
	}

	now := o.now()
	o.mu.Lock()
	if now.Sub(o.window.start) > o.window.duration {
		o.window.count = 0
		o.window.start = now
		o.logger.Info(ctx, "rate window reset")
	}
	count, limit := o.window.count, o.window.limit
	o.mu.Unlock()

	if count >= limit {
		o.logger.Warn(ctx, "rate window full; deferring enforcement",
			logger.String("id", string(id)),
			logger.Int("count", count),
			logger.Int("limit", limit),
		)
		metrics.RecordRateLimited()
		return RateLimited
	}

	if err := o.sender.SendBan(ctx, id); err != nil {
		o.logger.Error(ctx, "ban failed",
			logger.String("id", string(id)),
			logger.Int("score", score.Total),
			logger.Error(err),
		)
		metrics.RecordBanFailure()
		return Failed
	}

	o.mu.Lock()
	o.window.count++
	count = o.window.count
	o.mu.Unlock()

	metrics.RecordBan()
	o.logger.Info(ctx, "identifier banned",
		logger.String("id", string(id)),
		logger.Int("score", score.Total),
		logger.Int("window_count", count),
	)

	// Exemption status may have just changed; honor it next cycle.
	if o.refresher != nil {
		o.refresher.RefreshRemote(ctx)
	}

	return Banned
}

// WindowState returns the current action count and window start.
func (o *Orchestrator) WindowState() (count int, start time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.window.count, o.window.start
}
