// Package app wires the gatekeeper pipeline and drives the poll loop.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/squadgate/gatekeeper/internal/domain/enforce"
	"github.com/squadgate/gatekeeper/internal/domain/model"
	"github.com/squadgate/gatekeeper/internal/domain/scoring"
	"github.com/squadgate/gatekeeper/pkg/logger"
	"github.com/squadgate/gatekeeper/pkg/metrics"
)

// defaultPollInterval is the sleep between poll cycles.
const defaultPollInterval = 120 * time.Second

// LogSource extracts identifiers from the connection log.
type LogSource interface {
	ExtractIdentifiers() ([]model.Identifier, error)
}

// ProfileRetriever assembles a best-effort profile for an identifier.
type ProfileRetriever interface {
	Fetch(ctx context.Context, id model.Identifier) model.Profile
}

// Exempter answers whitelist membership and refreshes the remote half.
type Exempter interface {
	IsExempt(id model.Identifier) bool
	RefreshRemote(ctx context.Context)
	Sizes() (local, remote int)
}

// Enforcer decides and issues ban actions for scored identifiers.
type Enforcer interface {
	Consider(ctx context.Context, id model.Identifier, score scoring.Result) enforce.Outcome
	WindowState() (count int, start time.Time)
}

// AuditSink records suspected accounts.
type AuditSink interface {
	Record(ctx context.Context, name string, id model.Identifier) error
}

// Service drives the poll loop: extract, filter, retrieve, triage, score,
// enforce, sleep. Identifiers are processed strictly sequentially, in
// extraction order; the rate window and whitelist cache are the only state
// carried across cycles.
type Service struct {
	logs      LogSource
	retriever ProfileRetriever
	exempter  Exempter
	enforcer  Enforcer
	audit     AuditSink

	pollInterval time.Duration
	logger       logger.Logger

	mu    sync.RWMutex
	stats stats
}

// stats are cumulative counters exposed on the ops endpoint.
type stats struct {
	cycles      int
	extracted   int
	exempt      int
	suspected   int
	skipped     int
	banned      int
	failed      int
	rateLimited int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogSource sets the connection log collaborator.
func WithLogSource(s LogSource) Option {
	return func(svc *Service) { svc.logs = s }
}

// WithRetriever sets the profile retriever.
func WithRetriever(r ProfileRetriever) Option {
	return func(svc *Service) { svc.retriever = r }
}

// WithExempter sets the whitelist resolver.
func WithExempter(e Exempter) Option {
	return func(svc *Service) { svc.exempter = e }
}

// WithEnforcer sets the enforcement orchestrator.
func WithEnforcer(e Enforcer) Option {
	return func(svc *Service) { svc.enforcer = e }
}

// WithAuditSink sets the suspected-account sink.
func WithAuditSink(a AuditSink) Option {
	return func(svc *Service) { svc.audit = a }
}

// WithPollInterval sets the inter-cycle delay.
func WithPollInterval(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.pollInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service with the given options.
func New(opts ...Option) *Service {
	svc := &Service{
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = logger.Get().Named("gatekeeper")
	}

	return svc
}

// Run refreshes the remote whitelist once and then cycles until ctx is
// canceled. There is no fatal error path: every failure is logged and the
// next cycle proceeds.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info(ctx, "gatekeeper started",
		logger.Duration("poll_interval", s.pollInterval),
	)

	s.exempter.RefreshRemote(ctx)

	for {
		s.runCycle(ctx)

		// The delay runs between cycles, not on a fixed schedule: a slow
		// cycle still gets the full pause before the next scan.
		timer := time.NewTimer(s.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info(ctx, "gatekeeper stopping")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle executes a single poll cycle. Exposed for the loop and tests.
func (s *Service) RunCycle(ctx context.Context) {
	s.runCycle(ctx)
}

func (s *Service) runCycle(ctx context.Context) {
	start := time.Now()
	cycleID := uuid.NewString()
	log := s.logger

	ids, err := s.logs.ExtractIdentifiers()
	if err != nil {
		log.Error(ctx, "log extraction failed; skipping cycle",
			logger.String("cycle", cycleID),
			logger.Error(err),
		)
		return
	}

	log.Debug(ctx, "cycle started",
		logger.String("cycle", cycleID),
		logger.Int("identifiers", len(ids)),
	)
	metrics.RecordIdentifiersExtracted(len(ids))

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.processIdentifier(ctx, cycleID, id)
	}

	s.mu.Lock()
	s.stats.cycles++
	s.stats.extracted += len(ids)
	s.mu.Unlock()

	elapsed := time.Since(start)
	metrics.RecordPollCycle(elapsed.Seconds())
	log.Info(ctx, "cycle finished",
		logger.String("cycle", cycleID),
		logger.Int("identifiers", len(ids)),
		logger.Duration("elapsed", elapsed),
	)
}

func (s *Service) processIdentifier(ctx context.Context, cycleID string, id model.Identifier) {
	log := s.logger

	if s.exempter.IsExempt(id) {
		log.Debug(ctx, "identifier whitelisted; skipping",
			logger.String("cycle", cycleID),
			logger.String("id", string(id)),
		)
		metrics.RecordIdentifierExempt()
		s.bump(func(st *stats) { st.exempt++ })
		return
	}

	profile := s.retriever.Fetch(ctx, id)

	// No usable core data is a stronger signal than any low score; such
	// identifiers are triaged to the audit sink and never scored.
	if profile.CoreMissing() {
		if err := s.audit.Record(ctx, profile.DisplayName(), id); err != nil {
			log.Error(ctx, "failed to record suspected account",
				logger.String("cycle", cycleID),
				logger.String("id", string(id)),
				logger.Error(err),
			)
		}
		log.Warn(ctx, "suspected account recorded",
			logger.String("cycle", cycleID),
			logger.String("id", string(id)),
			logger.String("name", profile.DisplayName()),
		)
		metrics.RecordSuspectedAccount()
		s.bump(func(st *stats) { st.suspected++ })
		return
	}

	result := scoring.Score(profile)
	metrics.ObserveTrustScore(result.Total)
	for _, adj := range result.Adjustments {
		log.Debug(ctx, "score adjustment",
			logger.String("cycle", cycleID),
			logger.String("id", string(id)),
			logger.String("label", adj.Label),
			logger.Int("delta", adj.Delta),
		)
	}

	outcome := s.enforcer.Consider(ctx, id, result)
	s.bump(func(st *stats) {
		switch outcome {
		case enforce.Skipped:
			st.skipped++
		case enforce.Banned:
			st.banned++
		case enforce.Failed:
			st.failed++
		case enforce.RateLimited:
			st.rateLimited++
		}
	})
}

func (s *Service) bump(f func(*stats)) {
	s.mu.Lock()
	f(&s.stats)
	s.mu.Unlock()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	st := s.stats
	s.mu.RUnlock()

	out := map[string]interface{}{
		"cycles":       st.cycles,
		"extracted":    st.extracted,
		"exempt":       st.exempt,
		"suspected":    st.suspected,
		"skipped":      st.skipped,
		"banned":       st.banned,
		"ban_failed":   st.failed,
		"rate_limited": st.rateLimited,
	}

	if s.exempter != nil {
		local, remote := s.exempter.Sizes()
		out["whitelist_local"] = local
		out["whitelist_remote"] = remote
	}
	if s.enforcer != nil {
		count, start := s.enforcer.WindowState()
		out["window_count"] = count
		out["window_start"] = start
	}
	return out
}
