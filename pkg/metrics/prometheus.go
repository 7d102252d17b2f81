// Package metrics provides Prometheus metrics for the gatekeeper daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the gatekeeper service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	scoreBuckets     []float64
	registry         prometheus.Registerer

	// Poll loop metrics
	pollCycles           prometheus.Counter
	pollCycleDuration    prometheus.Histogram
	identifiersExtracted prometheus.Counter
	identifiersExempt    prometheus.Counter

	// Profile retrieval metrics
	profilesRetrieved    prometheus.Counter
	profileFetchDuration prometheus.Histogram
	attributeFailures    *prometheus.CounterVec

	// Scoring metrics
	trustScores prometheus.Histogram

	// Enforcement metrics
	enforcementOutcomes *prometheus.CounterVec
	bans                prometheus.Counter
	banFailures         prometheus.Counter
	rateLimited         prometheus.Counter

	// Triage metrics
	suspectedAccounts prometheus.Counter

	// Whitelist metrics
	whitelistLocalSize       prometheus.Gauge
	whitelistRemoteSize      prometheus.Gauge
	whitelistRefreshFailures prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gatekeeper",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		scoreBuckets:     []float64{-100, -50, -25, 0, 25, 50, 75, 100, 150, 200, 300},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.pollCycles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_cycles_total",
		Help:      "Total number of completed poll cycles",
	})

	m.pollCycleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_cycle_duration_seconds",
		Help:      "Histogram of poll cycle wall time in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.identifiersExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identifiers_extracted_total",
		Help:      "Total number of identifiers read from the connection log",
	})

	m.identifiersExempt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identifiers_exempt_total",
		Help:      "Total number of identifiers skipped due to whitelist membership",
	})

	m.profilesRetrieved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profiles_retrieved_total",
		Help:      "Total number of profile retrievals (complete or partial)",
	})

	m.profileFetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_fetch_duration_seconds",
		Help:      "Histogram of full profile retrieval latency in seconds, retries included",
		Buckets:   m.histogramBuckets,
	})

	m.attributeFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "attribute_fetch_failures_total",
		Help:      "Total number of failed attribute fetch attempts by attribute",
	}, []string{"attribute"})

	m.trustScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trust_score",
		Help:      "Distribution of computed trust scores",
		Buckets:   m.scoreBuckets,
	})

	m.enforcementOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enforcement_outcomes_total",
		Help:      "Total number of enforcement decisions by outcome",
	}, []string{"outcome"})

	m.bans = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bans_total",
		Help:      "Total number of confirmed ban actions",
	})

	m.banFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ban_failures_total",
		Help:      "Total number of ban attempts that exhausted all retries",
	})

	m.rateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rate_limited_total",
		Help:      "Total number of eligible identifiers skipped by the rate window",
	})

	m.suspectedAccounts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "suspected_accounts_total",
		Help:      "Total number of identifiers routed to the suspected-account sink",
	})

	m.whitelistLocalSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "whitelist_local_size",
		Help:      "Number of identifiers in the local whitelist",
	})

	m.whitelistRemoteSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "whitelist_remote_size",
		Help:      "Number of identifiers in the most recently fetched remote whitelist",
	})

	m.whitelistRefreshFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "whitelist_refresh_failures_total",
		Help:      "Total number of failed remote whitelist refreshes",
	})
}

// Poll Loop Metrics Functions.

// RecordPollCycle increments the cycle counter and records its duration.
func RecordPollCycle(durationSeconds float64) {
	globalManager.pollCycles.Inc()
	globalManager.pollCycleDuration.Observe(durationSeconds)
}

// RecordIdentifiersExtracted adds the number of identifiers read in a cycle.
func RecordIdentifiersExtracted(n int) {
	globalManager.identifiersExtracted.Add(float64(n))
}

// RecordIdentifierExempt increments the whitelist-skip counter.
func RecordIdentifierExempt() {
	globalManager.identifiersExempt.Inc()
}

// Profile Retrieval Metrics Functions.

// RecordProfileRetrieved increments the profile retrieval counter.
func RecordProfileRetrieved() {
	globalManager.profilesRetrieved.Inc()
}

// RecordProfileFetchDuration records full retrieval latency in seconds.
func RecordProfileFetchDuration(seconds float64) {
	globalManager.profileFetchDuration.Observe(seconds)
}

// RecordAttributeFailure increments the failure counter for one attribute.
func RecordAttributeFailure(attribute string) {
	globalManager.attributeFailures.WithLabelValues(attribute).Inc()
}

// Scoring Metrics Functions.

// ObserveTrustScore records a computed trust score.
func ObserveTrustScore(score int) {
	globalManager.trustScores.Observe(float64(score))
}

// Enforcement Metrics Functions.

// RecordEnforcementOutcome increments the outcome counter for a decision.
func RecordEnforcementOutcome(outcome string) {
	globalManager.enforcementOutcomes.WithLabelValues(outcome).Inc()
}

// RecordBan increments the confirmed ban counter.
func RecordBan() {
	globalManager.bans.Inc()
}

// RecordBanFailure increments the exhausted-retries ban counter.
func RecordBanFailure() {
	globalManager.banFailures.Inc()
}

// RecordRateLimited increments the rate-window skip counter.
func RecordRateLimited() {
	globalManager.rateLimited.Inc()
}

// Triage Metrics Functions.

// RecordSuspectedAccount increments the suspected-account counter.
func RecordSuspectedAccount() {
	globalManager.suspectedAccounts.Inc()
}

// Whitelist Metrics Functions.

// UpdateWhitelistSizes sets the local and remote whitelist size gauges.
func UpdateWhitelistSizes(local, remote int) {
	globalManager.whitelistLocalSize.Set(float64(local))
	globalManager.whitelistRemoteSize.Set(float64(remote))
}

// RecordWhitelistRefreshFailure increments the refresh failure counter.
func RecordWhitelistRefreshFailure() {
	globalManager.whitelistRefreshFailures.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
