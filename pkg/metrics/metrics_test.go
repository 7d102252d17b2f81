package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewManagerRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(WithPrometheusRegistry(registry), WithNamespace("test"), WithSubsystem("gate"))
	if m == nil {
		t.Fatal("manager is nil")
	}

	m.pollCycles.Inc()
	m.bans.Inc()
	m.attributeFailures.WithLabelValues("game_hours").Inc()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "test_gate_") {
			found = true
		}
	}
	if !found {
		t.Error("expected metrics with test_gate_ prefix")
	}
}

func TestGlobalHelpers(t *testing.T) {
	before := testutil.ToFloat64(globalManager.bans)

	RecordPollCycle(0.5)
	RecordIdentifiersExtracted(3)
	RecordIdentifierExempt()
	RecordProfileRetrieved()
	RecordProfileFetchDuration(1.2)
	RecordAttributeFailure("badges")
	ObserveTrustScore(-90)
	RecordEnforcementOutcome("banned")
	RecordBan()
	RecordBanFailure()
	RecordRateLimited()
	RecordSuspectedAccount()
	UpdateWhitelistSizes(2, 5)
	RecordWhitelistRefreshFailure()

	after := testutil.ToFloat64(globalManager.bans)
	if after != before+1 {
		t.Errorf("bans counter = %v, want %v", after, before+1)
	}
	if got := testutil.ToFloat64(globalManager.whitelistRemoteSize); got != 5 {
		t.Errorf("whitelist remote size = %v, want 5", got)
	}
}

func TestGetRegistry(t *testing.T) {
	if GetRegistry() == nil {
		t.Fatal("custom registry is nil")
	}
}
