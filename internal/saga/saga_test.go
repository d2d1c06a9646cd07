package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	obsmetrics "github.com/holaplex/hub-orgs/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var errLocal = errors.New("insert failed")

func newTestRunner(t *testing.T) (*Runner, *prometheus.Registry, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	reg := prometheus.NewRegistry()
	metrics, err := obsmetrics.NewProvisioningMetricsWithRegisterer(reg, obsmetrics.Config{})
	require.NoError(t, err)
	runner := NewRunnerWithOptions(zap.New(core), metrics, Options{
		MaxTries:        3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Timeout:         time.Second,
	})
	return runner, reg, logs
}

func outcomeCount(t *testing.T, reg *prometheus.Registry, resource string, outcome Outcome) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "hub_orgs_provisioning_outcomes_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["resource"] == resource && labels["outcome"] == string(outcome) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRunCommitted(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	got, outcome, err := Run(context.Background(), runner, Step[string]{
		Resource:   "credential",
		Remote:     func(context.Context) (string, error) { return "client-1", nil },
		Local:      func(context.Context, string) error { return nil },
		Compensate: func(context.Context, string) error { t.Fatal("compensate must not run"); return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, Committed, outcome)
	assert.Equal(t, "client-1", got)
}

func TestRunRemoteFailureHasNothingToUndo(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	remoteErr := errors.New("provider down")
	localCalled := false

	_, outcome, err := Run(context.Background(), runner, Step[string]{
		Resource: "webhook",
		Remote:   func(context.Context) (string, error) { return "", remoteErr },
		Local:    func(context.Context, string) error { localCalled = true; return nil },
	})
	assert.ErrorIs(t, err, remoteErr)
	assert.Equal(t, Outcome(""), outcome)
	assert.False(t, localCalled)
}

func TestRunCompensatesAfterRetry(t *testing.T) {
	runner, reg, logs := newTestRunner(t)
	calls := 0

	_, outcome, err := Run(context.Background(), runner, Step[string]{
		Resource: "credential",
		Remote:   func(context.Context) (string, error) { return "client-1", nil },
		Local:    func(context.Context, string) error { return errLocal },
		Compensate: func(_ context.Context, id string) error {
			assert.Equal(t, "client-1", id)
			calls++
			if calls < 2 {
				return errors.New("flaky")
			}
			return nil
		},
	})
	assert.Equal(t, Compensated, outcome)
	assert.ErrorIs(t, err, errLocal)
	assert.Equal(t, 2, calls)

	var sagaErr *Error
	require.ErrorAs(t, err, &sagaErr)
	assert.Equal(t, Compensated, sagaErr.Outcome)
	assert.NoError(t, sagaErr.Compensation)

	assert.Equal(t, 1, logs.FilterMessage("provisioning compensated").Len())
	assert.Equal(t, 1.0, outcomeCount(t, reg, "credential", Compensated))
}

func TestRunNeedsReconciliationWhenCleanupKeepsFailing(t *testing.T) {
	runner, _, logs := newTestRunner(t)
	calls := 0

	_, outcome, err := Run(context.Background(), runner, Step[string]{
		Resource:   "webhook",
		Remote:     func(context.Context) (string, error) { return "ep_1", nil },
		Local:      func(context.Context, string) error { return errLocal },
		Compensate: func(context.Context, string) error { calls++; return errors.New("still down") },
		Fields:     func(id string) []zap.Field { return []zap.Field{zap.String("endpoint_id", id)} },
	})
	assert.Equal(t, NeedsReconciliation, outcome)
	assert.ErrorIs(t, err, errLocal)
	assert.Equal(t, 3, calls)

	entries := logs.FilterMessage("provider object left without local record").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, true, fields["reconciliation_required"])
	assert.Equal(t, "ep_1", fields["endpoint_id"])
}

func TestRunCompensatesEvenWhenCallerCancelled(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	compensated := false

	_, outcome, _ := Run(ctx, runner, Step[string]{
		Resource: "credential",
		Remote:   func(context.Context) (string, error) { return "client-1", nil },
		Local: func(context.Context, string) error {
			cancel()
			return context.Canceled
		},
		Compensate: func(ctx context.Context, _ string) error {
			compensated = ctx.Err() == nil
			return nil
		},
	})
	assert.Equal(t, Compensated, outcome)
	assert.True(t, compensated)
}

func TestCommittedOutcomeIsCounted(t *testing.T) {
	runner, reg, _ := newTestRunner(t)
	step := Step[string]{
		Resource: "webhook",
		Remote:   func(context.Context) (string, error) { return "ep", nil },
		Local:    func(context.Context, string) error { return nil },
	}
	_, _, _ = Run(context.Background(), runner, step)
	_, _, _ = Run(context.Background(), runner, step)

	assert.Equal(t, 2.0, outcomeCount(t, reg, "webhook", Committed))
	assert.Zero(t, outcomeCount(t, reg, "webhook", Compensated))
}
