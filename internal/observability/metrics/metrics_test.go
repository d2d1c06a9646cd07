package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("organization_id", "123"),
		attribute.String("email", "a@b.com"),
		attribute.String("status", "accepted"),
	)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("status"), attrs[0].Key)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordInviteTransition(ctx, "sent")
		m.RecordMemberTransition(ctx, "added")
		m.RecordRateLimitDenied(ctx, "invite", "bucket_empty")
		m.RecordEventsRelayed(ctx, "organizations", 3)
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordInviteTransition(context.Background(), "revoked")
	})
}
