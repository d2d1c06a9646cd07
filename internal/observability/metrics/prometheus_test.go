package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisioningMetricsRecordOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewProvisioningMetricsWithRegisterer(reg, Config{ServiceName: "test"})
	require.NoError(t, err)

	m.RecordOutcome("credential", OutcomeCompensated)
	m.RecordOutcome("credential", OutcomeCompensated)
	m.RecordOutcome("webhook", OutcomeCommitted)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues("credential", OutcomeCompensated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("webhook", OutcomeCommitted)))
}

func TestProvisioningMetricsReuseRegisteredCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewProvisioningMetricsWithRegisterer(reg, Config{})
	require.NoError(t, err)
	second, err := NewProvisioningMetricsWithRegisterer(reg, Config{})
	require.NoError(t, err)

	second.RecordOutcome("webhook", OutcomeNeedsReconciliation)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.outcomes.WithLabelValues("webhook", OutcomeNeedsReconciliation)))
}

func TestHTTPMiddlewareCountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := newHTTPMetrics(reg, Config{})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/projects/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/projects/:id", "204")))
}
