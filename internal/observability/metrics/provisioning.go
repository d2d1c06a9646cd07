package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Provisioning outcomes for resources created at an external provider.
const (
	OutcomeCommitted           = "committed"
	OutcomeCompensated         = "compensated"
	OutcomeNeedsReconciliation = "needs_reconciliation"
)

// ProvisioningMetrics counts how each remote-then-local provisioning attempt ended.
type ProvisioningMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewProvisioningMetrics registers the provisioning collectors on the default registry.
func NewProvisioningMetrics(cfg Config) (*ProvisioningMetrics, error) {
	return NewProvisioningMetricsWithRegisterer(prometheus.DefaultRegisterer, cfg)
}

func NewProvisioningMetricsWithRegisterer(registerer prometheus.Registerer, cfg Config) (*ProvisioningMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "hub_orgs_provisioning_outcomes_total",
		Help:        "Outcomes of provider provisioning, by resource.",
		ConstLabels: prometheus.Labels{"service": serviceLabel(cfg)},
	}, []string{"resource", "outcome"})

	outcomes, err := registerOrReuse(registerer, outcomes)
	if err != nil {
		return nil, err
	}
	return &ProvisioningMetrics{outcomes: outcomes}, nil
}

// RecordOutcome increments the counter for resource and outcome.
func (m *ProvisioningMetrics) RecordOutcome(resource, outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(resource, outcome).Inc()
}
