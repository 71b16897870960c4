package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics counts settlement outcomes, independent of the HTTP
// request metrics.
type SettlementMetrics struct {
	RunsTotal        *prometheus.CounterVec
	ResidualAbsorbed prometheus.Counter
}

// NewSettlementMetrics registers and returns the settlement collectors.
func NewSettlementMetrics(namespace string, reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &SettlementMetrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_runs_total",
			Help:      "Count of settlement computations by outcome.",
		}, []string{"outcome"}),
		ResidualAbsorbed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_residuals_absorbed_total",
			Help:      "Number of settlements that absorbed a rounding residual.",
		}),
	}
	reg.MustRegister(m.RunsTotal, m.ResidualAbsorbed)
	return m
}

// observe records one settlement attempt. outcome is valid, invalid, or
// rejected (input never produced a settlement).
func (m *SettlementMetrics) observe(outcome string, residualAbsorbed bool) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	if residualAbsorbed {
		m.ResidualAbsorbed.Inc()
	}
}
