package metrics

import "github.com/prometheus/client_golang/prometheus"

// BillingMetrics counts ledger mutations and document exports.
type BillingMetrics struct {
	mutations *prometheus.CounterVec
	exports   *prometheus.CounterVec
}

// NewBillingMetrics registers the billing counters on reg. A nil registerer yields
// a no-op recorder.
func NewBillingMetrics(reg prometheus.Registerer) *BillingMetrics {
	if reg == nil {
		return &BillingMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_mutations_total",
		Help:      "Ledger mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Document exports by kind, format and outcome.",
	}, []string{"kind", "format", "outcome"})
	reg.MustRegister(mutations, exports)
	return &BillingMetrics{mutations: mutations, exports: exports}
}

// ObserveLedgerMutation counts one ledger operation.
func (m *BillingMetrics) ObserveLedgerMutation(op, outcome string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// ObserveExport counts one export attempt.
func (m *BillingMetrics) ObserveExport(kind, format, outcome string) {
	if m == nil || m.exports == nil {
		return
	}
	m.exports.WithLabelValues(normalizeLabel(kind), normalizeLabel(format), normalizeLabel(outcome)).Inc()
}
