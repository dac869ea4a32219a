// Package metrics exposes the portal's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var Module = fx.Module("metrics",
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(New),
)

// Metrics counts quote lifecycle activity and swallowed persistence failures.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	operations  *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_quote_transitions_total",
		Help: "Quote status changes by origin and target status.",
	}, []string{"from", "to"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_quote_operations_total",
		Help: "Quote operations by name and result.",
	}, []string{"operation", "result"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_persistence_failures_total",
		Help: "Persistence reads and writes that failed and were dropped.",
	}, []string{"operation"})

	for _, c := range []prometheus.Collector{transitions, operations, failures} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return &Metrics{transitions: transitions, operations: operations, failures: failures}, nil
}

func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveOperation(operation, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObservePersistenceFailure(operation string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(operation).Inc()
}
