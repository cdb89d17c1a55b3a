// Package metrics exposes prometheus counters for event processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "cukereport"

// Metrics holds the collectors of one run. A nil *Metrics records nothing.
type Metrics struct {
	eventsTotal *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	contexts    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_total",
			Help:      "Count of lifecycle events applied",
		}, []string{
			"kind",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "event_errors_total",
			Help:      "Count of lifecycle events that could not be applied",
		}, []string{
			"kind",
			"reason",
		}),
		contexts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "contexts",
			Help:      "Number of worker contexts with a report",
		}),
	}
	reg.MustRegister(m.eventsTotal, m.errorsTotal, m.contexts)
	return m
}

// RecordEvent counts an applied event of the given kind.
func (m *Metrics) RecordEvent(kind string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(kind).Inc()
}

// RecordError counts a rejected event.
func (m *Metrics) RecordError(kind, reason string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(kind, reason).Inc()
}

// SetContexts records the number of known contexts.
func (m *Metrics) SetContexts(n int) {
	if m == nil {
		return
	}
	m.contexts.Set(float64(n))
}
