// Package observability exposes scoring counters through a private
// Prometheus registry. Each Metrics value owns its own registry so
// repeated construction (tests, mainly) never trips duplicate-collector
// registration.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instruments the scoring path increments.
type Metrics struct {
	registry   *prometheus.Registry
	deliveries *prometheus.CounterVec
	undone     prometheus.Counter
	completed  prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_deliveries_recorded_total",
			Help: "Deliveries applied to a match, partitioned by wicket outcome.",
		}, []string{"wicket"}),
		undone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_deliveries_undone_total",
			Help: "Deliveries removed via undo.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_matches_completed_total",
			Help: "Matches that reached a result.",
		}),
	}
	registry.MustRegister(m.deliveries, m.undone, m.completed)
	return m
}

// Handler serves the /metrics scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) DeliveryRecorded(wicket bool) {
	label := "false"
	if wicket {
		label = "true"
	}
	m.deliveries.WithLabelValues(label).Inc()
}

func (m *Metrics) DeliveryUndone() { m.undone.Inc() }

func (m *Metrics) MatchCompleted() { m.completed.Inc() }
