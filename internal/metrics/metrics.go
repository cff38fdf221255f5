// Package metrics provides Prometheus metrics for the revision engine
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Engine metrics
	TransitionsTotal       *prometheus.CounterVec
	ConflictsDetectedTotal prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	m := &Metrics{}

	m.HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docjays_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docjays_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docjays_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docjays_revision_transitions_total",
			Help: "Total number of revision lifecycle transitions",
		},
		[]string{"operation", "outcome"},
	)

	m.ConflictsDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docjays_revision_conflicts_detected_total",
			Help: "Total number of lineage conflicts detected",
		},
	)

	return m
}

// RecordTransition counts one lifecycle operation with its outcome.
// Safe on a nil receiver so the engine can run unmetered in tests.
func (m *Metrics) RecordTransition(operation, outcome string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordConflict counts one detected lineage conflict.
func (m *Metrics) RecordConflict() {
	if m == nil {
		return
	}
	m.ConflictsDetectedTotal.Inc()
}
