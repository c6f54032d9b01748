package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides request-level observability for the console gateway.
type Metrics struct {
	// HTTP request latency by route and method
	RequestLatency *prometheus.HistogramVec

	// HTTP responses by route, method, and status class
	Responses *prometheus.CounterVec

	// Active operator sessions
	ActiveSessions prometheus.Gauge
}

// New creates a new Metrics instance with all gateway metrics registered.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veridesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		Responses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridesk_http_responses_total",
			Help: "HTTP responses by route, method, and status class",
		}, []string{"route", "method", "status"}),

		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "veridesk_active_sessions",
			Help: "Operator sessions currently open",
		}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
		m.Responses.WithLabelValues(route, method, status).Inc()
	}
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}
