// Package metrics defines Prometheus metrics for the shop bot.
//
// All metrics are registered with the default Prometheus registry and are
// served by the ops server when METRICS_ADDR is set.
//
// Metric naming follows Prometheus conventions:
//   - shopbot_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Message outcomes.
const (
	OutcomeReplied = "replied"
	OutcomeFailed  = "failed"
)

var (
	// MessagesTotal counts handled chat messages by intent and outcome.
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopbot_messages_total",
			Help: "Total number of chat messages handled by intent and outcome.",
		},
		[]string{"intent", "outcome"},
	)

	// BackendRequestsTotal counts backend calls by operation and outcome
	// (HTTP status code, or error kind when no response arrived).
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopbot_backend_requests_total",
			Help: "Total backend API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// BackendRequestDurationSeconds is a histogram of backend call latency.
	BackendRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopbot_backend_request_duration_seconds",
			Help:    "Duration of backend API calls in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		MessagesTotal,
		BackendRequestsTotal,
		BackendRequestDurationSeconds,
	)
}

// RecordMessage records one handled chat message.
func RecordMessage(intent, outcome string) {
	MessagesTotal.WithLabelValues(intent, outcome).Inc()
}

// ObserveBackendCall records one backend call and its latency.
func ObserveBackendCall(operation, outcome string, took time.Duration) {
	BackendRequestsTotal.WithLabelValues(operation, outcome).Inc()
	BackendRequestDurationSeconds.WithLabelValues(operation).Observe(took.Seconds())
}
