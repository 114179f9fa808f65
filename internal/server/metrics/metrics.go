// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// AuthOperations counts signup, login and refresh outcomes. result is one
	// of "success", "rejected" or "error".
	AuthOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_operations_total",
			Help: "Authentication operations by outcome",
		},
		[]string{"operation", "result"},
	)
	RefreshTokensSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_refresh_tokens_swept_total",
			Help: "Expired refresh tokens deleted by the sweeper",
		},
	)
)

// Outcome labels for AuthOperations.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var registerOnce sync.Once

// Register adds the collectors to the default registry, which already
// carries the Go runtime and process collectors. Subsequent calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPRequestsInFlight,
			AuthOperations,
			RefreshTokensSwept,
		)
	})
}

// ObserveAuth records one outcome of operation.
func ObserveAuth(operation, result string) {
	AuthOperations.WithLabelValues(operation, result).Inc()
}
