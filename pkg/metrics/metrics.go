// Package metrics holds the Prometheus collectors exported by Hermes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promauto registers everything with the default registry at init.

var (
	// HttpRequestsTotal counts requests by method, path, and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures server response time.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// TotalVectors tracks the number of stored vectors.
	TotalVectors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hermes_vectors_total",
			Help: "Total number of stored vectors",
		},
	)

	// SearchDuration measures the brute-force scan alone, without transport.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hermes_search_duration_seconds",
			Help:    "Duration of store searches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 9),
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)
