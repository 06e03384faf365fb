// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the Navarasa backend:
// - API endpoint latency and throughput
// - Upload intake volume
// - ML service calls, cold starts, and circuit breaker state
// - BadgerDB document store operations

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upload Metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of audio upload attempts",
		},
		[]string{"outcome"}, // "accepted", "rejected_extension", "rejected_size", "error"
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upload_size_bytes",
			Help:    "Size of accepted audio uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(64<<10, 4, 8), // 64KiB .. 1GiB
		},
	)

	// ML Service Metrics
	MLRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_requests_total",
			Help: "Total number of prediction calls to the ML service",
		},
		[]string{"outcome"}, // "success", "unavailable", "error"
	)

	MLRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ml_request_duration_seconds",
			Help:    "Duration of ML prediction calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 90, 120}, // cold starts run long
		},
	)

	MLColdStarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ml_cold_starts_total",
			Help: "Total number of prediction calls rejected while the ML service was waking up",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Document Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of BadgerDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of BadgerDB operation errors",
		},
		[]string{"operation", "collection"},
	)

	StoreDocuments = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_documents",
			Help: "Current number of documents per collection",
		},
		[]string{"collection"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpload records the outcome of one upload attempt. Size is observed
// only for accepted uploads.
func RecordUpload(outcome string, size int64) {
	UploadsTotal.WithLabelValues(outcome).Inc()
	if outcome == "accepted" && size > 0 {
		UploadBytes.Observe(float64(size))
	}
}

// RecordMLRequest records a prediction call against the ML service.
func RecordMLRequest(outcome string, duration time.Duration) {
	MLRequestsTotal.WithLabelValues(outcome).Inc()
	MLRequestDuration.Observe(duration.Seconds())
	if outcome == "unavailable" {
		MLColdStarts.Inc()
	}
}

// RecordStoreOperation records a document store operation.
func RecordStoreOperation(operation, collection string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation, collection).Inc()
	}
}

// RecordBreakerTransition records a circuit breaker state change and updates
// the state gauge.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default: // closed
		return 0
	}
}
