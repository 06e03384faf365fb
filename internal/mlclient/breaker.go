// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package mlclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/metrics"
	"github.com/navarasa/analyzer/internal/models"
)

// BreakerClient wraps a Predictor with a circuit breaker so a dead ML
// service sheds load fast instead of tying up request handlers for the
// full prediction timeout.
//
// The breaker uses real time for its interval and timeout calculations.
// The timing governs recovery behavior, not data integrity; unit tests
// exercise the wrapped client directly.
type BreakerClient struct {
	inner Predictor
	cb    *gobreaker.CircuitBreaker[*models.PredictionResult]
	name  string
}

// NewBreakerClient creates the circuit-breaking wrapper.
// Breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewBreakerClient(inner Predictor) *BreakerClient {
	cbName := "ml-service"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*models.PredictionResult](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordBreakerTransition(name, fromStr, toStr)
		},
	})

	return &BreakerClient{inner: inner, cb: cb, name: cbName}
}

// Predict runs a prediction through the breaker. A rejected call (open
// circuit, or half-open saturation) surfaces as ErrUnavailable so the API
// layer answers with the same 503 cold-start guidance.
func (b *BreakerClient) Predict(ctx context.Context, filePath string) (*models.PredictionResult, error) {
	result, err := b.cb.Execute(func() (*models.PredictionResult, error) {
		return b.inner.Predict(ctx, filePath)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return nil, err
	}

	return result, nil
}

// Ping bypasses the breaker; health checks should observe the real upstream
// state even while the circuit is open.
func (b *BreakerClient) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx)
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
