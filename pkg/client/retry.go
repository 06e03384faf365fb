// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package client

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Policy controls how Analyze retries when the ML service is waking up.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Backoff is the fixed wait between attempts. Cold starts take tens
	// of seconds, so exponential growth buys nothing here.
	Backoff time.Duration

	// Retryable decides whether an error is worth another attempt.
	Retryable func(err error) bool
}

// DefaultPolicy retries cold-start 503s twice with a 30 second wait,
// matching the wake-up time of free-tier ML hosting.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Retryable:   IsColdStart,
	}
}

// IsColdStart reports whether err is the backend's 503 answer for a
// sleeping ML service.
func IsColdStart(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable
}

// withRetry runs fn under the policy. Non-retryable errors and context
// cancellation end the loop immediately.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	attempts := c.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == attempts || c.retry.Retryable == nil || !c.retry.Retryable(err) {
			return err
		}

		if c.onRetry != nil {
			c.onRetry(attempt, c.retry.Backoff, err)
		}
		if sleepErr := c.sleep(ctx, c.retry.Backoff); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}
