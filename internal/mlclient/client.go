// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package mlclient calls the external emotion-inference service.
//
// The service exposes POST /predict, accepting one multipart audio file and
// returning the nine-rasa prediction. The service runs on free-tier hosting
// and sleeps when idle; a cold start can take the better part of a minute,
// which is why the request timeout is generous and why unavailability is a
// distinct, retryable error class (ErrUnavailable) rather than a generic
// failure.
package mlclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/navarasa/analyzer/internal/config"
	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/metrics"
	"github.com/navarasa/analyzer/internal/models"
)

// ErrUnavailable marks failures where the ML service could not serve the
// request at all: connection refused, request timeout, or any non-2xx
// answer. These are the cold-start cases clients may retry.
var ErrUnavailable = errors.New("ml service unavailable")

// Predictor is the prediction surface the API layer depends on.
type Predictor interface {
	Predict(ctx context.Context, filePath string) (*models.PredictionResult, error)
	Ping(ctx context.Context) error
}

// Client is the direct HTTP client for the ML service. Wrap it in a
// BreakerClient for production use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client from the ML configuration. A positive
// RequestsPerSecond installs an outbound limiter so a burst of uploads
// cannot stampede the single-worker inference service.
func NewClient(cfg config.MLConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
	}
}

// Predict streams the audio file at filePath to POST {baseURL}/predict and
// decodes the prediction. The file is piped into the request body, never
// buffered whole in memory.
func (c *Client) Predict(ctx context.Context, filePath string) (*models.PredictionResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for ml rate limiter: %w", err)
		}
	}

	start := time.Now()
	result, err := c.predict(ctx, filePath)
	metrics.RecordMLRequest(outcomeOf(err), time.Since(start))
	return result, err
}

func (c *Client) predict(ctx context.Context, filePath string) (*models.PredictionResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", pr)
	if err != nil {
		return nil, fmt.Errorf("building predict request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and refused connections are the cold-start signature.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Any non-2xx counts as unavailable: a waking service answers
		// through proxies and half-initialized workers with a grab bag of
		// statuses, and clients key their warm-up retry off this class.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	var result models.PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}

	if err := normalize(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks the ML service's /health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// normalize validates the decoded prediction and fills PrimaryEmotion and
// Confidence from the score vector when the service omits them. Scores are
// carried through untouched; they are independent confidences, not a
// distribution.
func normalize(result *models.PredictionResult) error {
	if !result.Emotions.InRange() {
		return fmt.Errorf("ml service returned scores outside [0, 1]: %+v", result.Emotions)
	}

	if result.PrimaryEmotion == "" {
		result.PrimaryEmotion, result.Confidence = result.Emotions.Primary()
	}
	if !models.ValidRasa(result.PrimaryEmotion) {
		return fmt.Errorf("ml service returned unknown primary emotion %q", result.PrimaryEmotion)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return fmt.Errorf("ml service returned confidence %v outside [0, 1]", result.Confidence)
	}

	if got := result.Emotions.Get(result.PrimaryEmotion); got != result.Confidence {
		logging.Debug().
			Str("primary", result.PrimaryEmotion).
			Float64("confidence", result.Confidence).
			Float64("score", got).
			Msg("prediction confidence differs from primary emotion score")
	}

	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
