// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// EmotionScores holds the nine independent rasa confidences.
type EmotionScores struct {
	Shringara float64 `json:"shringara"`
	Hasya     float64 `json:"hasya"`
	Karuna    float64 `json:"karuna"`
	Raudra    float64 `json:"raudra"`
	Veera     float64 `json:"veera"`
	Bhayanaka float64 `json:"bhayanaka"`
	Bibhatsa  float64 `json:"bibhatsa"`
	Adbhuta   float64 `json:"adbhuta"`
	Shanta    float64 `json:"shanta"`
}

// AudioFeatures carries optional signal-level features from the analysis.
type AudioFeatures struct {
	Tempo  float64 `json:"tempo,omitempty"`
	Energy float64 `json:"energy,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// Analysis is a stored emotion analysis.
type Analysis struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	FileSize       int64          `json:"fileSize"`
	Duration       float64        `json:"duration,omitempty"`
	Emotions       EmotionScores  `json:"emotions"`
	PrimaryEmotion string         `json:"primaryEmotion"`
	Confidence     float64        `json:"confidence"`
	AudioFeatures  *AudioFeatures `json:"audioFeatures,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// UploadResult is the server's answer to an upload.
type UploadResult struct {
	FileID   string `json:"fileId"`
	Filename string `json:"filename"`
	FileSize int64  `json:"fileSize"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// HistoryPage is one page of the analysis history.
type HistoryPage struct {
	Analyses   []Analysis `json:"analyses"`
	Pagination Pagination `json:"pagination"`
}

// HistoryOptions filters and paginates History calls. Zero values use the
// server defaults.
type HistoryOptions struct {
	Page    int
	Limit   int
	Emotion string
}

// Upload streams an audio file to the backend and returns the assigned
// file ID for a subsequent Analyze call.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var result UploadResult
	if err := c.uploadMultipart(ctx, "/api/upload", filename, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Analyze requests an emotion analysis of a previously uploaded file. Cold
// starts of the ML service are retried per the client's retry policy.
func (c *Client) Analyze(ctx context.Context, fileID string) (*Analysis, error) {
	var analysis Analysis
	err := c.withRetry(ctx, func() error {
		analysis = Analysis{}
		return c.doJSON(ctx, http.MethodPost, "/api/analyze",
			map[string]string{"fileId": fileID}, &analysis)
	})
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// History returns one page of past analyses, newest first.
func (c *Client) History(ctx context.Context, opts HistoryOptions) (*HistoryPage, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Emotion != "" {
		q.Set("emotion", opts.Emotion)
	}

	path := "/api/history"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page HistoryPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAnalysis fetches a single analysis by ID.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*Analysis, error) {
	var analysis Analysis
	if err := c.doJSON(ctx, http.MethodGet, "/api/history/"+url.PathEscape(id), nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// DeleteAnalysis removes an analysis and its stored audio.
func (c *Client) DeleteAnalysis(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/history/"+url.PathEscape(id), nil, nil)
}

// ContactSubmission is a message for the site owners.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitContact sends a contact form submission and returns the assigned ID.
func (c *Client) SubmitContact(ctx context.Context, sub ContactSubmission) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/contact", sub, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

// Login authenticates against a backend running in jwt mode and stores the
// returned token on the client for subsequent admin calls. Call it before
// sharing the client across goroutines.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var result struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, &result); err != nil {
		return err
	}
	c.token = result.Token
	return nil
}

// Health checks the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "backend unhealthy"}
	}
	return nil
}
