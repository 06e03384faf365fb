// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"net/http"
	"time"

	"github.com/navarasa/analyzer/internal/models"
)

// Health handles GET /api/health. The payload is intentionally not the
// standard envelope; it matches the probe format deployed load balancers
// already expect.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:    "ok",
		Message:   "Navarasa API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /api/health/ready: a deep check covering the document
// store. The ML service is deliberately excluded; it sleeps by design and
// its cold starts must not mark the backend unready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Document store unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:    "ok",
		Message:   "All dependencies ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
