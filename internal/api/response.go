// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/models"
	"github.com/navarasa/analyzer/internal/validation"
)

// sanitizeLogValue removes control characters from strings before they reach
// the log stream, so client-supplied values cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes any payload as JSON with proper headers.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a successful envelope response.
func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError writes a failure envelope. The message is for humans; err,
// when present, is logged and surfaced in the envelope's error field.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	var detail string
	if err != nil {
		detail = err.Error()
		logging.Error().Int("status", status).Str("error", sanitizeLogValue(detail)).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// respondUnavailable writes the 503 cold-start envelope, hint included, so
// clients know the condition is temporary and retryable.
func respondUnavailable(w http.ResponseWriter, err error) {
	var detail string
	if err != nil {
		detail = err.Error()
		logging.Warn().Str("error", sanitizeLogValue(detail)).Msg("ML service unavailable")
	}

	respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
		Success: false,
		Message: "ML service is currently waking up (cold start). Please wait a moment and try again.",
		Error:   detail,
		Hint:    "Free tier services sleep after inactivity. The service is starting up now.",
	})
}

// validateRequest validates a struct and answers with a 400 envelope on
// failure. Returns true when the request is valid.
func validateRequest(w http.ResponseWriter, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	respondError(w, http.StatusBadRequest, verr.Message(), nil)
	return false
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	return parseIntParam(r.URL.Query().Get(key), defaultValue)
}

func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
