// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package models

// APIResponse is the standardized envelope used by every HTTP endpoint.
//
// Fields:
//   - Success: true for 2xx responses, false otherwise
//   - Message: human-readable summary, always present
//   - Data: response payload (any JSON-serializable type)
//   - Error: short error detail (populated only on failure)
//   - Hint: optional client guidance, e.g. retry advice during a
//     cold start of the ML service
//
// Example successful response:
//
//	{
//	  "success": true,
//	  "message": "Analysis complete",
//	  "data": {"id": "...", "primaryEmotion": "hasya", ...}
//	}
//
// Example error response:
//
//	{
//	  "success": false,
//	  "message": "ML service is currently waking up (cold start). Please try again in 30-60 seconds.",
//	  "error": "service unavailable",
//	  "hint": "The free-tier ML service sleeps after inactivity. Retry shortly."
//	}
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Hint    string      `json:"hint,omitempty"`
}

// Pagination carries page metadata for listing endpoints. Pages is the
// total page count: ceil(Total / Limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes page metadata for a listing response.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// HealthStatus is the GET /api/health payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
