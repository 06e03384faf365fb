// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/navarasa/analyzer/internal/auth"
	"github.com/navarasa/analyzer/internal/logging"
)

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login, mounted only when AUTH_MODE=jwt.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Username and password are required", nil)
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	token, err := h.jwt.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logging.Ctx(r.Context()).Warn().
				Str("username", sanitizeLogValue(req.Username)).
				Msg("failed admin login")
			respondError(w, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token":     token,
		"expiresIn": int64(h.cfg.Security.SessionTimeout.Seconds()),
	})
}
