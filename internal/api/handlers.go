// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package api implements the HTTP surface of the Navarasa backend.
//
// Every endpoint answers with the envelope defined in models.APIResponse:
// {success, message, data} on the happy path, {success:false, message,
// error, hint?} on failure. The analyze endpoint maps ML unavailability
// to 503 with retry guidance; it never retries upstream itself, leaving
// retry policy to clients (see pkg/client).
package api

import (
	"github.com/navarasa/analyzer/internal/auth"
	"github.com/navarasa/analyzer/internal/config"
	"github.com/navarasa/analyzer/internal/database"
	"github.com/navarasa/analyzer/internal/mlclient"
	"github.com/navarasa/analyzer/internal/storage"
)

// Handler bundles the dependencies of all HTTP handlers.
type Handler struct {
	cfg   *config.Config
	store *database.Store
	files *storage.FileStore
	ml    mlclient.Predictor
	jwt   *auth.JWTManager
}

// NewHandler wires the handler set. jwtManager may be nil when
// AUTH_MODE=none; the login route is then not mounted and the admin
// contact routes are open.
func NewHandler(cfg *config.Config, store *database.Store, files *storage.FileStore, ml mlclient.Predictor, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		cfg:   cfg,
		store: store,
		files: files,
		ml:    ml,
		jwt:   jwtManager,
	}
}
