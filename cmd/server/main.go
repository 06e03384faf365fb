// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package main is the entry point for the Navarasa backend.
//
// Navarasa analyzes the emotional content of music through the lens of the
// nine rasas of Indian aesthetic theory. Clients upload audio, the backend
// forwards it to an external ML inference service, and the resulting
// analysis is persisted for the history views.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables, optional YAML file, defaults (Koanf v2)
//  2. Document store: BadgerDB for analyses and contact submissions
//  3. File store: on-disk audio intake directory
//  4. ML client: HTTP client for the emotion-inference service, optionally
//     wrapped in a circuit breaker
//  5. Authentication: JWT admin auth when AUTH_MODE=jwt
//  6. Supervisor tree: Badger maintenance loop and the HTTP server under
//     suture supervision
//
// # Configuration
//
// Key environment variables:
//   - PORT: HTTP listen port (default 5000)
//   - ML_SERVICE_URL: base URL of the inference service
//   - UPLOAD_DIR: audio intake directory (default /data/uploads)
//   - BADGER_PATH: BadgerDB directory (default /data/navarasa)
//   - CORS_ORIGIN: production frontend origin
//   - AUTH_MODE: "none" (default) or "jwt"
//
// For JWT authentication:
//   - JWT_SECRET: 32+ character secret for token signing
//   - ADMIN_USERNAME / ADMIN_PASSWORD: admin credentials
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the configured
// shutdown timeout, then closes the document store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/navarasa/analyzer/internal/api"
	"github.com/navarasa/analyzer/internal/auth"
	"github.com/navarasa/analyzer/internal/config"
	"github.com/navarasa/analyzer/internal/database"
	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/mlclient"
	"github.com/navarasa/analyzer/internal/storage"
	"github.com/navarasa/analyzer/internal/supervisor"
	"github.com/navarasa/analyzer/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("ml_service_url", cfg.ML.URL).
		Str("db_path", cfg.Database.Path).
		Str("upload_dir", cfg.Upload.Dir).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Configuration loaded")

	store, err := database.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	files, err := storage.NewFileStore(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes, cfg.Upload.AllowedExtensions)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to prepare upload directory")
	}

	var ml mlclient.Predictor = mlclient.NewClient(cfg.ML)
	if cfg.ML.BreakerEnabled {
		ml = mlclient.NewBreakerClient(ml)
		logging.Info().Msg("ML circuit breaker enabled")
	}
	if err := ml.Ping(context.Background()); err != nil {
		// Expected on free-tier hosting: the service sleeps until the
		// first prediction request wakes it.
		logging.Warn().Err(err).Msg("ML service not reachable yet (may be sleeping)")
	} else {
		logging.Info().Msg("Connected to ML service")
	}

	var jwtManager *auth.JWTManager
	switch cfg.Security.AuthMode {
	case "jwt":
		jwtManager, err = auth.NewJWTManager(cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	default:
		logging.Warn().Msg("Admin contact routes are open (AUTH_MODE=none); do not expose them publicly")
	}

	handler := api.NewHandler(cfg, store, files, ml, jwtManager)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddStorageService(services.NewBadgerGCService(store, 5*time.Minute, 0.5))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Navarasa backend listening")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("Supervisor tree failed")
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
	}

	logging.Info().Msg("Shutdown complete")
}
