// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/navarasa/analyzer/internal/auth"
	"github.com/navarasa/analyzer/internal/metrics"
	"github.com/navarasa/analyzer/internal/middleware"
)

// RateLimitConfig defines rate limit parameters for specific endpoints.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Endpoint-specific rate limits. Uploads and analyses move real bytes and
// hold an ML worker, so they get tighter budgets than reads; login gets the
// brute-force budget.
var (
	RateLimitUpload  = RateLimitConfig{Requests: 20, Window: time.Minute}
	RateLimitAnalyze = RateLimitConfig{Requests: 20, Window: time.Minute}
	RateLimitLogin   = RateLimitConfig{Requests: 5, Window: 5 * time.Minute}
)

// NewRouter assembles the chi router: global middleware, the REST routes,
// the Prometheus endpoint, and static serving of uploaded audio.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	r.Use(h.rateLimit(RateLimitConfig{
		Requests: h.cfg.Security.RateLimitRequests,
		Window:   h.cfg.Security.RateLimitWindow,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	r.Get("/api/health", h.Health)
	r.Get("/api/health/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(h.rateLimit(RateLimitUpload)).Post("/upload", h.Upload)
		r.With(h.rateLimit(RateLimitAnalyze)).Post("/analyze", h.Analyze)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.History)
			r.Get("/{id}", h.GetAnalysis)
			r.Delete("/{id}", h.DeleteAnalysis)
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", h.SubmitContact)

			// Admin surface; open when AUTH_MODE=none.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(h.jwt))
				r.Get("/", h.ListContacts)
				r.Get("/{id}", h.GetContact)
				r.Patch("/{id}", h.UpdateContactStatus)
				r.Delete("/{id}", h.DeleteContact)
			})
		})

		if h.jwt != nil {
			r.With(h.rateLimit(RateLimitLogin)).Post("/auth/login", h.Login)
		}
	})

	// Uploaded audio is served read-only for playback in the frontend.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.files.Root())))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}

// rateLimit returns per-IP limiting middleware, or a no-op when rate
// limiting is disabled in configuration.
func (h *Handler) rateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if h.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests,
				"Too many requests. Please slow down.", nil)
		}),
	)
}

// securityHeaders adds baseline security headers to every response. HSTS
// is set only when the request arrived over TLS or a TLS-terminating proxy.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
