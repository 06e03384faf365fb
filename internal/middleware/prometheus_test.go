// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/navarasa/analyzer/internal/metrics"
)

func TestPrometheusMetricsRecordsStatus(t *testing.T) {
	before := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/teapot", "418"))

	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	after := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/teapot", "418"))
	if after != before+1 {
		t.Errorf("request counter = %v, want %v", after, before+1)
	}
}

func TestPrometheusMetricsDefaultStatus(t *testing.T) {
	before := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/implicit", "200"))

	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok")) // implicit 200
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/implicit", nil))

	after := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/implicit", "200"))
	if after != before+1 {
		t.Errorf("request counter = %v, want %v", after, before+1)
	}
}

// Route patterns, not raw paths, become the endpoint label when the handler
// is mounted on a chi router.
func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/history/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/api/history/{id}", "200"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history/abc123", nil))

	after := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/api/history/{id}", "200"))
	if after != before+1 {
		t.Errorf("pattern-labeled counter = %v, want %v", after, before+1)
	}
}
