// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdminOpenMode(t *testing.T) {
	t.Parallel()

	var called bool
	handler := RequireAdmin(nil)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contact", nil))

	if !called || rec.Code != http.StatusOK {
		t.Errorf("nil manager should pass everything through, got %d called=%v", rec.Code, called)
	}
}

func TestRequireAdminMissingToken(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour)
	var called bool
	handler := RequireAdmin(m)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contact", nil))

	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("missing token: code = %d called = %v, want 401/false", rec.Code, called)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"success":false`) {
		t.Errorf("401 body should use the response envelope, got %s", body)
	}
}

func TestRequireAdminBadHeaderShapes(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour)
	handler := RequireAdmin(m)(okHandler(nil))

	for _, header := range []string{"Basic abc", "Bearer", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
		req.Header.Set("Authorization", header)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: code = %d, want 401", header, rec.Code)
		}
	}
}

func TestRequireAdminValidToken(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour)
	token, err := m.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	handler := RequireAdmin(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Username != "admin" {
			t.Error("handler should see validated claims in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: code = %d, want 200", rec.Code)
	}
}

func TestRequireAdminRejectsNonAdminRole(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour)
	token, err := m.GenerateToken("viewer", "viewer")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	handler := RequireAdmin(m)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("non-admin role: code = %d, want 401", rec.Code)
	}
}
