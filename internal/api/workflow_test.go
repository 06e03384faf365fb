// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/navarasa/analyzer/internal/models"
)

// TestAnalyzeWorkflow walks the full client journey: upload a clip, analyze
// it, find it in history, read the detail, delete it.
func TestAnalyzeWorkflow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		// The upload must reach the ML service as multipart field "file".
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if !strings.HasSuffix(header.Filename, ".wav") {
			http.Error(w, "unexpected filename", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.PredictionResult{
			Emotions: models.EmotionScores{
				Hasya:  0.71,
				Veera:  0.44,
				Shanta: 0.12,
			},
			PrimaryEmotion: models.RasaHasya,
			Confidence:     0.71,
			Duration:       183.4,
			Features: &models.AudioFeatures{
				Tempo:  126.0,
				Energy: 0.8,
				Key:    "D major",
			},
		})
	})

	payload := bytes.Repeat([]byte{0xA5}, 2<<20)
	fileID := env.uploadAudio(t, "bhangra.wav", payload)

	// Analyze.
	rec := env.doJSON(t, http.MethodPost, "/api/analyze", map[string]string{"fileId": fileID})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze: code = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != "Audio analyzed successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	data := resp.Data.(map[string]interface{})
	analysisID := data["id"].(string)
	if data["primaryEmotion"] != "hasya" || data["confidence"].(float64) != 0.71 {
		t.Errorf("prediction = %v %v, want hasya 0.71", data["primaryEmotion"], data["confidence"])
	}
	if data["duration"].(float64) != 183.4 {
		t.Errorf("duration = %v, want 183.4", data["duration"])
	}
	if features := data["audioFeatures"].(map[string]interface{}); features["key"] != "D major" {
		t.Errorf("audioFeatures = %v", features)
	}
	if _, leaked := data["filePath"]; leaked {
		t.Error("analysis response leaks filePath")
	}

	// All nine rasas present in the emotions block.
	emotions := data["emotions"].(map[string]interface{})
	for _, label := range models.RasaLabels {
		if _, ok := emotions[label]; !ok {
			t.Errorf("emotions missing %q", label)
		}
	}

	// History shows the record.
	rec = env.doJSON(t, http.MethodGet, "/api/history", nil)
	resp = decodeEnvelope(t, rec)
	analyses := resp.Data.(map[string]interface{})["analyses"].([]interface{})
	if len(analyses) != 1 {
		t.Fatalf("history has %d entries, want 1", len(analyses))
	}

	// Emotion filter matches and misses.
	rec = env.doJSON(t, http.MethodGet, "/api/history?emotion=hasya", nil)
	resp = decodeEnvelope(t, rec)
	if total := resp.Data.(map[string]interface{})["pagination"].(map[string]interface{})["total"].(float64); total != 1 {
		t.Errorf("hasya filter total = %v, want 1", total)
	}
	rec = env.doJSON(t, http.MethodGet, "/api/history?emotion=karuna", nil)
	resp = decodeEnvelope(t, rec)
	if total := resp.Data.(map[string]interface{})["pagination"].(map[string]interface{})["total"].(float64); total != 0 {
		t.Errorf("karuna filter total = %v, want 0", total)
	}

	// Detail.
	rec = env.doJSON(t, http.MethodGet, "/api/history/"+analysisID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: code = %d: %s", rec.Code, rec.Body.String())
	}

	// The stored audio is served for playback.
	req := httptest.NewRequest(http.MethodGet, "/uploads/"+fileID, nil)
	playRec := httptest.NewRecorder()
	env.router.ServeHTTP(playRec, req)
	if playRec.Code != http.StatusOK || playRec.Body.Len() != len(payload) {
		t.Errorf("playback: code = %d len = %d, want 200 with %d bytes",
			playRec.Code, playRec.Body.Len(), len(payload))
	}

	// Delete removes the record and the audio file.
	rec = env.doJSON(t, http.MethodDelete, "/api/history/"+analysisID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: code = %d: %s", rec.Code, rec.Body.String())
	}
	rec = env.doJSON(t, http.MethodGet, "/api/history/"+analysisID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted detail: code = %d, want 404", rec.Code)
	}
	if _, err := env.files.Resolve(fileID); err == nil {
		t.Error("audio file still on disk after delete")
	}
}

// TestSecurityHeaders checks the baseline headers are present on every
// response, including errors.
func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	rec := env.doJSON(t, http.MethodGet, "/api/nope", nil)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID header missing")
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS set on plain HTTP request: %q", got)
	}
}
