// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package models

import (
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestEmotionScoresPrimary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		scores    EmotionScores
		wantLabel string
		wantScore float64
	}{
		{
			name:      "single dominant emotion",
			scores:    EmotionScores{Hasya: 0.71, Karuna: 0.2, Shanta: 0.3},
			wantLabel: RasaHasya,
			wantScore: 0.71,
		},
		{
			name:      "zero vector resolves to first label",
			scores:    EmotionScores{},
			wantLabel: RasaShringara,
			wantScore: 0,
		},
		{
			name:      "tie resolves to earlier canonical label",
			scores:    EmotionScores{Karuna: 0.5, Shanta: 0.5},
			wantLabel: RasaKaruna,
			wantScore: 0.5,
		},
		{
			name:      "last label can win",
			scores:    EmotionScores{Shringara: 0.1, Shanta: 0.9},
			wantLabel: RasaShanta,
			wantScore: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			label, score := tt.scores.Primary()
			if label != tt.wantLabel || score != tt.wantScore {
				t.Errorf("Primary() = (%q, %v), want (%q, %v)",
					label, score, tt.wantLabel, tt.wantScore)
			}
		})
	}
}

func TestEmotionScoresGet(t *testing.T) {
	t.Parallel()

	scores := EmotionScores{
		Shringara: 0.1, Hasya: 0.2, Karuna: 0.3, Raudra: 0.4, Veera: 0.5,
		Bhayanaka: 0.6, Bibhatsa: 0.7, Adbhuta: 0.8, Shanta: 0.9,
	}

	want := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	for i, label := range RasaLabels {
		if got := scores.Get(label); got != want[i] {
			t.Errorf("Get(%q) = %v, want %v", label, got, want[i])
		}
	}

	if got := scores.Get("nostalgia"); got != 0 {
		t.Errorf("Get(unknown) = %v, want 0", got)
	}
}

func TestEmotionScoresInRange(t *testing.T) {
	t.Parallel()

	if !(EmotionScores{Hasya: 1.0, Shanta: 0.0}).InRange() {
		t.Error("boundary values 0 and 1 should be in range")
	}
	if (EmotionScores{Raudra: 1.01}).InRange() {
		t.Error("score above 1 should be out of range")
	}
	if (EmotionScores{Veera: -0.01}).InRange() {
		t.Error("negative score should be out of range")
	}
}

func TestValidRasa(t *testing.T) {
	t.Parallel()

	for _, label := range RasaLabels {
		if !ValidRasa(label) {
			t.Errorf("ValidRasa(%q) = false, want true", label)
		}
	}
	for _, label := range []string{"", "joy", "Hasya", "shanta "} {
		if ValidRasa(label) {
			t.Errorf("ValidRasa(%q) = true, want false", label)
		}
	}
}

func TestValidContactStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied} {
		if !ValidContactStatus(status) {
			t.Errorf("ValidContactStatus(%q) = false, want true", status)
		}
	}
	if ValidContactStatus("archived") {
		t.Error("ValidContactStatus(archived) = true, want false")
	}
}

func TestAnalysisJSONOmitsFilePath(t *testing.T) {
	t.Parallel()

	a := Analysis{
		ID:             "a1",
		Filename:       "1700000000-1234.mp3",
		FileSize:       2048,
		FilePath:       "/data/uploads/1700000000-1234.mp3",
		Emotions:       EmotionScores{Hasya: 0.71},
		PrimaryEmotion: RasaHasya,
		Confidence:     0.71,
		CreatedAt:      time.Now(),
	}

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out := string(raw)
	if strings.Contains(out, "/data/uploads") || strings.Contains(out, "filePath") {
		t.Errorf("serialized analysis leaks file path: %s", out)
	}
	if !strings.Contains(out, `"primaryEmotion":"hasya"`) {
		t.Errorf("expected primaryEmotion field, got %s", out)
	}
	for _, label := range RasaLabels {
		if !strings.Contains(out, `"`+label+`"`) {
			t.Errorf("emotions object missing %q key: %s", label, out)
		}
	}
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPages int
	}{
		{"partial last page", 1, 12, 25, 3},
		{"exact multiple", 2, 12, 24, 2},
		{"empty collection", 1, 12, 0, 0},
		{"single record", 1, 20, 1, 1},
		{"zero limit guards division", 1, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPagination(tt.page, tt.limit, tt.total)
			if p.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", p.Pages, tt.wantPages)
			}
			if p.Page != tt.page || p.Limit != tt.limit || p.Total != tt.total {
				t.Errorf("Pagination = %+v, want page=%d limit=%d total=%d",
					p, tt.page, tt.limit, tt.total)
			}
		})
	}
}
