// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package validation

import (
	"strings"
	"testing"
)

type contactForm struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email"`
	Subject string `validate:"required,max=200"`
	Message string `validate:"required,max=5000"`
}

type historyFilter struct {
	Emotion string `validate:"omitempty,rasa"`
	Status  string `validate:"omitempty,contact_status"`
	Page    int    `validate:"gte=1"`
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()

	form := contactForm{
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Feedback",
		Message: "The analyzer nailed the mood of my playlist.",
	}
	if verr := ValidateStruct(&form); verr != nil {
		t.Fatalf("valid form rejected: %v", verr)
	}
}

func TestValidateStructRequiredFields(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&contactForm{})
	if verr == nil {
		t.Fatal("empty form should fail validation")
	}
	if len(verr.Fields()) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(verr.Fields()), verr)
	}
	if !strings.Contains(verr.Message(), "Name is required") {
		t.Errorf("message should name the missing field, got %q", verr.Message())
	}
}

func TestValidateStructEmail(t *testing.T) {
	t.Parallel()

	form := contactForm{
		Name:    "Asha",
		Email:   "not-an-address",
		Subject: "Hi",
		Message: "Hello",
	}
	verr := ValidateStruct(&form)
	if verr == nil {
		t.Fatal("invalid email should fail validation")
	}
	if !strings.Contains(verr.Message(), "valid email address") {
		t.Errorf("message = %q, want email error", verr.Message())
	}
}

func TestRasaRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		emotion string
		wantOK  bool
	}{
		{"valid label", "hasya", true},
		{"empty is optional", "", true},
		{"unknown label", "melancholy", false},
		{"case sensitive", "Hasya", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&historyFilter{Emotion: tt.emotion, Page: 1})
			if (verr == nil) != tt.wantOK {
				t.Errorf("emotion %q: got err=%v, want ok=%v", tt.emotion, verr, tt.wantOK)
			}
		})
	}
}

func TestContactStatusRule(t *testing.T) {
	t.Parallel()

	if verr := ValidateStruct(&historyFilter{Status: "read", Page: 1}); verr != nil {
		t.Errorf("status read should pass, got %v", verr)
	}

	verr := ValidateStruct(&historyFilter{Status: "archived", Page: 1})
	if verr == nil {
		t.Fatal("unknown status should fail")
	}
	if !strings.Contains(verr.Message(), "new, read, or replied") {
		t.Errorf("message = %q, want status enumeration", verr.Message())
	}
}

func TestMinMaxMessages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&historyFilter{Page: 0})
	if verr == nil {
		t.Fatal("page 0 should fail")
	}
	if !strings.Contains(verr.Message(), "greater than or equal to 1") {
		t.Errorf("message = %q, want gte translation", verr.Message())
	}

	long := contactForm{
		Name:    strings.Repeat("a", 101),
		Email:   "a@example.com",
		Subject: "s",
		Message: "m",
	}
	verr = ValidateStruct(&long)
	if verr == nil {
		t.Fatal("oversized name should fail")
	}
	if !strings.Contains(verr.Message(), "at most 100 characters") {
		t.Errorf("message = %q, want string max translation", verr.Message())
	}
}
