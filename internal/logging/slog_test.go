package logging

import (
	"log/slog"
	"strings"
	"testing"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "regular email", email: "alice@example.com"},
		{name: "another email", email: "bob@example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if !strings.HasPrefix(got, "user:") {
				t.Errorf("AnonymizeEmail(%q) = %q, expected user: prefix", tt.email, got)
			}
			if strings.Contains(got, tt.email) {
				t.Errorf("AnonymizeEmail(%q) = %q leaks the input", tt.email, got)
			}
			// Deterministic: same input hashes to the same value
			if again := AnonymizeEmail(tt.email); again != got {
				t.Errorf("AnonymizeEmail not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestAnonymizeEmailEmpty(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %q, expected empty string", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q, expected <empty>", got)
	}

	token := "ya29.a0AfB_secret_token_value"
	got := SanitizeToken(token)
	if strings.Contains(got, "ya29") {
		t.Errorf("SanitizeToken leaked token content: %q", got)
	}
	if got != "[token:28 chars]" {
		t.Errorf("SanitizeToken = %q, expected [token:28 chars]", got)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{name: "regular email", email: "alice@example.com", expected: "example.com"},
		{name: "empty", email: "", expected: ""},
		{name: "no at sign", email: "not-an-email", expected: ""},
		{name: "multiple at signs", email: "a@b@c", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.email); got != tt.expected {
				t.Errorf("ExtractDomain(%q) = %q, expected %q", tt.email, got, tt.expected)
			}
		})
	}
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	// A nil error should produce an empty group that slog omits
	if attr.Value.Kind() != slog.KindGroup {
		t.Errorf("Err(nil) kind = %v, expected group", attr.Value.Kind())
	}
	if len(attr.Value.Group()) != 0 {
		t.Errorf("Err(nil) group not empty: %v", attr.Value.Group())
	}
}
