package google

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenCache_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cache := NewTokenCache(path)

	tok := &CachedToken{
		Token:          "ya29.access",
		RefreshToken:   "1//refresh",
		TokenURI:       "https://oauth2.googleapis.com/token",
		ClientID:       "client-id.apps.googleusercontent.com",
		ClientSecret:   "client-secret",
		Scopes:         DefaultScopes,
		UniverseDomain: "googleapis.com",
		Account:        "user@example.com",
	}
	tok.SetExpiry(time.Now().Add(time.Hour))

	if err := cache.Save(tok); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions = %o, want 0600", perm)
	}

	loaded, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Token != tok.Token {
		t.Errorf("Token = %q, want %q", loaded.Token, tok.Token)
	}
	if loaded.RefreshToken != tok.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, tok.RefreshToken)
	}
	if loaded.TokenURI != tok.TokenURI {
		t.Errorf("TokenURI = %q, want %q", loaded.TokenURI, tok.TokenURI)
	}
	if loaded.ClientID != tok.ClientID {
		t.Errorf("ClientID = %q, want %q", loaded.ClientID, tok.ClientID)
	}
	if len(loaded.Scopes) != len(tok.Scopes) {
		t.Errorf("Scopes = %v, want %v", loaded.Scopes, tok.Scopes)
	}
	if loaded.Expiry != tok.Expiry {
		t.Errorf("Expiry = %q, want %q", loaded.Expiry, tok.Expiry)
	}
}

func TestTokenCache_Load_Missing(t *testing.T) {
	cache := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))

	_, err := cache.Load()
	if err == nil {
		t.Fatal("expected error for missing token file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected error wrapping os.ErrNotExist, got %v", err)
	}
}

func TestTokenCache_Load_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := NewTokenCache(path).Load()
	if err == nil {
		t.Fatal("expected error for corrupt token file")
	}
}

func TestTokenCache_Save_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	cache := NewTokenCache(filepath.Join(dir, "token.json"))

	tok := &CachedToken{Token: "access"}
	if err := cache.Save(tok); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := cache.Save(tok); err != nil {
		t.Fatalf("Save (overwrite): %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected only token.json in directory, got %d entries", len(entries))
	}
}

func TestTokenCache_Save_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache", "token.json")

	if err := NewTokenCache(path).Save(&CachedToken{Token: "access"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("token file not created: %v", err)
	}
}

func TestCachedToken_Valid(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		expiry time.Time
		want   bool
	}{
		{"no access token", "", time.Now().Add(time.Hour), false},
		{"no expiry is usable", "access", time.Time{}, true},
		{"expired", "access", time.Now().Add(-time.Hour), false},
		{"expires within skew window", "access", time.Now().Add(10 * time.Second), false},
		{"valid", "access", time.Now().Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := &CachedToken{Token: tt.token}
			ct.SetExpiry(tt.expiry)
			if got := ct.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCachedToken_ExpiryTime_Formats(t *testing.T) {
	tests := []struct {
		name   string
		expiry string
	}{
		{"microseconds with Z", "2026-08-26T12:00:00.123456Z"},
		{"rfc3339 with offset", "2026-08-26T12:00:00+02:00"},
		{"bare seconds", "2026-08-26T12:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := &CachedToken{Expiry: tt.expiry}
			parsed, err := ct.ExpiryTime()
			if err != nil {
				t.Fatalf("ExpiryTime: %v", err)
			}
			if parsed.IsZero() {
				t.Error("expected non-zero expiry")
			}
		})
	}
}

func TestCachedToken_ExpiryTime_Invalid(t *testing.T) {
	ct := &CachedToken{Expiry: "not-a-timestamp"}
	if _, err := ct.ExpiryTime(); err == nil {
		t.Error("expected error for unparseable expiry")
	}
}

func TestCachedToken_SetExpiry_Zero(t *testing.T) {
	ct := &CachedToken{Expiry: "2026-08-26T12:00:00.000000Z"}
	ct.SetExpiry(time.Time{})
	if ct.Expiry != "" {
		t.Errorf("Expiry = %q, want empty", ct.Expiry)
	}
}

func TestNewCachedToken(t *testing.T) {
	conf := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     oauth2.Endpoint{TokenURL: "https://oauth2.googleapis.com/token"},
		Scopes:       DefaultScopes,
	}
	expiry := time.Now().Add(time.Hour)
	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}

	ct := NewCachedToken(tok, conf)

	if ct.Token != "access" {
		t.Errorf("Token = %q, want %q", ct.Token, "access")
	}
	if ct.RefreshToken != "refresh" {
		t.Errorf("RefreshToken = %q, want %q", ct.RefreshToken, "refresh")
	}
	if ct.ClientID != conf.ClientID {
		t.Errorf("ClientID = %q, want %q", ct.ClientID, conf.ClientID)
	}
	if ct.TokenURI != conf.Endpoint.TokenURL {
		t.Errorf("TokenURI = %q, want %q", ct.TokenURI, conf.Endpoint.TokenURL)
	}
	if ct.Expiry == "" {
		t.Error("expected serialized expiry")
	}

	parsed, err := ct.ExpiryTime()
	if err != nil {
		t.Fatalf("ExpiryTime: %v", err)
	}
	if diff := parsed.Sub(expiry.UTC()); diff > time.Millisecond || diff < -time.Millisecond {
		t.Errorf("expiry round-trip drifted by %v", diff)
	}
}

func TestCachedToken_OAuthConfig_DefaultTokenURL(t *testing.T) {
	ct := &CachedToken{ClientID: "id", ClientSecret: "secret"}
	conf := ct.OAuthConfig()
	if conf.Endpoint.TokenURL == "" {
		t.Error("expected fallback token URL for cache without token_uri")
	}
}
