package google

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	endpoints "golang.org/x/oauth2/google"
)

// expiryLayout matches the timestamp format the Google client libraries use
// when serializing authorized-user tokens.
const expiryLayout = "2006-01-02T15:04:05.999999Z"

// expiryLayouts lists the accepted formats when parsing, most common first.
var expiryLayouts = []string{
	expiryLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// CachedToken mirrors the authorized-user JSON layout shared by the Google
// client libraries. Reading and writing this exact shape keeps the cache
// interoperable with other tools pointed at the same file.
type CachedToken struct {
	Token          string   `json:"token"`
	RefreshToken   string   `json:"refresh_token"`
	TokenURI       string   `json:"token_uri"`
	ClientID       string   `json:"client_id"`
	ClientSecret   string   `json:"client_secret"`
	Scopes         []string `json:"scopes"`
	UniverseDomain string   `json:"universe_domain,omitempty"`
	Account        string   `json:"account,omitempty"`
	Expiry         string   `json:"expiry,omitempty"`
}

// NewCachedToken builds a CachedToken from an OAuth2 token and the client
// configuration that obtained it.
func NewCachedToken(tok *oauth2.Token, conf *oauth2.Config) *CachedToken {
	ct := &CachedToken{
		Token:          tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		TokenURI:       conf.Endpoint.TokenURL,
		ClientID:       conf.ClientID,
		ClientSecret:   conf.ClientSecret,
		Scopes:         conf.Scopes,
		UniverseDomain: "googleapis.com",
	}
	ct.SetExpiry(tok.Expiry)
	return ct
}

// ExpiryTime parses the serialized expiry timestamp. A zero time is returned
// when no expiry is recorded.
func (ct *CachedToken) ExpiryTime() (time.Time, error) {
	if ct.Expiry == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range expiryLayouts {
		t, err := time.Parse(layout, ct.Expiry)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse token expiry %q: %w", ct.Expiry, lastErr)
}

// SetExpiry records the expiry timestamp in the serialized format.
func (ct *CachedToken) SetExpiry(t time.Time) {
	if t.IsZero() {
		ct.Expiry = ""
		return
	}
	ct.Expiry = t.UTC().Format(expiryLayout)
}

// Valid reports whether the cached access token can be used without a
// refresh. Tokens within 30 seconds of expiry count as expired.
func (ct *CachedToken) Valid() bool {
	if ct.Token == "" {
		return false
	}
	expiry, err := ct.ExpiryTime()
	if err != nil {
		return false
	}
	// A token without an expiry timestamp never goes stale on its own.
	if expiry.IsZero() {
		return true
	}
	return time.Now().Add(30 * time.Second).Before(expiry)
}

// OAuth2Token converts the cached token to its oauth2 representation.
func (ct *CachedToken) OAuth2Token() *oauth2.Token {
	expiry, _ := ct.ExpiryTime()
	return &oauth2.Token{
		AccessToken:  ct.Token,
		TokenType:    "Bearer",
		RefreshToken: ct.RefreshToken,
		Expiry:       expiry,
	}
}

// OAuthConfig builds the oauth2 client configuration embedded in the cache,
// used to refresh the token against its original token endpoint.
func (ct *CachedToken) OAuthConfig() *oauth2.Config {
	tokenURL := ct.TokenURI
	if tokenURL == "" {
		tokenURL = endpoints.Endpoint.TokenURL
	}
	return &oauth2.Config{
		ClientID:     ct.ClientID,
		ClientSecret: ct.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		Scopes:       ct.Scopes,
	}
}

// TokenCache persists an authorized-user token at a fixed path.
type TokenCache struct {
	path string
}

// NewTokenCache creates a cache backed by the given file path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path returns the backing file path.
func (c *TokenCache) Path() string {
	return c.path
}

// Load reads and parses the cached token. A missing file returns an error
// wrapping os.ErrNotExist.
func (c *TokenCache) Load() (*CachedToken, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read token cache: %w", err)
	}

	var tok CachedToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token cache %s: %w", c.path, err)
	}
	return &tok, nil
}

// Save writes the token atomically: the JSON is written to a temporary file
// in the same directory and renamed over the target, so a concurrent reader
// never observes a partial write.
func (c *TokenCache) Save(tok *CachedToken) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create token cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temporary token file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("restrict token file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temporary token file: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace token cache: %w", err)
	}
	return nil
}
