package google

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

var authURLPattern = regexp.MustCompile(`https?://\S+`)

// syncBuffer guards the flow output against concurrent reads from the test
// goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// startFlow runs the flow in a goroutine and extracts the redirect URL and
// state parameter from the printed authorization URL.
func startFlow(t *testing.T, flow *LocalServerFlow, conf *oauth2.Config, out *syncBuffer) (redirect string, state string, done chan struct{}, result *struct {
	tok *oauth2.Token
	err error
}) {
	t.Helper()

	result = &struct {
		tok *oauth2.Token
		err error
	}{}
	done = make(chan struct{})
	go func() {
		defer close(done)
		result.tok, result.err = flow.Run(context.Background(), conf)
	}()

	// Wait for the authorization URL to be printed.
	deadline := time.Now().Add(5 * time.Second)
	var authURL string
	for time.Now().Before(deadline) {
		if m := authURLPattern.FindString(out.String()); m != "" {
			authURL = m
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if authURL == "" {
		t.Fatal("authorization URL never printed")
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse auth URL: %v", err)
	}
	query := parsed.Query()
	redirect = query.Get("redirect_uri")
	state = query.Get("state")
	if redirect == "" || state == "" {
		t.Fatalf("auth URL %q missing redirect_uri or state", authURL)
	}
	return redirect, state, done, result
}

func TestLocalServerFlow_Run(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if code := r.FormValue("code"); code != "auth-code-123" {
			http.Error(w, "wrong code: "+code, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "flow-access",
			"token_type":    "Bearer",
			"refresh_token": "flow-refresh",
			"expires_in":    3600,
		})
	}))
	defer tokenServer.Close()

	conf := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: tokenServer.URL,
		},
		Scopes: DefaultScopes,
	}

	var out syncBuffer
	flow := &LocalServerFlow{Out: &out}
	redirect, state, done, result := startFlow(t, flow, conf, &out)

	// Simulate the browser redirect with the authorization code.
	resp, err := http.Get(redirect + "?state=" + url.QueryEscape(state) + "&code=auth-code-123")
	if err != nil {
		t.Fatalf("redirect request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("redirect response status = %d, want 200", resp.StatusCode)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not finish")
	}

	if result.err != nil {
		t.Fatalf("Run: %v", result.err)
	}
	if result.tok.AccessToken != "flow-access" {
		t.Errorf("AccessToken = %q, want %q", result.tok.AccessToken, "flow-access")
	}
	if result.tok.RefreshToken != "flow-refresh" {
		t.Errorf("RefreshToken = %q, want %q", result.tok.RefreshToken, "flow-refresh")
	}

	// The auth URL requests offline access so a refresh token is issued.
	if !strings.Contains(out.String(), "access_type=offline") {
		t.Error("authorization URL does not request offline access")
	}
}

func TestLocalServerFlow_StateMismatch(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	var out syncBuffer
	flow := &LocalServerFlow{Out: &out}
	redirect, _, done, result := startFlow(t, flow, conf, &out)

	resp, err := http.Get(redirect + "?state=forged&code=auth-code-123")
	if err != nil {
		t.Fatalf("redirect request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("redirect response status = %d, want 400", resp.StatusCode)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not finish")
	}

	if result.err == nil {
		t.Fatal("expected error for state mismatch")
	}
	if !strings.Contains(result.err.Error(), "state") {
		t.Errorf("error %q does not mention state", result.err)
	}
}

func TestLocalServerFlow_AuthorizationDenied(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	var out syncBuffer
	flow := &LocalServerFlow{Out: &out}
	redirect, _, done, result := startFlow(t, flow, conf, &out)

	resp, err := http.Get(redirect + "?error=access_denied")
	if err != nil {
		t.Fatalf("redirect request: %v", err)
	}
	resp.Body.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not finish")
	}

	if result.err == nil {
		t.Fatal("expected error for denied authorization")
	}
	if !strings.Contains(result.err.Error(), "access_denied") {
		t.Errorf("error %q does not carry the provider error code", result.err)
	}
}

func TestLocalServerFlow_ContextCancelled(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	flow := &LocalServerFlow{Out: &out}

	done := make(chan error, 1)
	go func() {
		_, err := flow.Run(ctx, conf)
		done <- err
	}()

	// Let the flow start, then cancel before any redirect arrives.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not observe cancellation")
	}
}
