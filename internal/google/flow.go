package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
)

// FlowRunner obtains a user token through an OAuth authorization flow.
type FlowRunner interface {
	Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// LocalServerFlow runs the OAuth consent flow with a redirect handler on a
// local ephemeral port. The authorization URL is printed for the user to
// open; the handler captures the authorization code and the flow exchanges
// it for a token.
type LocalServerFlow struct {
	// Logger receives flow progress. Defaults to slog.Default().
	Logger *slog.Logger

	// Out is where the authorization URL is printed. Defaults to stderr,
	// keeping stdout free for the MCP stdio transport.
	Out io.Writer
}

// Run starts the local redirect server, prints the consent URL, and blocks
// until the authorization code arrives or ctx is cancelled.
func (f *LocalServerFlow) Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := f.Out
	if out == nil {
		out = os.Stderr
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("start local redirect server: %w", err)
	}
	defer listener.Close()

	// Rebind the redirect URL to the ephemeral port picked above.
	flowConf := *conf
	flowConf.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("generate state token: %w", err)
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errMsg := query.Get("error"); errMsg != "" {
			http.Error(w, "Authorization failed.", http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization denied: %s", errMsg)
			return
		}
		if query.Get("state") != state {
			http.Error(w, "Invalid state parameter.", http.StatusBadRequest)
			errCh <- errors.New("state parameter mismatch")
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			errCh <- errors.New("redirect request carried no authorization code")
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
		codeCh <- code
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("local redirect server: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := flowConf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following URL in your browser to authorize access:\n\n%s\n\n", authURL)
	logger.Info("waiting for interactive authorization",
		slog.String("redirect_url", flowConf.RedirectURL))

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization flow cancelled: %w", ctx.Err())
	}

	tok, err := flowConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
