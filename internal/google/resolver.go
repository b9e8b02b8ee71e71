package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/mcp-google-sheets/internal/instrumentation"
	"github.com/teemow/mcp-google-sheets/internal/logging"
)

// AuthMethod identifies how a credential was obtained.
type AuthMethod string

const (
	AuthServiceAccountConfig AuthMethod = "service_account_config"
	AuthServiceAccountFile   AuthMethod = "service_account_file"
	AuthApplicationDefault   AuthMethod = "application_default"
	AuthCachedToken          AuthMethod = "cached_token"
	AuthRefreshedToken       AuthMethod = "refreshed_token"
	AuthInteractiveFlow      AuthMethod = "oauth_interactive"
)

// Credential is the outcome of a successful resolution.
type Credential struct {
	// TokenSource mints access tokens for Google API clients.
	TokenSource oauth2.TokenSource

	// Method records which strategy produced the credential.
	Method AuthMethod
}

// fatalError aborts resolution instead of falling through to the next
// strategy.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// strategy is a single credential source tried during resolution.
// resolve returns (nil, nil) when the strategy does not apply.
type strategy struct {
	name    string
	resolve func(ctx context.Context) (*Credential, error)
}

// Resolver walks the ordered credential strategies.
type Resolver struct {
	// Config selects the inputs for each strategy.
	Config Config

	// Logger receives per-strategy progress. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics, when set, records strategy attempts and token refreshes.
	Metrics *instrumentation.Metrics

	// Flow runs the interactive consent flow. Defaults to a local
	// redirect server on an ephemeral port.
	Flow FlowRunner
}

// Resolve walks the default strategy order with the given configuration.
func Resolve(ctx context.Context, cfg Config) (*Credential, error) {
	r := &Resolver{Config: cfg}
	return r.Resolve(ctx)
}

// Resolve tries each strategy in order and returns the first credential.
// Strategy failures are logged and skipped. Resolution aborts early only
// when the interactive flow is reached without a client secrets file; when
// every strategy is exhausted the error names each one attempted.
func (r *Resolver) Resolve(ctx context.Context) (*Credential, error) {
	logger := r.logger()

	strategies := []strategy{
		{string(AuthServiceAccountConfig), r.fromCredentialsConfig},
		{string(AuthServiceAccountFile), r.fromServiceAccountFile},
		{string(AuthApplicationDefault), r.fromApplicationDefault},
		{string(AuthCachedToken), r.fromTokenCache},
		{string(AuthInteractiveFlow), r.fromInteractiveFlow},
	}

	attempted := make([]string, 0, len(strategies))
	for _, s := range strategies {
		attempted = append(attempted, s.name)

		cred, err := s.resolve(ctx)
		if err != nil {
			var fatal *fatalError
			if errors.As(err, &fatal) {
				r.recordResolution(ctx, s.name, instrumentation.AuthResultFailure)
				return nil, fatal.err
			}
			logger.Debug("credential strategy failed",
				logging.AuthMethod(s.name),
				logging.Err(err))
			r.recordResolution(ctx, s.name, instrumentation.AuthResultFailure)
			continue
		}
		if cred == nil {
			logger.Debug("credential strategy not applicable",
				logging.AuthMethod(s.name))
			r.recordResolution(ctx, s.name, instrumentation.AuthResultSkipped)
			continue
		}

		logger.Info("credentials resolved",
			logging.AuthMethod(string(cred.Method)))
		r.recordResolution(ctx, string(cred.Method), instrumentation.AuthResultSuccess)
		return cred, nil
	}

	return nil, fmt.Errorf("no usable Google credentials found (attempted strategies: %s)",
		strings.Join(attempted, ", "))
}

// fromCredentialsConfig parses a base64-encoded service account key from
// the environment.
func (r *Resolver) fromCredentialsConfig(ctx context.Context) (*Credential, error) {
	if r.Config.CredentialsConfig == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(r.Config.CredentialsConfig)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", EnvCredentialsConfig, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, r.Config.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials from %s: %w", EnvCredentialsConfig, err)
	}

	return &Credential{TokenSource: creds.TokenSource, Method: AuthServiceAccountConfig}, nil
}

// fromServiceAccountFile reads a service account key file.
func (r *Resolver) fromServiceAccountFile(ctx context.Context) (*Credential, error) {
	data, err := os.ReadFile(r.Config.ServiceAccountPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, r.Config.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account file %s: %w", r.Config.ServiceAccountPath, err)
	}

	return &Credential{TokenSource: creds.TokenSource, Method: AuthServiceAccountFile}, nil
}

// fromApplicationDefault looks up Application Default Credentials.
func (r *Resolver) fromApplicationDefault(ctx context.Context) (*Credential, error) {
	creds, err := google.FindDefaultCredentials(ctx, r.Config.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("application default credentials: %w", err)
	}

	return &Credential{TokenSource: creds.TokenSource, Method: AuthApplicationDefault}, nil
}

// fromTokenCache loads the cached user token. A valid token is used as-is
// without touching the file. An expired token with a refresh token is
// refreshed exactly once and the cache rewritten once.
func (r *Resolver) fromTokenCache(ctx context.Context) (*Credential, error) {
	cache := NewTokenCache(r.Config.TokenPath)

	tok, err := cache.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	conf := tok.OAuthConfig()
	if tok.Valid() {
		return &Credential{
			TokenSource: conf.TokenSource(ctx, tok.OAuth2Token()),
			Method:      AuthCachedToken,
		}, nil
	}

	if tok.RefreshToken == "" {
		return nil, errors.New("cached token expired and has no refresh token")
	}

	refreshed, err := conf.TokenSource(ctx, tok.OAuth2Token()).Token()
	if err != nil {
		r.recordRefresh(ctx, instrumentation.AuthResultFailure)
		return nil, fmt.Errorf("refresh cached token: %w", err)
	}
	r.recordRefresh(ctx, instrumentation.AuthResultSuccess)

	updated := *tok
	updated.Token = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		updated.RefreshToken = refreshed.RefreshToken
	}
	updated.SetExpiry(refreshed.Expiry)
	if err := cache.Save(&updated); err != nil {
		r.logger().Warn("failed to persist refreshed token", logging.Err(err))
	}

	return &Credential{
		TokenSource: conf.TokenSource(ctx, refreshed),
		Method:      AuthRefreshedToken,
	}, nil
}

// fromInteractiveFlow runs the OAuth consent flow using the client secrets
// file and persists the resulting token for the cache strategy. A missing
// secrets file is fatal: there is no later strategy to fall through to, and
// launching a browser flow without client secrets cannot succeed.
func (r *Resolver) fromInteractiveFlow(ctx context.Context) (*Credential, error) {
	data, err := os.ReadFile(r.Config.CredentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &fatalError{fmt.Errorf(
				"OAuth client secrets file %s not found: interactive authorization requires client secrets (set %s or provide a service account)",
				r.Config.CredentialsPath, EnvCredentialsPath)}
		}
		return nil, &fatalError{fmt.Errorf("read client secrets file: %w", err)}
	}

	conf, err := google.ConfigFromJSON(data, r.Config.Scopes...)
	if err != nil {
		return nil, &fatalError{fmt.Errorf("parse client secrets file %s: %w", r.Config.CredentialsPath, err)}
	}

	flow := r.Flow
	if flow == nil {
		flow = &LocalServerFlow{Logger: r.logger()}
	}

	tok, err := flow.Run(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("interactive authorization: %w", err)
	}

	if err := NewTokenCache(r.Config.TokenPath).Save(NewCachedToken(tok, conf)); err != nil {
		r.logger().Warn("failed to persist authorized token", logging.Err(err))
	}

	return &Credential{
		TokenSource: conf.TokenSource(ctx, tok),
		Method:      AuthInteractiveFlow,
	}, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Resolver) recordResolution(ctx context.Context, method, result string) {
	if r.Metrics != nil {
		r.Metrics.RecordAuthResolution(ctx, method, result)
	}
}

func (r *Resolver) recordRefresh(ctx context.Context, result string) {
	if r.Metrics != nil {
		r.Metrics.RecordOAuthTokenRefresh(ctx, result)
	}
}
