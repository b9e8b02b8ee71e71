package google

import "os"

// Environment variables consulted during credential resolution.
const (
	EnvCredentialsConfig  = "CREDENTIALS_CONFIG"
	EnvServiceAccountPath = "SERVICE_ACCOUNT_PATH"
	EnvTokenPath          = "TOKEN_PATH"
	EnvCredentialsPath    = "CREDENTIALS_PATH"
	EnvScopes             = "GOOGLE_SHEETS_SCOPES"
)

// Default file locations, relative to the working directory.
const (
	DefaultServiceAccountPath = "service_account.json"
	DefaultTokenPath          = "token.json"
	DefaultCredentialsPath    = "credentials.json"
)

// Config holds the inputs for credential resolution.
type Config struct {
	// CredentialsConfig is a base64-encoded service account key JSON blob.
	// When set it takes precedence over every file-based strategy.
	CredentialsConfig string

	// ServiceAccountPath is the path to a service account key file.
	ServiceAccountPath string

	// TokenPath is the path to the cached user token
	// (authorized-user JSON).
	TokenPath string

	// CredentialsPath is the path to the OAuth client secrets file used
	// for the interactive consent flow.
	CredentialsPath string

	// Scopes are the OAuth scopes to request.
	Scopes []string
}

// ConfigFromEnv builds a Config from the environment, applying the default
// file locations for unset variables.
func ConfigFromEnv() Config {
	return Config{
		CredentialsConfig:  os.Getenv(EnvCredentialsConfig),
		ServiceAccountPath: envOrDefault(EnvServiceAccountPath, DefaultServiceAccountPath),
		TokenPath:          envOrDefault(EnvTokenPath, DefaultTokenPath),
		CredentialsPath:    envOrDefault(EnvCredentialsPath, DefaultCredentialsPath),
		Scopes:             ScopesFromEnv(),
	}
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
