package google

import (
	"os"
	"strings"
)

// DefaultScopes are the OAuth scopes requested by default.
//
// The Drive scope covers listing and sharing spreadsheets as well as moving
// newly created spreadsheets into a folder. Narrowing the scopes disables
// those operations at call time, not at startup.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// ScopesFromEnv returns the OAuth scopes to request, honoring the
// GOOGLE_SHEETS_SCOPES environment variable (comma-separated) when set.
// An empty or blank value falls back to DefaultScopes.
func ScopesFromEnv() []string {
	raw := os.Getenv(EnvScopes)
	if raw == "" {
		return DefaultScopes
	}

	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	if len(scopes) == 0 {
		return DefaultScopes
	}
	return scopes
}
