// Package google resolves the Google API credential the server runs with.
//
// Resolution walks an ordered list of strategies and stops at the first one
// that yields a usable credential: a base64-encoded service account blob,
// a service account key file, Application Default Credentials, a cached user
// token (refreshed once if expired), and finally an interactive OAuth
// consent flow on a local ephemeral port. Strategy failures are logged and
// skipped; only a missing client secrets file at the final strategy, or all
// strategies being exhausted, aborts resolution.
//
// The token cache uses the authorized-user JSON layout of the Google client
// libraries, so the same file can be shared with other tools.
package google
