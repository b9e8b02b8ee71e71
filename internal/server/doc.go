// Package server provides the MCP server context and the operational
// HTTP endpoints that surround it.
//
// ServerContext holds the Google Sheets and Drive clients for the
// lifetime of the process, together with the working folder and the
// read-only flag that gates mutating tools. Credentials are resolved
// once at startup, so tool handlers never deal with authentication.
//
// HealthChecker exposes /healthz and /readyz for Kubernetes probes,
// and MetricsServer serves Prometheus metrics on a dedicated port so
// operational data stays off the MCP transport.
package server
