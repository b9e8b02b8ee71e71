// Package logging provides structured logging utilities for the mcp-google-sheets server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (recipient email anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "sheets.values_get")
//	logger.Info("fetched values",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("spreadsheet shared",
//	    logging.Recipient(email))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Recipient emails are hashed to prevent PII leakage while allowing correlation
//   - Tokens are never logged directly
package logging
