// Package common provides the shared response adapter and argument
// helpers for MCP tool implementations. WrapHandler gives every tool
// the same response contract: structured content on success, a
// "Tool execution failed" text on error, and optional raw text when
// the caller sets the hidden raw_content flag.
package common
