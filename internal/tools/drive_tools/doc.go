// Package drive_tools registers the MCP tools backed by Google Drive:
// listing spreadsheets and managing sharing permissions.
package drive_tools
