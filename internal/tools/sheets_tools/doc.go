// Package sheets_tools registers the MCP tools that operate on Google
// Sheets: reading and writing cell data, managing sheet tabs, and
// creating spreadsheets. Mutating tools are skipped when the server
// runs in read-only mode.
package sheets_tools
