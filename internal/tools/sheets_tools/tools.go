package sheets_tools

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-google-sheets/internal/server"
)

// RegisterSheetsTools registers all Sheets-related tools with the MCP server.
// Tools that modify spreadsheet data are only registered when the server
// is not in read-only mode.
func RegisterSheetsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerDataTools(s, sc); err != nil {
		return fmt.Errorf("failed to register data tools: %w", err)
	}

	if err := registerStructureTools(s, sc); err != nil {
		return fmt.Errorf("failed to register structure tools: %w", err)
	}

	return nil
}

// fullRange builds an A1 range scoped to a sheet. An empty range selects
// the whole sheet.
func fullRange(sheet, cellRange string) string {
	if cellRange == "" {
		return sheet
	}
	return fmt.Sprintf("%s!%s", sheet, cellRange)
}

// sheetNotFound is the business-level miss for a sheet title lookup. It
// is an ordinary success value, not a handler error.
func sheetNotFound(sheet string) map[string]any {
	return map[string]any{"error": fmt.Sprintf("Sheet '%s' not found", sheet)}
}

// lookupSheetID resolves a sheet title to its numeric ID.
func lookupSheetID(ctx context.Context, sc *server.ServerContext, spreadsheetID, sheet string) (int64, bool, error) {
	info, err := sc.SheetsClient().GetInfo(ctx, spreadsheetID)
	if err != nil {
		return 0, false, err
	}
	id, ok := info.SheetID(sheet)
	return id, ok, nil
}
