package sheets_tools

import (
	"context"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-google-sheets/internal/server"
	"github.com/teemow/mcp-google-sheets/internal/sheets"
)

func TestRegisterSheetsTools(t *testing.T) {
	for _, readOnly := range []bool{false, true} {
		sc := server.NewServerContext(context.Background(), server.Options{ReadOnly: readOnly})
		s := mcpserver.NewMCPServer("test", "0.0.1")

		if err := RegisterSheetsTools(s, sc); err != nil {
			t.Errorf("RegisterSheetsTools(readOnly=%v) error = %v", readOnly, err)
		}

		_ = sc.Shutdown()
	}
}

func TestFullRange(t *testing.T) {
	tests := []struct {
		name      string
		sheet     string
		cellRange string
		expected  string
	}{
		{
			name:      "sheet with range",
			sheet:     "Summary",
			cellRange: "A1:C10",
			expected:  "Summary!A1:C10",
		},
		{
			name:     "sheet only",
			sheet:    "Summary",
			expected: "Summary",
		},
		{
			name:      "sheet with spaces",
			sheet:     "Q1 Report",
			cellRange: "B2",
			expected:  "Q1 Report!B2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fullRange(tt.sheet, tt.cellRange); got != tt.expected {
				t.Errorf("fullRange(%q, %q) = %q, want %q", tt.sheet, tt.cellRange, got, tt.expected)
			}
		})
	}
}

func TestSheetNotFound(t *testing.T) {
	result := sheetNotFound("Missing")

	msg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("expected error key, got %v", result)
	}
	if msg != "Sheet 'Missing' not found" {
		t.Errorf("error message = %q", msg)
	}
	if len(result) != 1 {
		t.Errorf("expected only the error key, got %v", result)
	}
}

func TestDimensionArgs(t *testing.T) {
	args := map[string]any{
		"spreadsheet_id": "sheet123",
		"sheet":          "Summary",
		"count":          float64(3),
		"start_row":      float64(2),
	}

	spreadsheetID, sheet, start, count, err := dimensionArgs(args, "start_row")
	if err != nil {
		t.Fatalf("dimensionArgs() error = %v", err)
	}
	if spreadsheetID != "sheet123" || sheet != "Summary" {
		t.Errorf("dimensionArgs() = %q, %q", spreadsheetID, sheet)
	}
	if start != 2 || count != 3 {
		t.Errorf("dimensionArgs() start = %d, count = %d", start, count)
	}
}

func TestDimensionArgs_Defaults(t *testing.T) {
	args := map[string]any{
		"spreadsheet_id": "sheet123",
		"sheet":          "Summary",
		"count":          float64(1),
	}

	_, _, start, _, err := dimensionArgs(args, "start_row")
	if err != nil {
		t.Fatalf("dimensionArgs() error = %v", err)
	}
	if start != 0 {
		t.Errorf("start = %d, want 0 when omitted", start)
	}
}

func TestDimensionArgs_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		errContains string
	}{
		{
			name:        "missing spreadsheet id",
			args:        map[string]any{"sheet": "Summary", "count": float64(1)},
			errContains: "spreadsheet_id is required",
		},
		{
			name:        "missing sheet",
			args:        map[string]any{"spreadsheet_id": "sheet123", "count": float64(1)},
			errContains: "sheet is required",
		},
		{
			name:        "missing count",
			args:        map[string]any{"spreadsheet_id": "sheet123", "sheet": "Summary"},
			errContains: "count must be greater than zero",
		},
		{
			name: "zero count",
			args: map[string]any{
				"spreadsheet_id": "sheet123",
				"sheet":          "Summary",
				"count":          float64(0),
			},
			errContains: "count must be greater than zero",
		},
		{
			name: "negative start",
			args: map[string]any{
				"spreadsheet_id": "sheet123",
				"sheet":          "Summary",
				"count":          float64(1),
				"start_row":      float64(-1),
			},
			errContains: "start_row must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, _, err := dimensionArgs(tt.args, "start_row")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want containing %q", err, tt.errContains)
			}
		})
	}
}

func TestUpdateResultMap(t *testing.T) {
	result := updateResultMap(&sheets.UpdateResult{
		SpreadsheetID:  "sheet123",
		UpdatedRange:   "Summary!A1:B2",
		UpdatedRows:    2,
		UpdatedColumns: 2,
		UpdatedCells:   4,
	})

	if result["spreadsheetId"] != "sheet123" {
		t.Errorf("spreadsheetId = %v", result["spreadsheetId"])
	}
	if result["updatedRange"] != "Summary!A1:B2" {
		t.Errorf("updatedRange = %v", result["updatedRange"])
	}
	if result["updatedCells"] != int64(4) {
		t.Errorf("updatedCells = %v", result["updatedCells"])
	}
}
