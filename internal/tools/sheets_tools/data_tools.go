package sheets_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-google-sheets/internal/server"
	"github.com/teemow/mcp-google-sheets/internal/sheets"
	"github.com/teemow/mcp-google-sheets/internal/tools/common"
)

// registerDataTools registers the tools that read and write cell values.
func registerDataTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerGetSheetData(s, sc)
	registerGetSheetFormulas(s, sc)
	registerGetMultipleSheetData(s, sc)
	registerGetMultipleSpreadsheetSummary(s, sc)

	if !sc.ReadOnly() {
		registerUpdateCells(s, sc)
		registerBatchUpdateCells(s, sc)
		registerAddRows(s, sc)
	}

	return nil
}

func registerGetSheetData(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("get_sheet_data",
		mcp.WithDescription("Get data from a specific sheet. Returns a 2D array of cell values or full grid data."),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet"),
		),
		mcp.WithString("range",
			mcp.Description("Optional cell range in A1 notation (e.g., 'A1:C10'). If omitted, the whole sheet is read."),
		),
		mcp.WithBoolean("include_grid_data",
			mcp.Description("Set to true to return full grid data including formatting instead of plain values"),
		),
	)

	s.AddTool(tool, common.WrapHandler("get_sheet_data", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		sheet, err := common.RequiredStringArg(args, "sheet")
		if err != nil {
			return nil, err
		}
		readRange := fullRange(sheet, common.StringArg(args, "range"))

		if common.BoolArg(args, "include_grid_data") {
			grid, err := sc.SheetsClient().GetGridData(ctx, spreadsheetID, readRange)
			if err != nil {
				return nil, err
			}
			return map[string]any{"grid_data": grid}, nil
		}

		values, err := sc.SheetsClient().GetValues(ctx, spreadsheetID, readRange)
		if err != nil {
			return nil, err
		}
		return map[string]any{"values": values}, nil
	}))
}

func registerGetSheetFormulas(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("get_sheet_formulas",
		mcp.WithDescription("Get formulas from a specific sheet in a Google Spreadsheet"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet"),
		),
		mcp.WithString("range",
			mcp.Description("Optional cell range in A1 notation"),
		),
	)

	s.AddTool(tool, common.WrapHandler("get_sheet_formulas", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		sheet, err := common.RequiredStringArg(args, "sheet")
		if err != nil {
			return nil, err
		}

		formulas, err := sc.SheetsClient().GetFormulas(ctx, spreadsheetID, fullRange(sheet, common.StringArg(args, "range")))
		if err != nil {
			return nil, err
		}
		return map[string]any{"formulas": formulas}, nil
	}))
}

func registerUpdateCells(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("update_cells",
		mcp.WithDescription("Update cells in a Google Spreadsheet. Values are parsed as if typed by the user."),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("Cell range in A1 notation (e.g., 'A1:C10')"),
		),
		mcp.WithArray("data",
			mcp.Required(),
			mcp.Description("2D array of cell values to write"),
		),
	)

	s.AddTool(tool, common.WrapHandler("update_cells", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		sheet, err := common.RequiredStringArg(args, "sheet")
		if err != nil {
			return nil, err
		}
		cellRange, err := common.RequiredStringArg(args, "range")
		if err != nil {
			return nil, err
		}
		data, err := common.RowsArg(args, "data")
		if err != nil {
			return nil, err
		}

		result, err := sc.SheetsClient().UpdateValues(ctx, spreadsheetID, fmt.Sprintf("%s!%s", sheet, cellRange), data)
		if err != nil {
			return nil, err
		}
		return updateResultMap(result), nil
	}))
}

func registerBatchUpdateCells(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("batch_update_cells",
		mcp.WithDescription("Batch update multiple ranges in a Google Spreadsheet in a single call"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet"),
		),
		mcp.WithObject("ranges",
			mcp.Required(),
			mcp.Description("Object mapping A1 ranges to 2D arrays of values, e.g. {\"A1:B2\": [[1, 2], [3, 4]]}"),
		),
	)

	s.AddTool(tool, common.WrapHandler("batch_update_cells", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		sheet, err := common.RequiredStringArg(args, "sheet")
		if err != nil {
			return nil, err
		}
		ranges, ok := args["ranges"].(map[string]any)
		if !ok || len(ranges) == 0 {
			return nil, fmt.Errorf("ranges is required and must map A1 ranges to values")
		}

		data := make([]sheets.ValueRange, 0, len(ranges))
		for cellRange, rawValues := range ranges {
			rows, err := common.RowsArg(map[string]any{"values": rawValues}, "values")
			if err != nil {
				return nil, fmt.Errorf("range %s: %w", cellRange, err)
			}
			data = append(data, sheets.ValueRange{
				Range:  fmt.Sprintf("%s!%s", sheet, cellRange),
				Values: rows,
			})
		}

		result, err := sc.SheetsClient().BatchUpdateValues(ctx, spreadsheetID, data)
		if err != nil {
			return nil, err
		}

		responses := make([]map[string]any, 0, len(result.Responses))
		for i := range result.Responses {
			responses = append(responses, updateResultMap(&result.Responses[i]))
		}
		return map[string]any{
			"spreadsheetId":       result.SpreadsheetID,
			"totalUpdatedRows":    result.TotalUpdatedRows,
			"totalUpdatedColumns": result.TotalUpdatedColumns,
			"totalUpdatedCells":   result.TotalUpdatedCells,
			"totalUpdatedSheets":  result.TotalUpdatedSheets,
			"responses":           responses,
		}, nil
	}))
}

func registerAddRows(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("add_rows",
		mcp.WithDescription("Append rows to the end of a sheet (after the last row with data)"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet"),
		),
		mcp.WithArray("data",
			mcp.Required(),
			mcp.Description("2D array of row values to append"),
		),
	)

	s.AddTool(tool, common.WrapHandler("add_rows", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		sheet, err := common.RequiredStringArg(args, "sheet")
		if err != nil {
			return nil, err
		}
		data, err := common.RowsArg(args, "data")
		if err != nil {
			return nil, err
		}

		result, err := sc.SheetsClient().AppendRows(ctx, spreadsheetID, sheet, data)
		if err != nil {
			return nil, err
		}

		out := map[string]any{
			"spreadsheetId": result.SpreadsheetID,
			"tableRange":    result.TableRange,
		}
		if result.Updates != nil {
			out["updates"] = updateResultMap(result.Updates)
		}
		return out, nil
	}))
}

func registerGetMultipleSheetData(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("get_multiple_sheet_data",
		mcp.WithDescription("Get data from multiple specific ranges in Google Spreadsheets"),
		mcp.WithArray("queries",
			mcp.Required(),
			mcp.Description("A list of query objects with 'spreadsheet_id', 'sheet', and 'range' keys"),
		),
	)

	s.AddTool(tool, common.WrapHandler("get_multiple_sheet_data", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		rawQueries, ok := args["queries"].([]any)
		if !ok {
			return nil, fmt.Errorf("queries is required and must be a list")
		}

		// A failing query only fails its own entry, the rest still run.
		results := make([]map[string]any, 0, len(rawQueries))
		for _, rawQuery := range rawQueries {
			query, ok := rawQuery.(map[string]any)
			if !ok {
				results = append(results, map[string]any{"error": "Query must be an object"})
				continue
			}

			entry := make(map[string]any, len(query)+1)
			for k, v := range query {
				entry[k] = v
			}

			spreadsheetID := common.StringArg(query, "spreadsheet_id")
			sheet := common.StringArg(query, "sheet")
			cellRange := common.StringArg(query, "range")
			if spreadsheetID == "" || sheet == "" || cellRange == "" {
				entry["error"] = "Missing required keys"
				results = append(results, entry)
				continue
			}

			values, err := sc.SheetsClient().GetValues(ctx, spreadsheetID, fullRange(sheet, cellRange))
			if err != nil {
				entry["error"] = err.Error()
			} else {
				entry["data"] = values
			}
			results = append(results, entry)
		}

		return results, nil
	}))
}

func registerGetMultipleSpreadsheetSummary(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("get_multiple_spreadsheet_summary",
		mcp.WithDescription("Get a summary of multiple Google Spreadsheets including sheet names, headers and first rows"),
		mcp.WithArray("spreadsheet_ids",
			mcp.Required(),
			mcp.Description("A list of spreadsheet IDs to summarize"),
		),
		mcp.WithNumber("rows_to_fetch",
			mcp.Description("Number of rows to fetch per sheet for the summary (default: 5)"),
		),
	)

	s.AddTool(tool, common.WrapHandler("get_multiple_spreadsheet_summary", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetIDs := common.StringSliceArg(args, "spreadsheet_ids")
		if len(spreadsheetIDs) == 0 {
			return nil, fmt.Errorf("spreadsheet_ids is required")
		}
		rowsToFetch := common.IntArg(args, "rows_to_fetch", 5)
		if rowsToFetch < 1 {
			rowsToFetch = 1
		}

		summaries := make([]map[string]any, 0, len(spreadsheetIDs))
		for _, spreadsheetID := range spreadsheetIDs {
			summaries = append(summaries, summarizeSpreadsheet(ctx, sc, spreadsheetID, rowsToFetch))
		}
		return summaries, nil
	}))
}

// summarizeSpreadsheet collects the title, sheet names, headers and
// leading rows of one spreadsheet. Errors are recorded per spreadsheet
// and per sheet so one bad ID does not fail the whole summary.
func summarizeSpreadsheet(ctx context.Context, sc *server.ServerContext, spreadsheetID string, rowsToFetch int) map[string]any {
	summary := map[string]any{
		"spreadsheet_id": spreadsheetID,
		"title":          nil,
		"sheets":         []map[string]any{},
		"error":          nil,
	}

	info, err := sc.SheetsClient().GetInfo(ctx, spreadsheetID)
	if err != nil {
		summary["error"] = fmt.Sprintf("Error fetching spreadsheet %s: %v", spreadsheetID, err)
		return summary
	}

	summary["title"] = info.Title
	sheetSummaries := make([]map[string]any, 0, len(info.Sheets))
	for _, sheet := range info.Sheets {
		sheetSummary := map[string]any{
			"title":      sheet.Title,
			"headers":    []any{},
			"first_rows": [][]any{},
			"error":      nil,
		}

		values, err := sc.SheetsClient().GetValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1:%d", sheet.Title, rowsToFetch))
		if err != nil {
			sheetSummary["error"] = fmt.Sprintf("Error fetching data for sheet %s: %v", sheet.Title, err)
		} else if len(values) > 0 {
			sheetSummary["headers"] = values[0]
			if len(values) > 1 {
				end := rowsToFetch
				if end > len(values) {
					end = len(values)
				}
				sheetSummary["first_rows"] = values[1:end]
			}
		}
		sheetSummaries = append(sheetSummaries, sheetSummary)
	}
	summary["sheets"] = sheetSummaries

	return summary
}

// updateResultMap renders an update result with the Sheets API field
// names clients already know.
func updateResultMap(r *sheets.UpdateResult) map[string]any {
	return map[string]any{
		"spreadsheetId":  r.SpreadsheetID,
		"updatedRange":   r.UpdatedRange,
		"updatedRows":    r.UpdatedRows,
		"updatedColumns": r.UpdatedColumns,
		"updatedCells":   r.UpdatedCells,
	}
}
