package sheets_tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-google-sheets/internal/server"
	"github.com/teemow/mcp-google-sheets/internal/tools/common"
)

// registerStructureTools registers the tools that manage sheets and
// spreadsheets themselves rather than cell data.
func registerStructureTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerListSheets(s, sc)

	if !sc.ReadOnly() {
		registerInsertEmptyRows(s, sc)
		registerAddColumns(s, sc)
		registerCopySheet(s, sc)
		registerRenameSheet(s, sc)
		registerCreateSpreadsheet(s, sc)
		registerCreateSheet(s, sc)
	}

	return nil
}

func registerListSheets(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("list_sheets",
		mcp.WithDescription("List all sheets in a Google Spreadsheet"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
	)

	s.AddTool(tool, common.WrapHandler("list_sheets", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}

		info, err := sc.SheetsClient().GetInfo(ctx, spreadsheetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sheets": info.SheetTitles()}, nil
	}))
}

func registerInsertEmptyRows(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("insert_empty_rows",
		mcp.WithDescription("Insert empty rows into a sheet in a Google Spreadsheet"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet"),
		),
		mcp.WithNumber("count",
			mcp.Required(),
			mcp.Description("Number of rows to insert"),
		),
		mcp.WithNumber("start_row",
			mcp.Description("Zero-based row index to insert at (default: 0, the top of the sheet)"),
		),
	)

	s.AddTool(tool, common.WrapHandler("insert_empty_rows", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, sheet, start, count, err := dimensionArgs(args, "start_row")
		if err != nil {
			return nil, err
		}

		sheetID, found, err := lookupSheetID(ctx, sc, spreadsheetID, sheet)
		if err != nil {
			return nil, err
		}
		if !found {
			return sheetNotFound(sheet), nil
		}

		result, err := sc.SheetsClient().InsertRows(ctx, spreadsheetID, sheetID, start, count, start > 0)
		if err != nil {
			return nil, err
		}
		return map[string]any{"spreadsheetId": result.SpreadsheetID, "replies": result.Replies}, nil
	}))
}

func registerAddColumns(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("add_columns",
		mcp.WithDescription("Add columns to a sheet in a Google Spreadsheet"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet"),
		),
		mcp.WithNumber("count",
			mcp.Required(),
			mcp.Description("Number of columns to add"),
		),
		mcp.WithNumber("start_column",
			mcp.Description("Zero-based column index to insert at (default: 0, the left edge)"),
		),
	)

	s.AddTool(tool, common.WrapHandler("add_columns", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, sheet, start, count, err := dimensionArgs(args, "start_column")
		if err != nil {
			return nil, err
		}

		sheetID, found, err := lookupSheetID(ctx, sc, spreadsheetID, sheet)
		if err != nil {
			return nil, err
		}
		if !found {
			return sheetNotFound(sheet), nil
		}

		result, err := sc.SheetsClient().InsertColumns(ctx, spreadsheetID, sheetID, start, count, start > 0)
		if err != nil {
			return nil, err
		}
		return map[string]any{"spreadsheetId": result.SpreadsheetID, "replies": result.Replies}, nil
	}))
}

func registerCopySheet(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("copy_sheet",
		mcp.WithDescription("Copy a sheet from one spreadsheet to another"),
		mcp.WithString("src_spreadsheet",
			mcp.Required(),
			mcp.Description("The ID of the source spreadsheet"),
		),
		mcp.WithString("src_sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet to copy"),
		),
		mcp.WithString("dst_spreadsheet",
			mcp.Required(),
			mcp.Description("The ID of the destination spreadsheet"),
		),
		mcp.WithString("dst_sheet",
			mcp.Required(),
			mcp.Description("The name the copied sheet should get in the destination"),
		),
	)

	s.AddTool(tool, common.WrapHandler("copy_sheet", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		srcSpreadsheet, err := common.RequiredStringArg(args, "src_spreadsheet")
		if err != nil {
			return nil, err
		}
		srcSheet, err := common.RequiredStringArg(args, "src_sheet")
		if err != nil {
			return nil, err
		}
		dstSpreadsheet, err := common.RequiredStringArg(args, "dst_spreadsheet")
		if err != nil {
			return nil, err
		}
		dstSheet, err := common.RequiredStringArg(args, "dst_sheet")
		if err != nil {
			return nil, err
		}

		srcSheetID, found, err := lookupSheetID(ctx, sc, srcSpreadsheet, srcSheet)
		if err != nil {
			return nil, err
		}
		if !found {
			return map[string]any{"error": fmt.Sprintf("Source sheet '%s' not found", srcSheet)}, nil
		}

		copied, err := sc.SheetsClient().CopySheetTo(ctx, srcSpreadsheet, srcSheetID, dstSpreadsheet)
		if err != nil {
			return nil, err
		}

		copyMap := map[string]any{
			"sheetId": copied.SheetID,
			"title":   copied.Title,
			"index":   copied.Index,
		}

		// The API names the copy "Copy of <title>", so a rename is
		// usually needed to reach the requested destination name.
		if copied.Title != dstSheet {
			renamed, err := sc.SheetsClient().RenameSheet(ctx, dstSpreadsheet, copied.SheetID, dstSheet)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"copy":   copyMap,
				"rename": map[string]any{"spreadsheetId": renamed.SpreadsheetID, "replies": renamed.Replies},
			}, nil
		}

		return map[string]any{"copy": copyMap}, nil
	}))
}

func registerRenameSheet(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("rename_sheet",
		mcp.WithDescription("Rename a sheet in a Google Spreadsheet"),
		mcp.WithString("spreadsheet",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The current name of the sheet"),
		),
		mcp.WithString("new_name",
			mcp.Required(),
			mcp.Description("The new name for the sheet"),
		),
	)

	s.AddTool(tool, common.WrapHandler("rename_sheet", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet")
		if err != nil {
			return nil, err
		}
		sheet, err := common.RequiredStringArg(args, "sheet")
		if err != nil {
			return nil, err
		}
		newName, err := common.RequiredStringArg(args, "new_name")
		if err != nil {
			return nil, err
		}

		sheetID, found, err := lookupSheetID(ctx, sc, spreadsheetID, sheet)
		if err != nil {
			return nil, err
		}
		if !found {
			return sheetNotFound(sheet), nil
		}

		result, err := sc.SheetsClient().RenameSheet(ctx, spreadsheetID, sheetID, newName)
		if err != nil {
			return nil, err
		}
		return map[string]any{"spreadsheetId": result.SpreadsheetID, "replies": result.Replies}, nil
	}))
}

func registerCreateSpreadsheet(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("create_spreadsheet",
		mcp.WithDescription("Create a new Google Spreadsheet. When a working folder is configured the spreadsheet is moved into it."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new spreadsheet"),
		),
	)

	s.AddTool(tool, common.WrapHandler("create_spreadsheet", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		title, err := common.RequiredStringArg(args, "title")
		if err != nil {
			return nil, err
		}

		info, err := sc.SheetsClient().CreateSpreadsheet(ctx, title)
		if err != nil {
			return nil, err
		}

		folder := "root"
		if folderID := sc.FolderID(); folderID != "" {
			// A failed move leaves the spreadsheet in the Drive root,
			// which is still a usable result.
			if err := sc.DriveClient().MoveToFolder(ctx, info.ID, folderID); err != nil {
				slog.Warn("could not move spreadsheet to folder",
					"spreadsheet_id", info.ID,
					"folder_id", folderID,
					"error", err)
			}
			folder = folderID
		}

		return map[string]any{
			"spreadsheetId": info.ID,
			"title":         info.Title,
			"folder":        folder,
		}, nil
	}))
}

func registerCreateSheet(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("create_sheet",
		mcp.WithDescription("Create a new sheet tab in an existing Google Spreadsheet"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet (found in the URL)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new sheet"),
		),
	)

	s.AddTool(tool, common.WrapHandler("create_sheet", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		title, err := common.RequiredStringArg(args, "title")
		if err != nil {
			return nil, err
		}

		sheet, err := sc.SheetsClient().AddSheet(ctx, spreadsheetID, title)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"sheetId":       sheet.SheetID,
			"title":         sheet.Title,
			"spreadsheetId": spreadsheetID,
		}, nil
	}))
}

// dimensionArgs extracts the shared arguments of the row and column
// insertion tools.
func dimensionArgs(args map[string]any, startKey string) (spreadsheetID, sheet string, start, count int64, err error) {
	spreadsheetID, err = common.RequiredStringArg(args, "spreadsheet_id")
	if err != nil {
		return "", "", 0, 0, err
	}
	sheet, err = common.RequiredStringArg(args, "sheet")
	if err != nil {
		return "", "", 0, 0, err
	}

	countInt := common.IntArg(args, "count", 0)
	if countInt <= 0 {
		return "", "", 0, 0, fmt.Errorf("count must be greater than zero")
	}
	startInt := common.IntArg(args, startKey, 0)
	if startInt < 0 {
		return "", "", 0, 0, fmt.Errorf("%s must not be negative", startKey)
	}

	return spreadsheetID, sheet, int64(startInt), int64(countInt), nil
}
