package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	sheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// Client wraps the Google Sheets API service
type Client struct {
	service *sheets.Service
}

// NewClient creates a new Google Sheets client using the given token source
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

// GetValues reads cell values from a range in A1 notation. A bare sheet name
// reads the whole sheet. Empty trailing cells are omitted, matching the API.
func (c *Client) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if readRange == "" {
		return nil, fmt.Errorf("range is required")
	}

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values from %s: %w", readRange, err)
	}

	return resp.Values, nil
}

// GetFormulas reads cell formulas from a range in A1 notation. Cells without
// a formula yield their value.
func (c *Client) GetFormulas(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if readRange == "" {
		return nil, fmt.Errorf("range is required")
	}

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		Context(ctx).
		ValueRenderOption("FORMULA").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get formulas from %s: %w", readRange, err)
	}

	return resp.Values, nil
}

// GetGridData retrieves the full grid data for a range, including cell
// formatting and metadata. The raw API resource is returned because tools
// expose it verbatim.
func (c *Client) GetGridData(ctx context.Context, spreadsheetID, readRange string) (*sheets.Spreadsheet, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}

	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Context(ctx).
		Ranges(readRange).
		IncludeGridData(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get grid data for %s: %w", readRange, err)
	}

	return resp, nil
}

// UpdateValues writes cell values to a range in A1 notation using
// USER_ENTERED input semantics.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]any) (*UpdateResult, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if writeRange == "" {
		return nil, fmt.Errorf("range is required")
	}

	body := &sheets.ValueRange{Values: values}
	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, body).
		Context(ctx).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update values in %s: %w", writeRange, err)
	}

	return &UpdateResult{
		SpreadsheetID:  resp.SpreadsheetId,
		UpdatedRange:   resp.UpdatedRange,
		UpdatedRows:    resp.UpdatedRows,
		UpdatedColumns: resp.UpdatedColumns,
		UpdatedCells:   resp.UpdatedCells,
	}, nil
}

// BatchUpdateValues writes multiple ranges in a single request.
func (c *Client) BatchUpdateValues(ctx context.Context, spreadsheetID string, data []ValueRange) (*BatchUpdateResult, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("at least one range is required")
	}

	body := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
	}
	for _, vr := range data {
		body.Data = append(body.Data, &sheets.ValueRange{
			Range:  vr.Range,
			Values: vr.Values,
		})
	}

	resp, err := c.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, body).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to batch update values: %w", err)
	}

	result := &BatchUpdateResult{
		SpreadsheetID:       resp.SpreadsheetId,
		TotalUpdatedRows:    resp.TotalUpdatedRows,
		TotalUpdatedColumns: resp.TotalUpdatedColumns,
		TotalUpdatedCells:   resp.TotalUpdatedCells,
		TotalUpdatedSheets:  resp.TotalUpdatedSheets,
	}
	for _, r := range resp.Responses {
		result.Responses = append(result.Responses, UpdateResult{
			SpreadsheetID:  r.SpreadsheetId,
			UpdatedRange:   r.UpdatedRange,
			UpdatedRows:    r.UpdatedRows,
			UpdatedColumns: r.UpdatedColumns,
			UpdatedCells:   r.UpdatedCells,
		})
	}
	return result, nil
}

// AppendRows appends rows after the last row with data in a sheet.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, sheet string, values [][]any) (*AppendResult, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if sheet == "" {
		return nil, fmt.Errorf("sheet name is required")
	}

	body := &sheets.ValueRange{Values: values}
	resp, err := c.service.Spreadsheets.Values.Append(spreadsheetID, sheet, body).
		Context(ctx).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append rows to %s: %w", sheet, err)
	}

	result := &AppendResult{
		SpreadsheetID: resp.SpreadsheetId,
		TableRange:    resp.TableRange,
	}
	if resp.Updates != nil {
		result.Updates = &UpdateResult{
			SpreadsheetID:  resp.Updates.SpreadsheetId,
			UpdatedRange:   resp.Updates.UpdatedRange,
			UpdatedRows:    resp.Updates.UpdatedRows,
			UpdatedColumns: resp.Updates.UpdatedColumns,
			UpdatedCells:   resp.Updates.UpdatedCells,
		}
	}
	return result, nil
}

// GetInfo retrieves spreadsheet metadata: title, URL, and sheet properties.
func (c *Client) GetInfo(ctx context.Context, spreadsheetID string) (*SpreadsheetInfo, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}

	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Context(ctx).
		Fields("spreadsheetId", "spreadsheetUrl", "properties.title", "sheets.properties").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}

	return convertToSpreadsheetInfo(resp), nil
}

// InsertRows inserts empty rows at the given zero-based row index.
func (c *Client) InsertRows(ctx context.Context, spreadsheetID string, sheetID, start, count int64, inheritFromBefore bool) (*BatchOpResult, error) {
	return c.insertDimension(ctx, spreadsheetID, sheetID, "ROWS", start, count, inheritFromBefore)
}

// InsertColumns inserts empty columns at the given zero-based column index.
func (c *Client) InsertColumns(ctx context.Context, spreadsheetID string, sheetID, start, count int64, inheritFromBefore bool) (*BatchOpResult, error) {
	return c.insertDimension(ctx, spreadsheetID, sheetID, "COLUMNS", start, count, inheritFromBefore)
}

func (c *Client) insertDimension(ctx context.Context, spreadsheetID string, sheetID int64, dimension string, start, count int64, inheritFromBefore bool) (*BatchOpResult, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive")
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  dimension,
					StartIndex: start,
					EndIndex:   start + count,
				},
				InheritFromBefore: inheritFromBefore,
			},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", dimension, err)
	}

	return &BatchOpResult{
		SpreadsheetID: resp.SpreadsheetId,
		Replies:       len(resp.Replies),
	}, nil
}

// RenameSheet changes the title of a sheet tab.
func (c *Client) RenameSheet(ctx context.Context, spreadsheetID string, sheetID int64, newTitle string) (*BatchOpResult, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if newTitle == "" {
		return nil, fmt.Errorf("new title is required")
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					Title:   newTitle,
				},
				Fields: "title",
			},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	return &BatchOpResult{
		SpreadsheetID: resp.SpreadsheetId,
		Replies:       len(resp.Replies),
	}, nil
}

// CopySheetTo copies a sheet into another spreadsheet and returns the
// properties of the new sheet. The copy keeps the source title with a
// "Copy of" prefix; rename it separately if a different title is wanted.
func (c *Client) CopySheetTo(ctx context.Context, srcSpreadsheetID string, sheetID int64, dstSpreadsheetID string) (*CopyResult, error) {
	if srcSpreadsheetID == "" || dstSpreadsheetID == "" {
		return nil, fmt.Errorf("source and destination spreadsheet IDs are required")
	}

	req := &sheets.CopySheetToAnotherSpreadsheetRequest{
		DestinationSpreadsheetId: dstSpreadsheetID,
	}

	props, err := c.service.Spreadsheets.Sheets.CopyTo(srcSpreadsheetID, sheetID, req).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to copy sheet: %w", err)
	}

	return &CopyResult{
		SheetID: props.SheetId,
		Title:   props.Title,
		Index:   props.Index,
	}, nil
}

// CreateSpreadsheet creates a new spreadsheet with a single default sheet.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (*SpreadsheetInfo, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	body := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}

	resp, err := c.service.Spreadsheets.Create(body).
		Context(ctx).
		Fields("spreadsheetId", "spreadsheetUrl", "properties", "sheets").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return convertToSpreadsheetInfo(resp), nil
}

// AddSheet adds a new sheet tab to an existing spreadsheet.
func (c *Client) AddSheet(ctx context.Context, spreadsheetID, title string) (*SheetInfo, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return nil, fmt.Errorf("add sheet response carried no sheet properties")
	}

	props := resp.Replies[0].AddSheet.Properties
	info := &SheetInfo{
		SheetID: props.SheetId,
		Title:   props.Title,
		Index:   props.Index,
	}
	if props.GridProperties != nil {
		info.RowCount = props.GridProperties.RowCount
		info.ColumnCount = props.GridProperties.ColumnCount
	}
	return info, nil
}

// convertToSpreadsheetInfo converts a Sheets API Spreadsheet to our SpreadsheetInfo type
func convertToSpreadsheetInfo(s *sheets.Spreadsheet) *SpreadsheetInfo {
	info := &SpreadsheetInfo{
		ID:  s.SpreadsheetId,
		URL: s.SpreadsheetUrl,
	}
	if s.Properties != nil {
		info.Title = s.Properties.Title
	}

	for _, sheet := range s.Sheets {
		if sheet.Properties == nil {
			continue
		}
		si := SheetInfo{
			SheetID: sheet.Properties.SheetId,
			Title:   sheet.Properties.Title,
			Index:   sheet.Properties.Index,
		}
		if sheet.Properties.GridProperties != nil {
			si.RowCount = sheet.Properties.GridProperties.RowCount
			si.ColumnCount = sheet.Properties.GridProperties.ColumnCount
		}
		info.Sheets = append(info.Sheets, si)
	}
	return info
}
