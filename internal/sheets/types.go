package sheets

// SheetInfo describes a single sheet tab within a spreadsheet.
type SheetInfo struct {
	SheetID     int64  `json:"sheetId"`
	Title       string `json:"title"`
	Index       int64  `json:"index"`
	RowCount    int64  `json:"rowCount,omitempty"`
	ColumnCount int64  `json:"columnCount,omitempty"`
}

// SpreadsheetInfo describes a spreadsheet and its sheet tabs.
type SpreadsheetInfo struct {
	ID     string      `json:"spreadsheetId"`
	Title  string      `json:"title"`
	URL    string      `json:"spreadsheetUrl,omitempty"`
	Sheets []SheetInfo `json:"sheets"`
}

// SheetID returns the numeric sheet ID for a sheet title.
func (s *SpreadsheetInfo) SheetID(title string) (int64, bool) {
	for _, sheet := range s.Sheets {
		if sheet.Title == title {
			return sheet.SheetID, true
		}
	}
	return 0, false
}

// SheetTitles returns the sheet titles in spreadsheet order.
func (s *SpreadsheetInfo) SheetTitles() []string {
	titles := make([]string, len(s.Sheets))
	for i, sheet := range s.Sheets {
		titles[i] = sheet.Title
	}
	return titles
}

// UpdateResult reports the outcome of a values update. The JSON field names
// match the Sheets API response so tool output stays stable for clients that
// parse it.
type UpdateResult struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	UpdatedRange   string `json:"updatedRange"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
	UpdatedCells   int64  `json:"updatedCells"`
}

// BatchUpdateResult reports the outcome of a batch values update.
type BatchUpdateResult struct {
	SpreadsheetID       string         `json:"spreadsheetId"`
	TotalUpdatedRows    int64          `json:"totalUpdatedRows"`
	TotalUpdatedColumns int64          `json:"totalUpdatedColumns"`
	TotalUpdatedCells   int64          `json:"totalUpdatedCells"`
	TotalUpdatedSheets  int64          `json:"totalUpdatedSheets"`
	Responses           []UpdateResult `json:"responses"`
}

// AppendResult reports the outcome of appending rows.
type AppendResult struct {
	SpreadsheetID string        `json:"spreadsheetId"`
	TableRange    string        `json:"tableRange,omitempty"`
	Updates       *UpdateResult `json:"updates,omitempty"`
}

// ValueRange pairs an A1 range with the values to write there.
type ValueRange struct {
	Range  string
	Values [][]any
}

// BatchOpResult reports the outcome of a structural batch update, such as
// inserting dimensions or renaming a sheet.
type BatchOpResult struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Replies       int    `json:"replies"`
}

// CopyResult describes the sheet created by a copy-to operation.
type CopyResult struct {
	SheetID int64  `json:"sheetId"`
	Title   string `json:"title"`
	Index   int64  `json:"index"`
}
