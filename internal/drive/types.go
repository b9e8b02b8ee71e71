package drive

// SpreadsheetRef identifies a spreadsheet file in Drive. The JSON field
// names match the shape the list_spreadsheets tool exposes.
type SpreadsheetRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Permission describes a sharing permission on a file.
type Permission struct {
	ID           string `json:"id"`
	Type         string `json:"type,omitempty"`
	Role         string `json:"role,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Domain       string `json:"domain,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
}

// ShareOptions configures a sharing grant for a single user.
type ShareOptions struct {
	// EmailAddress receives the grant.
	EmailAddress string

	// Role is one of "reader", "commenter", or "writer".
	Role string

	// SendNotificationEmail controls whether Drive notifies the
	// recipient.
	SendNotificationEmail bool
}
