package drive

import (
	"testing"

	drive "google.golang.org/api/drive/v3"
)

func TestBuildSpreadsheetQuery(t *testing.T) {
	tests := []struct {
		name     string
		folderID string
		expected string
	}{
		{
			name:     "no folder",
			folderID: "",
			expected: "mimeType='application/vnd.google-apps.spreadsheet'",
		},
		{
			name:     "folder scoped",
			folderID: "folder123",
			expected: "mimeType='application/vnd.google-apps.spreadsheet' and 'folder123' in parents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildSpreadsheetQuery(tt.folderID)
			if result != tt.expected {
				t.Errorf("buildSpreadsheetQuery(%q) = %q, want %q", tt.folderID, result, tt.expected)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"reader", "commenter", "writer"} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "owner", "editor", "Reader", "organizer"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}

func TestConvertToPermission(t *testing.T) {
	drivePermission := &drive.Permission{
		Id:           "perm456",
		Type:         "user",
		Role:         "writer",
		EmailAddress: "user@example.com",
		Domain:       "example.com",
		DisplayName:  "Example User",
	}

	permission := convertToPermission(drivePermission)

	if permission.ID != "perm456" {
		t.Errorf("Expected ID perm456, got %s", permission.ID)
	}
	if permission.Type != "user" {
		t.Errorf("Expected Type user, got %s", permission.Type)
	}
	if permission.Role != "writer" {
		t.Errorf("Expected Role writer, got %s", permission.Role)
	}
	if permission.EmailAddress != "user@example.com" {
		t.Errorf("Expected EmailAddress user@example.com, got %s", permission.EmailAddress)
	}
	if permission.Domain != "example.com" {
		t.Errorf("Expected Domain example.com, got %s", permission.Domain)
	}
	if permission.DisplayName != "Example User" {
		t.Errorf("Expected DisplayName 'Example User', got %s", permission.DisplayName)
	}
}

func TestConvertToPermission_MinimalData(t *testing.T) {
	drivePermission := &drive.Permission{
		Id:   "perm789",
		Type: "user",
		Role: "reader",
	}

	permission := convertToPermission(drivePermission)

	if permission.ID != "perm789" {
		t.Errorf("Expected ID perm789, got %s", permission.ID)
	}
	if permission.EmailAddress != "" {
		t.Errorf("Expected empty EmailAddress, got %s", permission.EmailAddress)
	}
	if permission.Domain != "" {
		t.Errorf("Expected empty Domain, got %s", permission.Domain)
	}
}

func TestSpreadsheetMimeType(t *testing.T) {
	expected := "application/vnd.google-apps.spreadsheet"
	if SpreadsheetMimeType != expected {
		t.Errorf("Expected SpreadsheetMimeType %s, got %s", expected, SpreadsheetMimeType)
	}
}
