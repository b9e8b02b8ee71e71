package drive

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	// SpreadsheetMimeType is the MIME type for Google Sheets files
	SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
)

// validRoles are the sharing roles accepted for spreadsheet grants.
var validRoles = map[string]bool{
	"reader":    true,
	"commenter": true,
	"writer":    true,
}

// IsValidRole reports whether role is an accepted sharing role.
func IsValidRole(role string) bool {
	return validRoles[role]
}

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

// NewClient creates a new Google Drive client using the given token source
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// buildSpreadsheetQuery builds the Drive search query for spreadsheet files,
// scoped to a folder when folderID is set.
func buildSpreadsheetQuery(folderID string) string {
	query := fmt.Sprintf("mimeType='%s'", SpreadsheetMimeType)
	if folderID != "" {
		query += fmt.Sprintf(" and '%s' in parents", folderID)
	}
	return query
}

// ListSpreadsheets lists spreadsheet files ordered by modification time,
// most recent first. When folderID is set only that folder is searched.
func (c *Client) ListSpreadsheets(ctx context.Context, folderID string) ([]SpreadsheetRef, error) {
	fileList, err := c.service.Files.List().
		Context(ctx).
		Q(buildSpreadsheetQuery(folderID)).
		Spaces("drive").
		OrderBy("modifiedTime desc").
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list spreadsheets: %w", err)
	}

	refs := make([]SpreadsheetRef, len(fileList.Files))
	for i, f := range fileList.Files {
		refs[i] = SpreadsheetRef{ID: f.Id, Title: f.Name}
	}
	return refs, nil
}

// MoveToFolder moves a file into a folder, detaching it from its current
// parents.
func (c *Client) MoveToFolder(ctx context.Context, fileID, folderID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	if folderID == "" {
		return fmt.Errorf("folderID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields("parents").
		Do()
	if err != nil {
		return fmt.Errorf("failed to get parents of file %s: %w", fileID, err)
	}

	_, err = c.service.Files.Update(fileID, &drive.File{}).
		Context(ctx).
		AddParents(folderID).
		RemoveParents(strings.Join(file.Parents, ",")).
		Fields("id, parents").
		Do()
	if err != nil {
		return fmt.Errorf("failed to move file %s: %w", fileID, err)
	}

	return nil
}

// ShareFile grants a user access to a file
func (c *Client) ShareFile(ctx context.Context, fileID string, options *ShareOptions) (*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if options == nil {
		return nil, fmt.Errorf("share options are required")
	}
	if options.EmailAddress == "" {
		return nil, fmt.Errorf("email address is required")
	}
	if !IsValidRole(options.Role) {
		return nil, fmt.Errorf("invalid role %q", options.Role)
	}

	permission := &drive.Permission{
		Type:         "user",
		Role:         options.Role,
		EmailAddress: options.EmailAddress,
	}

	created, err := c.service.Permissions.Create(fileID, permission).
		Context(ctx).
		SendNotificationEmail(options.SendNotificationEmail).
		Fields("id").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to share file: %w", err)
	}

	return &Permission{
		ID:           created.Id,
		Type:         permission.Type,
		Role:         permission.Role,
		EmailAddress: permission.EmailAddress,
	}, nil
}

// ListPermissions lists all permissions on a file
func (c *Client) ListPermissions(ctx context.Context, fileID string) ([]*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	permList, err := c.service.Permissions.List(fileID).
		Context(ctx).
		Fields("permissions(id, type, role, emailAddress, domain, displayName)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissions := make([]*Permission, len(permList.Permissions))
	for i, p := range permList.Permissions {
		permissions[i] = convertToPermission(p)
	}
	return permissions, nil
}

// RemovePermission revokes a permission from a file
func (c *Client) RemovePermission(ctx context.Context, fileID, permissionID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	if permissionID == "" {
		return fmt.Errorf("permissionID is required")
	}

	if err := c.service.Permissions.Delete(fileID, permissionID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to remove permission: %w", err)
	}
	return nil
}

// convertToPermission converts a Drive API Permission to our Permission type
func convertToPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		Domain:       p.Domain,
		DisplayName:  p.DisplayName,
	}
}
