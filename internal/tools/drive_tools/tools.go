package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-google-sheets/internal/drive"
	"github.com/teemow/mcp-google-sheets/internal/server"
	"github.com/teemow/mcp-google-sheets/internal/tools/common"
)

// RegisterDriveTools registers all Drive-related tools with the MCP
// server. Sharing and permission removal are mutating operations and
// are skipped in read-only mode.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerListSpreadsheets(s, sc)
	registerListPermissions(s, sc)

	if !sc.ReadOnly() {
		registerShareSpreadsheet(s, sc)
		registerRemovePermission(s, sc)
	}

	return nil
}

func registerListSpreadsheets(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("list_spreadsheets",
		mcp.WithDescription("List all spreadsheets in the configured Google Drive folder or 'My Drive'"),
	)

	s.AddTool(tool, common.WrapHandler("list_spreadsheets", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		refs, err := sc.DriveClient().ListSpreadsheets(ctx, sc.FolderID())
		if err != nil {
			return nil, err
		}

		spreadsheets := make([]map[string]any, 0, len(refs))
		for _, ref := range refs {
			spreadsheets = append(spreadsheets, map[string]any{
				"id":    ref.ID,
				"title": ref.Title,
			})
		}
		return map[string]any{"spreadsheets": spreadsheets}, nil
	}))
}

func registerListPermissions(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("list_permissions",
		mcp.WithDescription("List all sharing permissions on a Google Spreadsheet"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
	)

	s.AddTool(tool, common.WrapHandler("list_permissions", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}

		permissions, err := sc.DriveClient().ListPermissions(ctx, spreadsheetID)
		if err != nil {
			return nil, err
		}

		entries := make([]map[string]any, 0, len(permissions))
		for _, permission := range permissions {
			entry := map[string]any{
				"id":   permission.ID,
				"type": permission.Type,
				"role": permission.Role,
			}
			if permission.EmailAddress != "" {
				entry["email_address"] = permission.EmailAddress
			}
			if permission.Domain != "" {
				entry["domain"] = permission.Domain
			}
			if permission.DisplayName != "" {
				entry["display_name"] = permission.DisplayName
			}
			entries = append(entries, entry)
		}
		return map[string]any{"permissions": entries}, nil
	}))
}

func registerRemovePermission(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("remove_permission",
		mcp.WithDescription("Remove a sharing permission from a Google Spreadsheet"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("permission_id",
			mcp.Required(),
			mcp.Description("The ID of the permission to remove (get this from list_permissions)"),
		),
	)

	s.AddTool(tool, common.WrapHandler("remove_permission", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		permissionID, err := common.RequiredStringArg(args, "permission_id")
		if err != nil {
			return nil, err
		}

		if err := sc.DriveClient().RemovePermission(ctx, spreadsheetID, permissionID); err != nil {
			return nil, err
		}

		return map[string]any{
			"spreadsheetId": spreadsheetID,
			"permissionId":  permissionID,
			"removed":       true,
		}, nil
	}))
}

func registerShareSpreadsheet(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("share_spreadsheet",
		mcp.WithDescription("Share a Google Spreadsheet with multiple users via email, assigning specific roles"),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet to share"),
		),
		mcp.WithArray("recipients",
			mcp.Required(),
			mcp.Description("List of recipients with 'email_address' and 'role' keys. Roles: reader, commenter, writer (default: writer)."),
		),
		mcp.WithBoolean("send_notification",
			mcp.Description("Whether to send notification emails (default: true)"),
		),
	)

	s.AddTool(tool, common.WrapHandler("share_spreadsheet", sc, common.ReturnStructured, func(ctx context.Context, args map[string]any) (any, error) {
		spreadsheetID, err := common.RequiredStringArg(args, "spreadsheet_id")
		if err != nil {
			return nil, err
		}
		rawRecipients, ok := args["recipients"].([]any)
		if !ok || len(rawRecipients) == 0 {
			return nil, fmt.Errorf("recipients is required and must be a list")
		}
		sendNotification := true
		if v, ok := args["send_notification"].(bool); ok {
			sendNotification = v
		}

		// One bad recipient must not block the others, so failures are
		// collected instead of aborting.
		successes := make([]map[string]any, 0, len(rawRecipients))
		failures := make([]map[string]any, 0)
		for _, rawRecipient := range rawRecipients {
			recipient, _ := rawRecipient.(map[string]any)
			email := common.StringArg(recipient, "email_address")
			role := common.StringArgDefault(recipient, "role", "writer")

			if email == "" || !drive.IsValidRole(role) {
				failures = append(failures, map[string]any{
					"email_address": email,
					"error":         "Invalid recipient data",
				})
				continue
			}

			permission, err := sc.DriveClient().ShareFile(ctx, spreadsheetID, &drive.ShareOptions{
				EmailAddress:          email,
				Role:                  role,
				SendNotificationEmail: sendNotification,
			})
			if err != nil {
				failures = append(failures, map[string]any{
					"email_address": email,
					"error":         fmt.Sprintf("Failed to share: %v", err),
				})
				continue
			}

			successes = append(successes, map[string]any{
				"email_address": email,
				"role":          role,
				"permissionId":  permission.ID,
			})
		}

		return map[string]any{
			"successes": successes,
			"failures":  failures,
		}, nil
	}))
}
