package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/mcp-google-sheets/internal/instrumentation"
	"github.com/teemow/mcp-google-sheets/internal/server"
)

// ReturnKind declares the shape of a tool handler's return value. It is
// fixed per tool at registration time, so the adapter never has to guess
// from the runtime type whether a handler meant to return data.
type ReturnKind int

const (
	// ReturnStructured marks handlers that return a value. Maps are used
	// as structured content directly, everything else is wrapped in a
	// single "result" key.
	ReturnStructured ReturnKind = iota

	// ReturnNone marks handlers with no meaningful return value. Their
	// responses never carry structured content.
	ReturnNone
)

// HandlerFunc is the signature tool handlers implement. It receives the
// tool arguments with the hidden raw_content flag already removed.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// rawContentKey is the hidden flag callers may set to request the
// result as text in addition to structured content. It never appears in
// any tool's parameter schema.
const rawContentKey = "raw_content"

// toolOperations maps each tool to the Google service and operation it
// performs, for the service-level metrics and audit dimensions.
var toolOperations = map[string]struct{ service, operation string }{
	"get_sheet_data":                   {instrumentation.ServiceSheets, instrumentation.OperationGet},
	"get_sheet_formulas":               {instrumentation.ServiceSheets, instrumentation.OperationGet},
	"get_multiple_sheet_data":          {instrumentation.ServiceSheets, instrumentation.OperationGet},
	"get_multiple_spreadsheet_summary": {instrumentation.ServiceSheets, instrumentation.OperationGet},
	"list_sheets":                      {instrumentation.ServiceSheets, instrumentation.OperationList},
	"update_cells":                     {instrumentation.ServiceSheets, instrumentation.OperationUpdate},
	"batch_update_cells":               {instrumentation.ServiceSheets, instrumentation.OperationUpdate},
	"add_rows":                         {instrumentation.ServiceSheets, instrumentation.OperationAppend},
	"insert_empty_rows":                {instrumentation.ServiceSheets, instrumentation.OperationUpdate},
	"add_columns":                      {instrumentation.ServiceSheets, instrumentation.OperationUpdate},
	"copy_sheet":                       {instrumentation.ServiceSheets, instrumentation.OperationCopy},
	"rename_sheet":                     {instrumentation.ServiceSheets, instrumentation.OperationUpdate},
	"create_spreadsheet":               {instrumentation.ServiceSheets, instrumentation.OperationCreate},
	"create_sheet":                     {instrumentation.ServiceSheets, instrumentation.OperationCreate},
	"list_spreadsheets":                {instrumentation.ServiceDrive, instrumentation.OperationList},
	"share_spreadsheet":                {instrumentation.ServiceDrive, instrumentation.OperationShare},
	"list_permissions":                 {instrumentation.ServiceDrive, instrumentation.OperationList},
	"remove_permission":                {instrumentation.ServiceDrive, instrumentation.OperationDelete},
}

// toolOperation resolves the service and operation for a tool name.
// Unknown tools report no service dimension.
func toolOperation(toolName string) (service, operation string) {
	op, ok := toolOperations[toolName]
	if !ok {
		return "", ""
	}
	return op.service, op.operation
}

// WrapHandler adapts a HandlerFunc into an mcp-go tool handler and
// layers metrics and audit logging on top.
//
// The response contract, per call:
//   - handler error: IsError result with text "Tool execution failed: <err>"
//     and no structured content, regardless of the raw_content flag
//   - success with ReturnStructured: structured content always set, raw
//     text only when raw_content was true
//   - success with ReturnNone: text content only
//
// Usage:
//
//	s.AddTool(myTool, common.WrapHandler("my_tool", sc, common.ReturnStructured, handler))
func WrapHandler(
	toolName string,
	sc *server.ServerContext,
	kind ReturnKind,
	fn HandlerFunc,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = make(map[string]any)
		}

		rawRequested := false
		if v, ok := args[rawContentKey]; ok {
			rawRequested, _ = v.(bool)
			delete(args, rawContentKey)
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).WithSpanContext(ctx)

		serviceName, operation := toolOperation(toolName)
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}

		spreadsheetID, _ := args["spreadsheet_id"].(string)
		if spreadsheetID != "" {
			invocation.WithSpreadsheet(spreadsheetID)
		}

		value, err := fn(ctx, args)
		duration := time.Since(start)

		var result *mcp.CallToolResult
		if err != nil {
			invocation.CompleteWithError(err)
			result = mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err))
		} else {
			invocation.CompleteSuccess()
			result = successResult(kind, value, rawRequested)
		}

		if metrics := sc.Metrics(); metrics != nil {
			status := instrumentation.StatusSuccess
			if result.IsError {
				status = instrumentation.StatusError
			}
			if spreadsheetID != "" {
				metrics.RecordToolInvocationWithSpreadsheet(ctx, toolName, status, spreadsheetID, duration)
			} else {
				metrics.RecordToolInvocation(ctx, toolName, status, duration)
			}
			if serviceName != "" {
				metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
			}
		}

		if auditLogger := sc.AuditLogger(); auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, nil
	}
}

// successResult builds the success shape for a handler return value.
func successResult(kind ReturnKind, value any, rawRequested bool) *mcp.CallToolResult {
	result := &mcp.CallToolResult{}

	if kind == ReturnNone {
		// Text is the only channel for no-value handlers, so the
		// response is never empty.
		result.Content = []mcp.Content{mcp.NewTextContent(rawText(value))}
		return result
	}

	if m, ok := value.(map[string]any); ok {
		result.StructuredContent = m
	} else {
		result.StructuredContent = map[string]any{"result": value}
	}

	if rawRequested {
		result.Content = []mcp.Content{mcp.NewTextContent(rawText(value))}
	}

	return result
}

// rawText renders a handler return value as text. Scalars keep their
// direct form, collections are rendered as JSON.
func rawText(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return fmt.Sprintf("%v", v)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
