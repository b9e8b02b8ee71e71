package common

import (
	"fmt"
)

// StringArg returns the string value for key, or "" when absent or not
// a string.
func StringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// StringArgDefault returns the string value for key, falling back to
// def when absent or empty.
func StringArgDefault(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// RequiredStringArg returns the string value for key or an error when
// it is missing or empty.
func RequiredStringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// BoolArg returns the bool value for key, or false when absent.
func BoolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// IntArg returns the integer value for key, falling back to def when
// absent. JSON numbers arrive as float64, so both forms are accepted.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

// StringSliceArg returns the list of strings for key. Non-string
// elements are skipped.
func StringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// RowsArg returns the two-dimensional cell data for key, as the Sheets
// API expects it. An absent key returns an error since every caller
// requires data.
func RowsArg(args map[string]any, key string) ([][]any, error) {
	raw, ok := args[key].([]any)
	if !ok {
		return nil, fmt.Errorf("%s is required and must be a list of rows", key)
	}
	rows := make([][]any, 0, len(raw))
	for i, item := range raw {
		row, ok := item.([]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a list of cell values", key, i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
