package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredStringArg(t *testing.T) {
	args := map[string]any{"spreadsheet_id": "sheet123", "empty": "", "number": 7}

	v, err := RequiredStringArg(args, "spreadsheet_id")
	require.NoError(t, err)
	assert.Equal(t, "sheet123", v)

	_, err = RequiredStringArg(args, "missing")
	assert.Error(t, err, "missing key should error")

	_, err = RequiredStringArg(args, "empty")
	assert.Error(t, err, "empty value should error")

	_, err = RequiredStringArg(args, "number")
	assert.Error(t, err, "non-string value should error")
}

func TestStringArgDefault(t *testing.T) {
	args := map[string]any{"role": "reader", "empty": ""}

	assert.Equal(t, "reader", StringArgDefault(args, "role", "writer"))
	assert.Equal(t, "writer", StringArgDefault(args, "empty", "writer"))
	assert.Equal(t, "writer", StringArgDefault(args, "missing", "writer"))
}

func TestIntArg(t *testing.T) {
	// JSON decoding produces float64 for every number.
	args := map[string]any{"count": float64(3), "native": 5, "bad": "seven"}

	assert.Equal(t, 3, IntArg(args, "count", 1))
	assert.Equal(t, 5, IntArg(args, "native", 1))
	assert.Equal(t, 1, IntArg(args, "bad", 1))
	assert.Equal(t, 1, IntArg(args, "missing", 1))
}

func TestBoolArg(t *testing.T) {
	args := map[string]any{"flag": true, "bad": "true"}

	assert.True(t, BoolArg(args, "flag"))
	assert.False(t, BoolArg(args, "bad"), "BoolArg should not coerce strings")
	assert.False(t, BoolArg(args, "missing"))
}

func TestStringSliceArg(t *testing.T) {
	args := map[string]any{
		"emails": []any{"a@example.com", 42, "b@example.com"},
		"scalar": "a@example.com",
	}

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, StringSliceArg(args, "emails"))
	assert.Nil(t, StringSliceArg(args, "scalar"))
	assert.Nil(t, StringSliceArg(args, "missing"))
}

func TestRowsArg(t *testing.T) {
	args := map[string]any{
		"data":   []any{[]any{"a", float64(1)}, []any{"b", float64(2)}},
		"flat":   []any{"a", "b"},
		"scalar": "a",
	}

	rows, err := RowsArg(args, "data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"a", float64(1)}, rows[0])
	assert.Equal(t, []any{"b", float64(2)}, rows[1])

	_, err = RowsArg(args, "flat")
	assert.Error(t, err, "non-nested rows should error")

	_, err = RowsArg(args, "scalar")
	assert.Error(t, err, "scalar value should error")

	_, err = RowsArg(args, "missing")
	assert.Error(t, err, "missing key should error")
}
