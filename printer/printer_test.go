package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	Table(&buf, []string{"Topic", "Partitions"}, [][]string{
		{"orders", "12"},
		{"payments", "3"},
	})

	out := buf.String()
	assert.Contains(t, out, "Topic")
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "payments")
	// tabwriter aligns the columns, the partition counts must not touch the
	// topic names.
	assert.NotContains(t, out, "orders12")
}

func TestJSONRoundTrips(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var doc any
	raw := `{"data":{"attributes":{"name":19,"ok":true,"tags":["a","b"],"none":null}},"state":"active"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, doc))

	// The rendered output is itself valid JSON describing the same document.
	var reparsed any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &reparsed))
	assert.Equal(t, doc, reparsed)
}

func TestJSONEmptyContainers(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, map[string]any{"empty": map[string]any{}, "list": []any{}}))

	var reparsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &reparsed))
	assert.Equal(t, map[string]any{}, reparsed["empty"])
	assert.Equal(t, []any{}, reparsed["list"])
}
