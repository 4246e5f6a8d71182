package tail

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJSON(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestMatches(t *testing.T) {
	doc := `{"data":{"attributes":{"name":19,"state":"active","nested":{"ok":true}}},"top":"level"}`

	tests := []struct {
		name     string
		expr     string
		expected bool
	}{
		{name: "numeric value equality", expr: "data.attributes.name=19", expected: true},
		{name: "numeric value mismatch", expr: "data.attributes.name=20", expected: false},
		{name: "missing leaf", expr: "data.attributes.missing=1", expected: false},
		{name: "missing intermediate segment", expr: "data.nothere.name=19", expected: false},
		{name: "existence check on present path", expr: "data.attributes.name", expected: true},
		{name: "existence check on missing path", expr: "data.attributes.missing", expected: false},
		{name: "string value equality", expr: "data.attributes.state=active", expected: true},
		{name: "string value mismatch", expr: "data.attributes.state=idle", expected: false},
		{name: "boolean is compared as text", expr: "data.attributes.nested.ok=true", expected: true},
		{name: "path through a scalar", expr: "top.level=1", expected: false},
		{name: "existence of the root field", expr: "top", expected: true},
		{name: "split happens on the first equals only", expr: "data.attributes.state=act=ive", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(parseJSON(t, doc), tt.expr))
		})
	}
}

func TestMatchesObjectValueStringification(t *testing.T) {
	doc := parseJSON(t, `{"meta":{"tags":["a","b"]}}`)

	// A non-scalar resolved value is compared against its JSON text with the
	// quote characters stripped.
	assert.True(t, Matches(doc, "meta.tags=[a,b]"))
	assert.False(t, Matches(doc, "meta.tags=[a]"))
}

func TestMatchesIsDeterministic(t *testing.T) {
	doc := parseJSON(t, `{"a":{"b":"c"}}`)
	for i := 0; i < 3; i++ {
		assert.True(t, Matches(doc, "a.b=c"))
	}
}
