package tail

import (
	"encoding/json"
	"strings"
)

// Matches evaluates a dot-path filter expression against a decoded JSON
// document. The expression has the form "path" or "path=value": the path is
// a dot-separated sequence of object field names, the optional value is a
// literal compared for exact string equality.
//
// The expression is split once on the first '=', so "a.b=x=y" compares
// against the literal "x=y". A path segment that does not resolve makes the
// whole expression false; it is never an error, a tail session keeps running
// across mismatched messages. Without a '=' the expression is an existence
// check and is true as soon as the path resolves, regardless of the value.
//
// Comparison is string-only on purpose. The resolved value is stringified
// (quote characters stripped from string values) and compared byte for byte;
// there is no numeric or boolean awareness. This matches long-standing,
// scriptable behavior and must not be silently upgraded.
func Matches(doc any, expr string) bool {
	parts := strings.SplitN(expr, "=", 2)
	path := parts[0]

	current := doc
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return false
		}
		value, exists := obj[segment]
		if !exists {
			return false
		}
		current = value
	}

	if len(parts) < 2 {
		return true
	}
	return stringify(current) == parts[1]
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return strings.ReplaceAll(s, `"`, "")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(string(raw), `"`, "")
}
