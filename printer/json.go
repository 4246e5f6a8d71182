package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	keyColor    = color.New(color.FgCyan)
	stringColor = color.New(color.FgGreen)
	numberColor = color.New(color.FgYellow)
	boolColor   = color.New(color.FgMagenta)
)

// JSON writes the decoded document as indented, colorized JSON. Colors are
// stripped automatically when the writer is not a terminal (fatih/color
// handles that globally).
func JSON(out io.Writer, doc any) error {
	var sb strings.Builder
	if err := writeValue(&sb, doc, 0); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, sb.String())
	return err
}

func writeValue(sb *strings.Builder, value any, indent int) error {
	switch v := value.(type) {
	case map[string]any:
		writeObject(sb, v, indent)
	case []any:
		writeArray(sb, v, indent)
	case string:
		raw, _ := json.Marshal(v)
		sb.WriteString(stringColor.Sprint(string(raw)))
	case bool:
		sb.WriteString(boolColor.Sprintf("%v", v))
	case nil:
		sb.WriteString(boolColor.Sprint("null"))
	case float64, json.Number:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		sb.WriteString(numberColor.Sprint(string(raw)))
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		sb.WriteString(string(raw))
	}
	return nil
}

func writeObject(sb *strings.Builder, obj map[string]any, indent int) {
	if len(obj) == 0 {
		sb.WriteString("{}")
		return
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sb.WriteString("{\n")
	for i, key := range keys {
		writeIndent(sb, indent+1)
		rawKey, _ := json.Marshal(key)
		sb.WriteString(keyColor.Sprint(string(rawKey)))
		sb.WriteString(": ")
		_ = writeValue(sb, obj[key], indent+1)
		if i < len(keys)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	writeIndent(sb, indent)
	sb.WriteString("}")
}

func writeArray(sb *strings.Builder, arr []any, indent int) {
	if len(arr) == 0 {
		sb.WriteString("[]")
		return
	}

	sb.WriteString("[\n")
	for i, item := range arr {
		writeIndent(sb, indent+1)
		_ = writeValue(sb, item, indent+1)
		if i < len(arr)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	writeIndent(sb, indent)
	sb.WriteString("]")
}

func writeIndent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}
