package workflow

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const unknownValue = "Unknown"

// ParseFields decodes a category's raw field specification, a JSON array of
// field objects that may arrive without its enclosing brackets. Empty input
// yields no fields and no error. Undecodable input yields no fields and an
// ErrMalformed error that callers treat as a warning only.
func ParseFields(raw string) ([]RequiredField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []RequiredField{}, nil
	}

	if !strings.HasPrefix(raw, "[") {
		raw = "[" + raw + "]"
	}

	var objects []map[string]any
	if err := json.Unmarshal([]byte(raw), &objects); err != nil {
		return []RequiredField{}, fmt.Errorf("%w: field spec: %w", ErrMalformed, err)
	}

	fields := make([]RequiredField, 0, len(objects))
	for _, o := range objects {
		fields = append(fields, fieldFrom(o))
	}

	return fields, nil
}

// RenderFields formats fields as labeled blocks, each terminated by a
// delimiter line and a blank line.
func RenderFields(fields []RequiredField) string {
	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "Field: %s\n", orUnknown(f.FieldName))
		fmt.Fprintf(&sb, "Data Type: %s\n", orUnknown(f.DataType))
		fmt.Fprintf(&sb, "Mandatory: %s\n", pyBool(f.Mandatory))
		fmt.Fprintf(&sb, "Description: %s\n", f.Description)
		if f.Options != nil {
			fmt.Fprintf(&sb, "Options: %s\n", strings.Join(f.Options, ", "))
		}
		sb.WriteString("---\n\n")
	}
	return sb.String()
}

func fieldFrom(o map[string]any) RequiredField {
	return RequiredField{
		FieldName:   text(o["field_name"]),
		DataType:    text(o["data_type"]),
		Mandatory:   truthy(o["mandatory"]),
		Description: text(o["description"]),
		Options:     options(o["options"]),
	}
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "mandatory", "required":
			return true
		}
	}
	return false
}

func options(v any) []string {
	switch t := v.(type) {
	case []any:
		opts := make([]string, 0, len(t))
		for _, o := range t {
			opts = append(opts, text(o))
		}
		return opts
	case string:
		return []string{t}
	}
	return nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownValue
	}
	return s
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
