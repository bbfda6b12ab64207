package utils

import (
	"bytes"
	"encoding/json"
)

// IsValidJSON reports whether s is one syntactically valid JSON value.
// Shape is not checked.
func IsValidJSON(s string) bool {
	return json.Valid([]byte(s))
}

// FormatJSON re-indents raw with two spaces. Invalid input is returned untouched.
func FormatJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// EmptyObjectIfBlank returns {} when raw carries no value.
func EmptyObjectIfBlank(raw json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return json.RawMessage(`{}`)
	}
	return raw
}
