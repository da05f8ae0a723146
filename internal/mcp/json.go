package mcp

import (
	"bytes"
	"encoding/json"
)

// encodeJSON marshals v without a trailing newline for embedding in Text
// fields.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
