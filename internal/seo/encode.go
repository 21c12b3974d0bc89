package seo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes v for embedding in HTML. encoding/json escapes <, > and &
// as \u003c, \u003e and \u0026, so no string can close the script element.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json-ld: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ScriptTag wraps the encoded value in an application/ld+json script element.
func ScriptTag(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return `<script type="application/ld+json">` + string(data) + `</script>`, nil
}
