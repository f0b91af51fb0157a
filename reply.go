package murmur

import (
	"bytes"
	"encoding/json"
	"strings"
)

// replyFields lists the object fields that may carry reply text, in order of
// preference.
var replyFields = []string{"text", "message"}

// ParseReply extracts the assistant text from a raw chat reply. A JSON string
// is returned as is; an object yields its first non-empty recognized field.
// Anything else degrades to a textual projection of the body instead of
// failing the turn: non-JSON bodies are returned verbatim and unrecognized
// JSON is returned in compact form.
func ParseReply(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "{}"
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(trimmed)
	}

	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		for _, f := range replyFields {
			if s, ok := val[f].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
