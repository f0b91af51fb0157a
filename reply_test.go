package murmur_test

import (
	"testing"

	"github.com/fwojciec/murmur"
	"github.com/stretchr/testify/assert"
)

func TestParseReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"text field", `{"text":"hello"}`, "hello"},
		{"message field", `{"message":"Sure, for how many?"}`, "Sure, for how many?"},
		{"text preferred over message", `{"message":"b","text":"a"}`, "a"},
		{"empty text falls through to message", `{"text":"  ","message":"b"}`, "b"},
		{"json string", `"plain reply"`, "plain reply"},
		{"unrecognized object is compacted", "{\n  \"answer\": 42\n}", `{"answer":42}`},
		{"array is compacted", `[1, 2]`, `[1,2]`},
		{"non-string text field", `{"text":7}`, `{"text":7}`},
		{"not json", "Internal hiccup", "Internal hiccup"},
		{"empty body", "", "{}"},
		{"whitespace body", "  \n", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, murmur.ParseReply([]byte(tt.raw)))
		})
	}
}
