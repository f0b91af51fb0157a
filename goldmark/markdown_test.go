package goldmark_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/murmur"
	"github.com/fwojciec/murmur/goldmark"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Force ANSI color output so styled elements produce visible escape
	// codes that we can assert against.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()
	theme := murmur.DefaultTheme()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", goldmark.Render("", 80, theme))
	})

	t.Run("plain reply passes through", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("Sure, for how many?", 80, theme)
		assert.Equal(t, "Sure, for how many?", strings.TrimSpace(stripANSI(result)))
	})

	t.Run("emphasis is styled and markers removed", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("a **table** for *two*", 80, theme)
		assert.NotEqual(t, stripANSI(result), result)
		assert.Equal(t, "a table for two", strings.TrimSpace(stripANSI(result)))
	})

	t.Run("heading is styled differently from a paragraph", func(t *testing.T) {
		t.Parallel()
		heading := goldmark.Render("# Opening hours", 80, theme)
		paragraph := goldmark.Render("Opening hours", 80, theme)
		assert.Contains(t, stripANSI(heading), "Opening hours")
		assert.NotContains(t, stripANSI(heading), "#")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("code block keeps lines and language", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("```sh\ncurl -X POST http://localhost:3000/api/n8n\n```", 20, theme))
		assert.Contains(t, result, "sh")
		assert.Contains(t, result, "│ curl -X POST http://localhost:3000/api/n8n")
	})

	t.Run("lists keep markers and numbering", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("3. three\n4. four\n\n- a\n  - nested", 80, theme))
		assert.Contains(t, result, "3. three")
		assert.Contains(t, result, "4. four")
		assert.Contains(t, result, "- a")
		assert.Contains(t, result, "  - nested")
	})

	t.Run("list continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and have continuation lines properly indented"
		lines := strings.Split(stripANSI(goldmark.Render(src, 30, theme)), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "- "))
		assert.Greater(t, len(lines), 1)
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("link shows target unless it is the label", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("[menu](https://example.com/menu)", 80, theme))
		assert.Contains(t, result, "menu (https://example.com/menu)")

		result = stripANSI(goldmark.Render("<https://example.com>", 80, theme))
		assert.Equal(t, "https://example.com", strings.TrimSpace(result))
	})

	t.Run("blockquote gets a gutter", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("> quoted reply", 80, theme))
		assert.True(t, strings.HasPrefix(result, "▎ quoted reply"))
	})

	t.Run("html is dropped", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("<div>\nhidden\n</div>\n\nshown <b>bold</b>", 80, theme))
		assert.NotContains(t, result, "<div>")
		assert.NotContains(t, result, "<b>")
		assert.Contains(t, result, "shown bold")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		result := goldmark.Render(long, 30, theme)
		assert.Greater(t, len(strings.Split(result, "\n")), 1)
		assert.Contains(t, stripANSI(result), "word12")
	})

	t.Run("width zero defaults to 80", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(goldmark.Render("hello world", 0, theme)), "hello world")
	})
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Sure, for how many?", "Sure, for how many?"},
		{"emphasis", "We open at **9am** on *weekdays*.", "We open at 9am on weekdays."},
		{"heading and body", "# Hours\n\nDaily 9 to 5.", "Hours\n\nDaily 9 to 5."},
		{"link keeps the label only", "See [the menu](https://example.com/menu).", "See the menu."},
		{"ordered list", "1. soup\n2. salad", "1. soup\n2. salad"},
		{"code span", "Run `make`.", "Run make."},
		{"quote", "> note this", "note this"},
		{"soft break joins lines", "one\ntwo", "one two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := goldmark.PlainText(tt.src)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, stripANSI(got))
		})
	}
}
