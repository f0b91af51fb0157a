// Package goldmark renders assistant replies, which backends often format
// as markdown, using goldmark for parsing and lipgloss for styling.
//
// Render produces ANSI output for the terminal. PlainText produces the same
// structure without markup, for handing a reply to speech synthesis.
package goldmark

import "github.com/fwojciec/murmur"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// are rendered without reflow.
func Render(source string, width int, theme murmur.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return newANSIRenderer(theme, width).render([]byte(source))
}

// PlainText strips markdown syntax from source so it reads naturally when
// spoken: emphasis markers, heading hashes, link targets and code fences are
// dropped, list items keep their numbering.
func PlainText(source string) string {
	if source == "" {
		return ""
	}
	return newPlainRenderer().render([]byte(source))
}
