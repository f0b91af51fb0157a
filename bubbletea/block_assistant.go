package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/murmur"
	"github.com/fwojciec/murmur/goldmark"
)

var _ MessageBlock = (*AssistantMessageBlock)(nil)

// AssistantMessageBlock renders an assistant reply as markdown followed by
// the state of its play control. Replies never change once appended, so the
// rendered body is cached per width.
type AssistantMessageBlock struct {
	text   string
	state  murmur.ControlState
	theme  murmur.Theme
	styles Styles

	renderedByWidth map[int]string
}

// NewAssistantMessageBlock creates an AssistantMessageBlock.
func NewAssistantMessageBlock(text string, theme murmur.Theme, styles Styles) *AssistantMessageBlock {
	return &AssistantMessageBlock{
		text:            text,
		theme:           theme,
		styles:          styles,
		renderedByWidth: make(map[int]string),
	}
}

// State returns what the block's play control shows.
func (b *AssistantMessageBlock) State() murmur.ControlState { return b.state }

func (b *AssistantMessageBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if m, ok := msg.(PlaybackMsg); ok {
		b.state = m.State
	}
	return b, nil
}

func (b *AssistantMessageBlock) View(width int) string {
	body, ok := b.renderedByWidth[width]
	if !ok {
		body = goldmark.Render(b.text, width, b.theme)
		b.renderedByWidth[width] = body
	}
	switch b.state {
	case murmur.ControlLoading:
		return body + "\n" + b.styles.Muted.Render("♪ loading audio…")
	case murmur.ControlPlaying:
		return body + "\n" + b.styles.Playing.Render("♪ speaking (Ctrl+P to stop)")
	default:
		return body
	}
}
