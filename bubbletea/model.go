package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/murmur"
)

var _ tea.Model = Model{}

const helpText = "Enter send · Ctrl+R record · Ctrl+P play last · Ctrl+S stop audio · Ctrl+C quit"

// Model is the Bubble Tea model for the murmur TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the thinking and transcribing states.
	Spinner spinner.Model

	client Client
	events <-chan murmur.Event
	theme  murmur.Theme
	styles Styles
	ctx    context.Context
	cancel context.CancelFunc

	blocks    []MessageBlock
	seen      map[string]bool
	assistant map[string]*AssistantMessageBlock // keyed by message ID
	lastReply string
	lastUser  string
	draft     string // recognized speech shown in the input until it is sent

	thinking bool
	capture  murmur.CaptureState
	notice   string
	err      error
	ready    bool
}

// New creates a TUI Model driving client. Events emitted by the client
// should be delivered on events, usually through Forward. Cancelling ctx,
// or quitting, cancels calls still in flight.
func New(ctx context.Context, client Client, events <-chan murmur.Event, theme murmur.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask something..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	ctx, cancel := context.WithCancel(ctx)
	m := Model{
		Input:     ti,
		Spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		client:    client,
		events:    events,
		theme:     theme,
		styles:    NewStyles(theme),
		ctx:       ctx,
		cancel:    cancel,
		seen:      make(map[string]bool),
		assistant: make(map[string]*AssistantMessageBlock),
	}
	return m.syncMessages()
}

// Thinking reports whether a reply is pending.
func (m Model) Thinking() bool { return m.thinking }

// Capture returns the last reported capture state.
func (m Model) Capture() murmur.CaptureState { return m.capture }

// Notice returns the notice shown in the status line, if any.
func (m Model) Notice() string { return m.notice }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.events == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, listenForEvent(m.events))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		var cmd tea.Cmd
		m, cmd = m.processEvent(msg.Event)
		m = m.refresh()
		cmds = append(cmds, cmd)
		if m.events != nil {
			cmds = append(cmds, listenForEvent(m.events))
		}
		return m, tea.Batch(cmds...)

	case eventsClosedMsg:
		m.events = nil
		return m, nil

	case ActionDoneMsg:
		m = m.handleActionDone(msg)
		m = m.syncMessages().refresh()
		// Resync in case a thinking event was dropped.
		wasThinking := m.thinking
		m.thinking = m.client.Thinking()
		if wasThinking && !m.thinking {
			return m, m.Input.Focus()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.thinking {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight

	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.client.StopAudio()
		m.cancel()
		return m, tea.Quit

	case tea.KeyEnter:
		if m.thinking || m.capture != murmur.CaptureIdle {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		m.Input.Blur()
		m.draft = ""
		m.notice = ""
		m.err = nil
		m.thinking = true
		return m, tea.Batch(sendAction(m.ctx, m.client, text), m.Spinner.Tick)

	case tea.KeyCtrlR:
		if m.thinking {
			return m, nil
		}
		m.notice = ""
		m.err = nil
		ctx, client := m.ctx, m.client
		return m, runAction(func() error { return client.Record(ctx) })

	case tea.KeyCtrlP:
		if m.lastReply == "" {
			return m, nil
		}
		m.notice = ""
		ctx, client, id := m.ctx, m.client, m.lastReply
		return m, runAction(func() error { return client.Speak(ctx, id) })

	case tea.KeyCtrlS:
		client := m.client
		return m, runAction(func() error {
			client.StopAudio()
			return nil
		})
	}

	// When idle, pass keys to both input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if m.thinking {
		return m, nil
	}
	var cmd tea.Cmd
	var cmds []tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleActionDone(msg ActionDoneMsg) Model {
	err := msg.Err
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, murmur.ErrValidation):
		m.notice = "Voice input is not configured."
	case errors.Is(err, murmur.ErrBusy):
		m.notice = "Still waiting for the previous reply."
		if msg.Text != "" && m.Input.Value() == "" {
			m.Input.SetValue(msg.Text)
		}
	case errors.Is(err, murmur.ErrCaptureActive):
		m.notice = "A recording is already in progress."
	default:
		// Device and speech failures already arrived as a notice.
		if m.notice == "" {
			m.err = err
		}
	}
	return m
}

// processEvent applies a widget event to the model.
func (m Model) processEvent(evt murmur.Event) (Model, tea.Cmd) {
	switch e := evt.(type) {
	case murmur.EventMessage:
		m = m.syncMessages()
	case murmur.EventThinking:
		wasBusy := m.busy()
		m.thinking = e.Active
		if e.Active {
			m.Input.Blur()
			if !wasBusy {
				return m, m.Spinner.Tick
			}
			return m, nil
		}
		return m, m.Input.Focus()
	case murmur.EventCapture:
		wasBusy := m.busy()
		m.capture = e.State
		if m.busy() && !wasBusy {
			return m, m.Spinner.Tick
		}
	case murmur.EventPlayback:
		if b, ok := m.assistant[string(e.Control)]; ok {
			b.Update(PlaybackMsg{State: e.State})
		}
	case murmur.EventTranscript:
		// The send may already have been synced from an action result.
		text := strings.TrimSpace(e.Text)
		if text != "" && text != m.lastUser && m.Input.Value() == "" {
			m.Input.SetValue(text)
			m.draft = text
		}
	case murmur.EventNotice:
		m.notice = e.Text
	}
	return m, nil
}

// syncMessages adds blocks for messages the model has not rendered yet.
// Messages are append-only, so anything unseen goes at the end.
func (m Model) syncMessages() Model {
	for _, msg := range m.client.Messages() {
		if m.seen[msg.ID] {
			continue
		}
		m.seen[msg.ID] = true
		switch msg.Role {
		case murmur.RoleUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Text, m.styles))
			m.lastUser = msg.Text
			if m.draft != "" && msg.Text == m.draft {
				if m.Input.Value() == m.draft {
					m.Input.SetValue("")
				}
				m.draft = ""
			}
		case murmur.RoleAssistant:
			b := NewAssistantMessageBlock(msg.Text, m.theme, m.styles)
			m.blocks = append(m.blocks, b)
			m.assistant[msg.ID] = b
			m.lastReply = msg.ID
		}
	}
	return m
}

func (m Model) busy() bool {
	return m.thinking || m.capture == murmur.CaptureFinalizing
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.styles.Notice.Render(fmt.Sprintf("Error: %v", m.err))
	case m.notice != "":
		return m.styles.Notice.Render(m.notice)
	case m.capture == murmur.CaptureRecording:
		return m.styles.Recording.Render("● Recording, Ctrl+R to stop")
	case m.capture == murmur.CaptureFinalizing:
		return m.Spinner.View() + m.styles.Muted.Render(" Transcribing...")
	case m.thinking:
		return m.Spinner.View() + m.styles.Muted.Render(" Thinking...")
	}
	return m.styles.Muted.Render(helpText)
}
