// Package bubbletea provides a Bubble Tea TUI for murmur.
//
// The model drives a Client (normally a *murmur.Widget) from key presses and
// redraws from the events the widget emits. Widget calls that block, such as
// sending a message or finishing a recording, run as tea.Cmds so the
// interface stays responsive.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/murmur"
)

// Client is the part of the widget the TUI drives.
type Client interface {
	Send(ctx context.Context, text string) error
	Record(ctx context.Context) error
	Speak(ctx context.Context, id string) error
	StopAudio()
	Messages() []murmur.Message
	Thinking() bool
}

var _ Client = (*murmur.Widget)(nil)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// Forward returns an event handler that hands events to ch without
// blocking. When ch is full the event is dropped; the model resynchronizes
// messages from the client, so only transient status is lost.
func Forward(ch chan<- murmur.Event) func(murmur.Event) {
	return func(e murmur.Event) {
		select {
		case ch <- e:
		default:
		}
	}
}

// EventMsg wraps a widget event for delivery to the Bubble Tea model.
type EventMsg struct {
	Event murmur.Event
}

// ActionDoneMsg reports the result of a widget call started by a key press.
// Text is set for sends and is handed back to the input if the send was
// refused.
type ActionDoneMsg struct {
	Err  error
	Text string
}

// eventsClosedMsg signals that the event channel was closed.
type eventsClosedMsg struct{}

// listenForEvent waits for the next event from the channel.
func listenForEvent(ch <-chan murmur.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return EventMsg{Event: evt}
	}
}

// runAction runs a blocking widget call and reports its result.
func runAction(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return ActionDoneMsg{Err: fn()}
	}
}

// sendAction sends text and reports the result along with the text.
func sendAction(ctx context.Context, client Client, text string) tea.Cmd {
	return func() tea.Msg {
		return ActionDoneMsg{Err: client.Send(ctx, text), Text: text}
	}
}
