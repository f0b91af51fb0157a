package murmur

// Event is a sealed interface representing a state change the presentation
// layer renders. Events are delivered through the handler installed with
// WithEventHandler, from whichever goroutine made the change.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventMessage signals that a message was appended to the conversation.
type EventMessage struct {
	Message Message
}

func (EventMessage) event() {}

// EventThinking signals entering or leaving the thinking state. While Active
// is true the send, mic and text input affordances are disabled.
type EventThinking struct {
	Active bool
}

func (EventThinking) event() {}

// EventPlayback reports the state of a play control.
type EventPlayback struct {
	Control Control
	State   ControlState
}

func (EventPlayback) event() {}

// EventCapture reports a capture state transition.
type EventCapture struct {
	State CaptureState
}

func (EventCapture) event() {}

// EventTranscript carries text recognized from a finished recording, just
// before it is sent.
type EventTranscript struct {
	Text string
}

func (EventTranscript) event() {}

// EventNotice is a recoverable, user-facing problem report.
type EventNotice struct {
	Text string
	Err  error
}

func (EventNotice) event() {}

// Interface compliance checks.
var (
	_ Event = EventMessage{}
	_ Event = EventThinking{}
	_ Event = EventPlayback{}
	_ Event = EventCapture{}
	_ Event = EventTranscript{}
	_ Event = EventNotice{}
)
