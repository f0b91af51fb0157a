package murmur

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Speaker is the part of PlaybackManager the conversation needs to speak
// replies.
type Speaker interface {
	PlayFromText(ctx context.Context, key, text string, opts SpeechOptions, control Control) error
}

// Conversation owns the message history and runs each turn: append the user
// message, ask the chat backend, append the reply and speak it.
type Conversation struct {
	chat       ChatBackend
	speaker    Speaker
	speech     SpeechOptions
	speechText func(string) string
	sessionID  string
	opts       options

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	messages []Message
	thinking bool
	idle     chan struct{} // closed when the pending turn finishes
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithSpeaker sets where assistant replies are spoken. Without one, replies
// are shown but not played.
func WithSpeaker(s Speaker, opts SpeechOptions) ConversationOption {
	return func(c *Conversation) {
		c.speaker = s
		c.speech = opts
	}
}

// WithSpeechText sets a transform applied to reply text before it is
// synthesized, such as stripping markup. The cache key stays the message ID.
func WithSpeechText(fn func(string) string) ConversationOption {
	return func(c *Conversation) { c.speechText = fn }
}

// WithOptions applies core options (event handler, logger).
func WithOptions(opts ...Option) ConversationOption {
	return func(c *Conversation) {
		c.opts = newOptions(opts)
	}
}

// NewConversation creates a Conversation whose requests carry sessionID.
func NewConversation(chat ChatBackend, sessionID string, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		chat:      chat,
		speech:    DefaultSpeechOptions(),
		sessionID: sessionID,
		opts:      newOptions(nil),
		now:       time.Now,
		newID:     func() string { return ulid.Make().String() },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SessionID returns the identifier sent with every request.
func (c *Conversation) SessionID() string { return c.sessionID }

// Messages returns a snapshot of the conversation in order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Transcript returns a snapshot of the conversation for saving.
func (c *Conversation) Transcript() Transcript {
	return Transcript{SessionID: c.sessionID, SavedAt: c.now(), Messages: c.Messages()}
}

// Thinking reports whether a reply is pending.
func (c *Conversation) Thinking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thinking
}

// Welcome appends the greeting shown when the client starts.
func (c *Conversation) Welcome() Message {
	text := fmt.Sprintf("Hello! This is your conversation (#%s). Ask by voice or text and I will look it up for you.", ShortTag(c.sessionID))
	return c.append(RoleAssistant, text)
}

// Send runs one turn. Empty text (after trimming) is ignored. The user
// message is appended before the backend is called; the thinking state is
// set for the duration of the call and cleared on every path. Backend
// failures become an assistant message describing the error and are not
// returned. A Send while another is pending returns ErrBusy.
func (c *Conversation) Send(ctx context.Context, text string) error {
	return c.send(ctx, text, false)
}

// SendWhenReady is Send, except that it waits for a pending turn to finish
// instead of returning ErrBusy. Recognized speech is delivered through it so
// a finished recording always reaches the conversation.
func (c *Conversation) SendWhenReady(ctx context.Context, text string) error {
	return c.send(ctx, text, true)
}

func (c *Conversation) send(ctx context.Context, text string, wait bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := c.acquire(ctx, wait); err != nil {
		return err
	}

	c.append(RoleUser, text)
	c.opts.emit(EventThinking{Active: true})

	raw, err := c.chat.Chat(ctx, ChatRequest{Text: text, SessionID: c.sessionID})
	if err != nil {
		c.opts.logger.Warn("chat request failed", "error", err)
		c.append(RoleAssistant, "Failed to get a reply: "+err.Error())
		c.setThinking(false)
		return nil
	}

	reply := c.append(RoleAssistant, ParseReply(raw))
	c.setThinking(false)

	if err := c.speak(ctx, reply); err != nil {
		c.opts.logger.Warn("speak reply", "message", reply.ID, "error", err)
	}
	return nil
}

func (c *Conversation) speak(ctx context.Context, m Message) error {
	if c.speaker == nil {
		return nil
	}
	text := m.Text
	if c.speechText != nil {
		text = c.speechText(text)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return c.speaker.PlayFromText(ctx, m.ID, text, c.speech, Control(m.ID))
}

func (c *Conversation) append(role Role, text string) Message {
	msg := Message{
		ID:        c.newID(),
		Role:      role,
		Text:      text,
		CreatedAt: c.now(),
	}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	c.opts.emit(EventMessage{Message: msg})
	return msg
}

// acquire enters the thinking state, waiting for the pending turn when wait
// is set.
func (c *Conversation) acquire(ctx context.Context, wait bool) error {
	for {
		c.mu.Lock()
		if !c.thinking {
			c.thinking = true
			c.idle = make(chan struct{})
			c.mu.Unlock()
			return nil
		}
		idle := c.idle
		c.mu.Unlock()
		if !wait {
			return ErrBusy
		}
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Conversation) setThinking(active bool) {
	c.mu.Lock()
	c.thinking = active
	if !active && c.idle != nil {
		close(c.idle)
		c.idle = nil
	}
	c.mu.Unlock()
	c.opts.emit(EventThinking{Active: active})
}

// Speak plays the message with the given ID through its own control,
// stopping it if it is already playing. Without a speaker it does nothing.
func (c *Conversation) Speak(ctx context.Context, id string) error {
	for _, m := range c.Messages() {
		if m.ID == id {
			return c.speak(ctx, m)
		}
	}
	return fmt.Errorf("speak %s: message %w", id, ErrNotFound)
}
