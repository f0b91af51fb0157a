package murmur

import (
	"context"
	"fmt"
	"log/slog"
)

// Config holds the collaborators a Widget is assembled from. Synthesizer and
// Player are optional; without both, replies are not spoken. Microphone and
// Transcriber are optional; without both, Record returns ErrValidation.
type Config struct {
	Chat        ChatBackend
	Synthesizer Synthesizer
	Transcriber Transcriber
	Microphone  Microphone
	Player      Player
	Store       KeyValueStore

	Speech     SpeechOptions
	SpeechText func(string) string // optional transform before synthesis
	CacheLimit int

	OnEvent func(Event)
	Logger  *slog.Logger
}

// Widget is one chat client instance: identity, conversation, playback and
// capture, with their state owned here rather than in package globals.
type Widget struct {
	Identity     *Identity
	Conversation *Conversation
	Playback     *PlaybackManager
	Capture      *CaptureController
}

// NewWidget wires a Widget from cfg and appends the welcome message.
func NewWidget(ctx context.Context, cfg Config) *Widget {
	opts := []Option{WithEventHandler(cfg.OnEvent), WithLogger(cfg.Logger)}
	speech := cfg.Speech
	if speech == (SpeechOptions{}) {
		speech = DefaultSpeechOptions()
	}
	limit := cfg.CacheLimit
	if limit == 0 {
		limit = CacheLimit
	}

	w := &Widget{Identity: NewIdentity(cfg.Store, opts...)}
	sessionID := w.Identity.GetOrCreate(ctx)

	convOpts := []ConversationOption{WithOptions(opts...)}
	if cfg.Synthesizer != nil && cfg.Player != nil {
		w.Playback = NewPlaybackManager(cfg.Synthesizer, cfg.Player, NewSpeechCache(limit), opts...)
		convOpts = append(convOpts, WithSpeaker(w.Playback, speech), WithSpeechText(cfg.SpeechText))
	}
	w.Conversation = NewConversation(cfg.Chat, sessionID, convOpts...)
	if cfg.Microphone != nil && cfg.Transcriber != nil {
		w.Capture = NewCaptureController(cfg.Microphone, cfg.Transcriber, w.Conversation.SendWhenReady, opts...)
	}
	w.Conversation.Welcome()
	return w
}

// Send forwards typed text to the conversation.
func (w *Widget) Send(ctx context.Context, text string) error {
	return w.Conversation.Send(ctx, text)
}

// Record toggles voice capture.
func (w *Widget) Record(ctx context.Context) error {
	if w.Capture == nil {
		return fmt.Errorf("voice capture not configured: %w", ErrValidation)
	}
	return w.Capture.Toggle(ctx)
}

// Speak plays or stops the message with the given ID. Without speech
// output configured it is a no-op.
func (w *Widget) Speak(ctx context.Context, id string) error {
	return w.Conversation.Speak(ctx, id)
}

// StopAudio silences any playback.
func (w *Widget) StopAudio() {
	if w.Playback != nil {
		w.Playback.Stop()
	}
}

// Thinking reports whether a reply is pending.
func (w *Widget) Thinking() bool {
	return w.Conversation.Thinking()
}

// Messages returns a snapshot of the conversation.
func (w *Widget) Messages() []Message {
	return w.Conversation.Messages()
}

// Close stops playback and discards any open recording.
func (w *Widget) Close() error {
	if w.Playback != nil {
		w.Playback.Stop()
	}
	if w.Capture != nil {
		w.Capture.Abort()
	}
	return nil
}
