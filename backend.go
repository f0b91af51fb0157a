package murmur

import (
	"context"
	"fmt"
	"strings"
)

// ChatRequest is one user turn sent to the chat backend. SessionID lets a
// stateless backend correlate turns into one conversation.
type ChatRequest struct {
	Text      string
	SessionID string
}

// Validate checks universal constraints on ChatRequest.
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("chat text must not be empty: %w", ErrValidation)
	}
	return nil
}

// ChatBackend answers a user turn. Chat returns the raw reply body; callers
// extract the text with ParseReply.
type ChatBackend interface {
	Chat(ctx context.Context, req ChatRequest) ([]byte, error)
}

// SpeechOptions selects the synthesized voice and audio format.
type SpeechOptions struct {
	Voice  string
	Format string
}

// DefaultSpeechOptions returns the voice and format used when none are
// configured.
func DefaultSpeechOptions() SpeechOptions {
	return SpeechOptions{Voice: "alloy", Format: "mp3"}
}

// SpeechRequest is the input to a Synthesizer.
type SpeechRequest struct {
	Text   string
	Voice  string
	Format string
}

// Synthesizer turns text into spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) (Audio, error)
}

// Transcriber turns recorded audio into text. The filename carries the
// container extension some services use to detect the format.
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio, filename string) (string, error)
}
