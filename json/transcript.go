package json

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/murmur"
)

// envelope is the v1 wire format for a saved transcript.
type envelope struct {
	Version   int          `json:"version"`
	SessionID string       `json:"session_id"`
	SavedAt   time.Time    `json:"saved_at"`
	Messages  []messageDTO `json:"messages"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalTranscript serializes a Transcript to JSON in v1 envelope format.
func MarshalTranscript(tr murmur.Transcript) ([]byte, error) {
	env := envelope{
		Version:   1,
		SessionID: tr.SessionID,
		SavedAt:   tr.SavedAt,
		Messages:  make([]messageDTO, len(tr.Messages)),
	}
	for i, m := range tr.Messages {
		env.Messages[i] = messageDTO{
			ID:        m.ID,
			Role:      string(m.Role),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript deserializes a Transcript from JSON in v1 envelope
// format.
func UnmarshalTranscript(data []byte) (murmur.Transcript, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return murmur.Transcript{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return murmur.Transcript{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]murmur.Message, len(env.Messages))
	for i, dto := range env.Messages {
		role := murmur.Role(dto.Role)
		if role != murmur.RoleUser && role != murmur.RoleAssistant {
			return murmur.Transcript{}, fmt.Errorf("message %d: unknown role %q", i, dto.Role)
		}
		msgs[i] = murmur.Message{ID: dto.ID, Role: role, Text: dto.Text, CreatedAt: dto.CreatedAt}
	}
	return murmur.Transcript{SessionID: env.SessionID, SavedAt: env.SavedAt, Messages: msgs}, nil
}

// Save writes a Transcript to a JSON file, creating parent directories as
// needed.
func Save(path string, tr murmur.Transcript) error {
	data, err := MarshalTranscript(tr)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, data)
}

// Load reads a Transcript from a JSON file.
func Load(path string) (murmur.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return murmur.Transcript{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}
