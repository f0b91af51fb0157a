package murmur

import "time"

// Message is a single turn in the conversation. Messages are immutable once
// appended and are never removed.
type Message struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
}

// Audio is an opaque audio payload tagged with its MIME content type.
type Audio struct {
	Data        []byte
	ContentType string
}

// Len returns the payload size in bytes.
func (a Audio) Len() int { return len(a.Data) }

// Transcript is a saved copy of a conversation.
type Transcript struct {
	SessionID string
	SavedAt   time.Time
	Messages  []Message
}
