package murmur

import (
	"context"
	"io"
	"strings"
)

// Encoding is a capture MIME type, optionally with a codecs parameter, such
// as "audio/webm;codecs=opus".
type Encoding string

// DefaultEncodings is the capture preference order. The first encoding the
// Microphone supports wins.
var DefaultEncodings = []Encoding{
	"audio/webm;codecs=opus",
	"audio/webm",
	"audio/ogg;codecs=opus",
	"audio/ogg",
}

// Container returns the MIME type without codec parameters. Anything that is
// not ogg is treated as webm.
func (e Encoding) Container() string {
	if strings.Contains(string(e), "ogg") {
		return "audio/ogg"
	}
	return "audio/webm"
}

// Filename returns the upload filename matching the container.
func (e Encoding) Filename() string {
	if e.Container() == "audio/ogg" {
		return "audio.ogg"
	}
	return "audio.webm"
}

// Microphone opens capture streams.
type Microphone interface {
	// Supports reports whether the device can record the given encoding.
	Supports(enc Encoding) bool
	// Open requests access to the device and starts recording. A denied or
	// missing device returns an error and leaves nothing open.
	Open(ctx context.Context, enc Encoding) (CaptureStream, error)
}

// CaptureStream is an open recording. Read yields encoded chunks until the
// recording ends. Stop signals the end of capture; buffered data is still
// delivered before Read returns io.EOF. Close releases the hardware and is
// safe to call more than once.
type CaptureStream interface {
	io.Reader
	Stop() error
	Close() error
}

// Player starts audible playback of an audio payload.
type Player interface {
	Start(ctx context.Context, audio Audio) (Playback, error)
}

// Playback is a live audio stream. Done is closed when playback ends on its
// own. Stop halts playback and releases its resources; it is safe to call
// more than once and after Done is closed.
type Playback interface {
	Done() <-chan struct{}
	Stop() error
}
