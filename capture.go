package murmur

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// CaptureState is the state of the voice capture machine.
type CaptureState int

const (
	CaptureIdle       CaptureState = iota // No recording.
	CaptureRecording                      // Microphone open, accumulating chunks.
	CaptureFinalizing                     // Recording stopped, transcribing.
)

func (s CaptureState) String() string {
	switch s {
	case CaptureRecording:
		return "recording"
	case CaptureFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// chunkSize is the read size for draining a capture stream.
const chunkSize = 4096

// captureSession is one open recording. chunks are written only by the
// reader goroutine; done is closed when it exits.
type captureSession struct {
	stream   CaptureStream
	encoding Encoding
	chunks   [][]byte
	readErr  error
	done     chan struct{}
	release  sync.Once
}

func (s *captureSession) drain() {
	defer close(s.done)
	buf := make([]byte, chunkSize)
	for {
		n, err := s.stream.Read(buf)
		if n > 0 {
			s.chunks = append(s.chunks, bytes.Clone(buf[:n]))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.readErr = err
			}
			return
		}
	}
}

// assemble joins the recorded chunks into one payload tagged with the
// container type chosen at start.
func (s *captureSession) assemble() Audio {
	return Audio{Data: bytes.Join(s.chunks, nil), ContentType: s.encoding.Container()}
}

// close releases the device. Safe to call more than once.
func (s *captureSession) close() error {
	var err error
	s.release.Do(func() { err = s.stream.Close() })
	return err
}

// SendFunc delivers recognized text to the conversation as if it had been
// typed.
type SendFunc func(ctx context.Context, text string) error

// CaptureController turns a microphone recording into text and hands it to
// a SendFunc. Only one recording can be open at a time, and the device is
// released on every path out of Recording or Finalizing.
type CaptureController struct {
	mic         Microphone
	transcriber Transcriber
	send        SendFunc
	encodings   []Encoding
	opts        options

	mu      sync.Mutex
	state   CaptureState
	opening bool
	session *captureSession
}

// NewCaptureController creates a CaptureController that prefers
// DefaultEncodings.
func NewCaptureController(mic Microphone, transcriber Transcriber, send SendFunc, opts ...Option) *CaptureController {
	return &CaptureController{
		mic:         mic,
		transcriber: transcriber,
		send:        send,
		encodings:   DefaultEncodings,
		opts:        newOptions(opts),
	}
}

// State returns the current capture state.
func (c *CaptureController) State() CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PickEncoding returns the first preferred encoding the microphone supports,
// or the webm container when it reports none.
func (c *CaptureController) PickEncoding() Encoding {
	for _, enc := range c.encodings {
		if c.mic.Supports(enc) {
			return enc
		}
	}
	return "audio/webm"
}

// Toggle stops an active recording or starts a new one.
func (c *CaptureController) Toggle(ctx context.Context) error {
	if c.State() == CaptureRecording {
		return c.Stop(ctx)
	}
	return c.Start(ctx)
}

// Start opens the microphone and begins recording. It returns
// ErrCaptureActive when a recording is open or being opened. If the device
// cannot be opened the state stays Idle and an EventNotice is emitted.
func (c *CaptureController) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != CaptureIdle || c.opening {
		c.mu.Unlock()
		return ErrCaptureActive
	}
	c.opening = true
	c.mu.Unlock()

	enc := c.PickEncoding()
	stream, err := c.mic.Open(ctx, enc)

	c.mu.Lock()
	c.opening = false
	if err != nil {
		c.mu.Unlock()
		c.opts.logger.Warn("open microphone", "encoding", string(enc), "error", err)
		c.opts.emit(EventNotice{Text: "Unable to start recording: " + err.Error(), Err: err})
		return fmt.Errorf("start capture: %w", err)
	}
	s := &captureSession{stream: stream, encoding: enc, done: make(chan struct{})}
	c.session = s
	c.state = CaptureRecording
	c.mu.Unlock()

	go s.drain()
	c.opts.logger.Debug("recording started", "encoding", string(enc))
	c.opts.emit(EventCapture{State: CaptureRecording})
	return nil
}

// Stop ends the recording, releases the microphone and transcribes what was
// captured. Recognized text goes to the SendFunc. A transcription failure
// emits an EventNotice and is returned. Stop with no active recording is a
// no-op.
func (c *CaptureController) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state != CaptureRecording {
		c.mu.Unlock()
		return nil
	}
	s := c.session
	c.state = CaptureFinalizing
	c.mu.Unlock()
	c.opts.emit(EventCapture{State: CaptureFinalizing})

	text, err := c.finalize(ctx, s)
	c.reset()
	if err != nil {
		c.opts.emit(EventNotice{Text: "Speech recognition failed: " + err.Error(), Err: err})
		return fmt.Errorf("stop capture: %w", err)
	}

	c.opts.emit(EventTranscript{Text: text})
	if c.send == nil {
		return nil
	}
	return c.send(ctx, text)
}

// finalize drains the recording, releases the device and transcribes the
// assembled payload.
func (c *CaptureController) finalize(ctx context.Context, s *captureSession) (string, error) {
	defer func() {
		if err := s.close(); err != nil {
			c.opts.logger.Debug("release microphone", "error", err)
		}
	}()

	if err := s.stream.Stop(); err != nil {
		c.opts.logger.Debug("signal end of capture", "error", err)
	}
	select {
	case <-s.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if s.readErr != nil {
		c.opts.logger.Warn("capture read", "error", s.readErr)
	}

	audio := s.assemble()
	if err := s.close(); err != nil {
		c.opts.logger.Debug("release microphone", "error", err)
	}
	c.opts.logger.Debug("recording finished", "bytes", audio.Len(), "type", audio.ContentType)

	return c.transcriber.Transcribe(ctx, audio, s.encoding.Filename())
}

// Abort discards an active recording without transcribing it.
func (c *CaptureController) Abort() {
	c.mu.Lock()
	if c.state != CaptureRecording {
		c.mu.Unlock()
		return
	}
	s := c.session
	c.state = CaptureFinalizing
	c.mu.Unlock()

	if err := s.close(); err != nil {
		c.opts.logger.Debug("release microphone", "error", err)
	}
	<-s.done
	c.reset()
}

func (c *CaptureController) reset() {
	c.mu.Lock()
	c.state = CaptureIdle
	c.session = nil
	c.mu.Unlock()
	c.opts.emit(EventCapture{State: CaptureIdle})
}
