package mock

import (
	"context"

	"github.com/fwojciec/murmur"
)

// Interface compliance checks.
var (
	_ murmur.Microphone    = (*Microphone)(nil)
	_ murmur.CaptureStream = (*CaptureStream)(nil)
	_ murmur.Player        = (*Player)(nil)
	_ murmur.Playback      = (*Playback)(nil)
)

// Microphone is a test double for murmur.Microphone.
// SupportsFn is nil-safe and reports every encoding as supported. OpenFn
// panics when nil to catch missing setup.
type Microphone struct {
	SupportsFn func(enc murmur.Encoding) bool
	OpenFn     func(ctx context.Context, enc murmur.Encoding) (murmur.CaptureStream, error)
}

// Supports delegates to SupportsFn.
func (m *Microphone) Supports(enc murmur.Encoding) bool {
	if m.SupportsFn == nil {
		return true
	}
	return m.SupportsFn(enc)
}

// Open delegates to OpenFn.
func (m *Microphone) Open(ctx context.Context, enc murmur.Encoding) (murmur.CaptureStream, error) {
	return m.OpenFn(ctx, enc)
}

// CaptureStream is a test double for murmur.CaptureStream.
// ReadFn panics when nil. StopFn and CloseFn are nil-safe no-ops because
// most tests only care that they were reached.
type CaptureStream struct {
	ReadFn  func(p []byte) (int, error)
	StopFn  func() error
	CloseFn func() error
}

// Read delegates to ReadFn.
func (s *CaptureStream) Read(p []byte) (int, error) {
	return s.ReadFn(p)
}

// Stop delegates to StopFn.
func (s *CaptureStream) Stop() error {
	if s.StopFn == nil {
		return nil
	}
	return s.StopFn()
}

// Close delegates to CloseFn.
func (s *CaptureStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Player is a test double for murmur.Player.
// Set StartFn before calling Start.
type Player struct {
	StartFn func(ctx context.Context, audio murmur.Audio) (murmur.Playback, error)
}

// Start delegates to StartFn.
func (p *Player) Start(ctx context.Context, audio murmur.Audio) (murmur.Playback, error) {
	return p.StartFn(ctx, audio)
}

// Playback is a test double for murmur.Playback.
// DoneFn panics when nil. StopFn is a nil-safe no-op.
type Playback struct {
	DoneFn func() <-chan struct{}
	StopFn func() error
}

// Done delegates to DoneFn.
func (p *Playback) Done() <-chan struct{} {
	return p.DoneFn()
}

// Stop delegates to StopFn.
func (p *Playback) Stop() error {
	if p.StopFn == nil {
		return nil
	}
	return p.StopFn()
}
