// Package mock provides test doubles for murmur interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/murmur"
)

// Interface compliance checks.
var (
	_ murmur.ChatBackend   = (*ChatBackend)(nil)
	_ murmur.Synthesizer   = (*Synthesizer)(nil)
	_ murmur.Transcriber   = (*Transcriber)(nil)
	_ murmur.KeyValueStore = (*KeyValueStore)(nil)
)

// ChatBackend is a test double for murmur.ChatBackend.
// Set ChatFn before calling Chat.
type ChatBackend struct {
	ChatFn func(ctx context.Context, req murmur.ChatRequest) ([]byte, error)
}

// Chat delegates to ChatFn.
func (b *ChatBackend) Chat(ctx context.Context, req murmur.ChatRequest) ([]byte, error) {
	return b.ChatFn(ctx, req)
}

// Synthesizer is a test double for murmur.Synthesizer.
// Set SynthesizeFn before calling Synthesize.
type Synthesizer struct {
	SynthesizeFn func(ctx context.Context, req murmur.SpeechRequest) (murmur.Audio, error)
}

// Synthesize delegates to SynthesizeFn.
func (s *Synthesizer) Synthesize(ctx context.Context, req murmur.SpeechRequest) (murmur.Audio, error) {
	return s.SynthesizeFn(ctx, req)
}

// Transcriber is a test double for murmur.Transcriber.
// Set TranscribeFn before calling Transcribe.
type Transcriber struct {
	TranscribeFn func(ctx context.Context, audio murmur.Audio, filename string) (string, error)
}

// Transcribe delegates to TranscribeFn.
func (t *Transcriber) Transcribe(ctx context.Context, audio murmur.Audio, filename string) (string, error) {
	return t.TranscribeFn(ctx, audio, filename)
}

// KeyValueStore is a test double for murmur.KeyValueStore.
// Set the function fields for the methods you need.
type KeyValueStore struct {
	GetFn func(ctx context.Context, key string) (string, error)
	SetFn func(ctx context.Context, key, value string) error
}

// Get delegates to GetFn.
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	return s.GetFn(ctx, key)
}

// Set delegates to SetFn.
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	return s.SetFn(ctx, key, value)
}
