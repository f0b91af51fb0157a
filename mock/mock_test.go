package mock_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/murmur"
	"github.com/fwojciec/murmur/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatBackend_Chat(t *testing.T) {
	t.Parallel()
	t.Run("delegates to ChatFn", func(t *testing.T) {
		t.Parallel()
		b := mock.ChatBackend{
			ChatFn: func(ctx context.Context, req murmur.ChatRequest) ([]byte, error) {
				assert.Equal(t, "hello", req.Text)
				assert.Equal(t, "sess-1", req.SessionID)
				return []byte(`{"text":"hi"}`), nil
			},
		}
		got, err := b.Chat(context.Background(), murmur.ChatRequest{Text: "hello", SessionID: "sess-1"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"text":"hi"}`, string(got))
	})

	t.Run("panics when ChatFn not set", func(t *testing.T) {
		t.Parallel()
		b := mock.ChatBackend{}
		assert.Panics(t, func() {
			_, _ = b.Chat(context.Background(), murmur.ChatRequest{})
		})
	})
}

func TestSynthesizer_Synthesize(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("tts down")
	s := mock.Synthesizer{
		SynthesizeFn: func(ctx context.Context, req murmur.SpeechRequest) (murmur.Audio, error) {
			return murmur.Audio{}, wantErr
		},
	}
	_, err := s.Synthesize(context.Background(), murmur.SpeechRequest{Text: "x"})
	assert.ErrorIs(t, err, wantErr)
}

func TestTranscriber_Transcribe(t *testing.T) {
	t.Parallel()
	tr := mock.Transcriber{
		TranscribeFn: func(ctx context.Context, audio murmur.Audio, filename string) (string, error) {
			assert.Equal(t, "audio.ogg", filename)
			return "hello", nil
		},
	}
	got, err := tr.Transcribe(context.Background(), murmur.Audio{}, "audio.ogg")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestMicrophone_Supports(t *testing.T) {
	t.Parallel()
	t.Run("nil SupportsFn supports everything", func(t *testing.T) {
		t.Parallel()
		m := mock.Microphone{}
		assert.True(t, m.Supports("audio/ogg"))
	})

	t.Run("delegates to SupportsFn", func(t *testing.T) {
		t.Parallel()
		m := mock.Microphone{SupportsFn: func(enc murmur.Encoding) bool { return enc == "audio/ogg" }}
		assert.True(t, m.Supports("audio/ogg"))
		assert.False(t, m.Supports("audio/webm"))
	})
}

func TestCaptureStream(t *testing.T) {
	t.Parallel()
	t.Run("stop and close are nil-safe", func(t *testing.T) {
		t.Parallel()
		s := mock.CaptureStream{}
		assert.NoError(t, s.Stop())
		assert.NoError(t, s.Close())
	})

	t.Run("delegates to ReadFn", func(t *testing.T) {
		t.Parallel()
		s := mock.CaptureStream{ReadFn: func(p []byte) (int, error) { return 0, io.EOF }}
		_, err := s.Read(make([]byte, 4))
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestPlayback(t *testing.T) {
	t.Parallel()
	done := make(chan struct{})
	stopped := false
	p := mock.Playback{
		DoneFn: func() <-chan struct{} { return done },
		StopFn: func() error {
			stopped = true
			return nil
		},
	}
	assert.Equal(t, (<-chan struct{})(done), p.Done())
	require.NoError(t, p.Stop())
	assert.True(t, stopped)
}

func TestKeyValueStore(t *testing.T) {
	t.Parallel()
	s := mock.KeyValueStore{
		GetFn: func(ctx context.Context, key string) (string, error) { return "", murmur.ErrNotFound },
	}
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, murmur.ErrNotFound)
	assert.Panics(t, func() { _ = s.Set(context.Background(), "k", "v") })
}
