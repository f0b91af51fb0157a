package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/murmur"
	"github.com/fwojciec/murmur/backend"
	"github.com/fwojciec/murmur/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBackend_DefaultIsHTTP(t *testing.T) {
	t.Parallel()
	svc, err := resolveBackend(context.Background(), "", "", "", "")
	require.NoError(t, err)
	assert.IsType(t, &backend.Client{}, svc)
}

func TestResolveBackend_HTTPWithBaseURL(t *testing.T) {
	t.Parallel()
	svc, err := resolveBackend(context.Background(), "http", "http://example.test", "", "")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestResolveBackend_GeminiFromEnv(t *testing.T) {
	t.Parallel()
	svc, err := resolveBackend(context.Background(), "gemini", "", "", "gk-env")
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, svc)
}

func TestResolveBackend_GeminiFlagKey(t *testing.T) {
	t.Parallel()
	svc, err := resolveBackend(context.Background(), "gemini", "", "gk-flag", "")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestResolveBackend_GeminiMissingKey(t *testing.T) {
	t.Parallel()
	_, err := resolveBackend(context.Background(), "gemini", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY not set")
}

func TestResolveBackend_Unknown(t *testing.T) {
	t.Parallel()
	_, err := resolveBackend(context.Background(), "openai", "", "", "")
	require.ErrorIs(t, err, errUnknownOption)
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{"json", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s, closeStore, err := openStore(kind, t.TempDir())
			require.NoError(t, err)
			defer func() { require.NoError(t, closeStore()) }()

			require.NoError(t, s.Set(ctx, "session", "abc"))
			got, err := s.Get(ctx, "session")
			require.NoError(t, err)
			assert.Equal(t, "abc", got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, _, err := openStore("redis", t.TempDir())
		require.ErrorIs(t, err, errUnknownOption)
	})
}

func TestSpeechOptions(t *testing.T) {
	t.Parallel()
	assert.Equal(t, murmur.DefaultSpeechOptions(), speechOptions("", ""))
	assert.Equal(t, murmur.SpeechOptions{Voice: "nova", Format: "wav"}, speechOptions("nova", "wav"))
}

func TestTranscriptPath(t *testing.T) {
	t.Parallel()
	tr := murmur.Transcript{SessionID: "01J0", SavedAt: time.Unix(1700000000, 0)}
	assert.Equal(t, filepath.Join("data", "transcripts", "01J0-1700000000.json"), transcriptPath("data", tr))
}
