package ffmpeg_test

import (
	"context"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/fwojciec/murmur"
	"github.com/fwojciec/murmur/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		goos   string
		device string
		enc    murmur.Encoding
		want   []string
	}{
		{
			name: "linux webm opus",
			goos: "linux",
			enc:  "audio/webm;codecs=opus",
			want: []string{"-hide_banner", "-loglevel", "error", "-f", "pulse", "-i", "default", "-ac", "1", "-ar", "48000", "-c:a", "libopus", "-f", "webm", "pipe:1"},
		},
		{
			name:   "linux ogg on a named source",
			goos:   "linux",
			device: "alsa_input.usb",
			enc:    "audio/ogg",
			want:   []string{"-hide_banner", "-loglevel", "error", "-f", "pulse", "-i", "alsa_input.usb", "-ac", "1", "-ar", "48000", "-f", "ogg", "pipe:1"},
		},
		{
			name: "darwin webm",
			goos: "darwin",
			enc:  "audio/webm",
			want: []string{"-hide_banner", "-loglevel", "error", "-f", "avfoundation", "-i", ":0", "-ac", "1", "-ar", "48000", "-f", "webm", "pipe:1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ffmpeg.CaptureArgs(tt.goos, tt.device, tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unsupported platform", func(t *testing.T) {
		t.Parallel()
		_, err := ffmpeg.CaptureArgs("windows", "", "audio/webm")
		assert.ErrorContains(t, err, "windows")
	})
}

func TestParseFormats(t *testing.T) {
	t.Parallel()

	muxers := []byte(`File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
  E 3g2             3GP2 (3GPP2 file format)
  E ogg             Ogg
  E webm            WebM
 DE matroska,webm   Matroska / WebM
`)
	got := ffmpeg.ParseFormats(muxers)
	assert.True(t, got["ogg"])
	assert.True(t, got["webm"])
	assert.True(t, got["matroska"])
	assert.False(t, got["D."])
	assert.False(t, got["mp4"])

	encoders := []byte(`Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D a64multi             Multicolor charset for Commodore 64 (codec a64_multi)
 A....D libopus              libopus Opus (codec opus)
`)
	got = ffmpeg.ParseFormats(encoders)
	assert.True(t, got["libopus"])
	assert.False(t, got["V....."])

	assert.Empty(t, ffmpeg.ParseFormats(nil))
}

func TestPlayArgs(t *testing.T) {
	t.Parallel()
	args := ffmpeg.PlayArgs()
	assert.Contains(t, args, "-nodisp")
	assert.Contains(t, args, "-autoexit")
	assert.Equal(t, []string{"-i", "pipe:0"}, args[len(args)-2:])
}

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestMicrophone_Process(t *testing.T) {
	t.Parallel()
	sh := requireShell(t)
	ctx := context.Background()

	t.Run("stop lets the recorder flush", func(t *testing.T) {
		t.Parallel()
		// Emits a header, waits for the quit request on stdin, then a trailer.
		mic := ffmpeg.NewMicrophoneWithCommand(sh, "-c", `printf hdr; read -r x; printf "end:$x"`)
		assert.True(t, mic.Supports("audio/webm;codecs=opus"))

		stream, err := mic.Open(ctx, "audio/webm")
		require.NoError(t, err)
		defer stream.Close()

		require.NoError(t, stream.Stop())
		data, err := io.ReadAll(stream)
		require.NoError(t, err)
		assert.Equal(t, "hdrend:q", string(data))
		assert.NoError(t, stream.Close())
		assert.NoError(t, stream.Close())
	})

	t.Run("close ends a running recording", func(t *testing.T) {
		t.Parallel()
		mic := ffmpeg.NewMicrophoneWithCommand(sh, "-c", "printf x; exec sleep 30")
		stream, err := mic.Open(ctx, "audio/ogg")
		require.NoError(t, err)

		buf := make([]byte, 1)
		n, err := stream.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		done := make(chan error, 1)
		go func() {
			_, err := io.ReadAll(stream)
			done <- err
		}()
		require.NoError(t, stream.Close())
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("read did not end after close")
		}
	})

	t.Run("device failure surfaces the tool output", func(t *testing.T) {
		t.Parallel()
		mic := ffmpeg.NewMicrophoneWithCommand(sh, "-c", "echo 'default: Permission denied' >&2; exit 1")
		stream, err := mic.Open(ctx, "audio/webm")
		require.NoError(t, err)
		defer stream.Close()

		_, err = io.ReadAll(stream)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Permission denied")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		mic := ffmpeg.NewMicrophoneWithCommand(sh, "-c", "true")
		_, err := mic.Open(cctx, "audio/webm")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPlayer_Process(t *testing.T) {
	t.Parallel()
	sh := requireShell(t)
	ctx := context.Background()
	audio := murmur.Audio{Data: []byte("RIFF...."), ContentType: "audio/wav"}

	t.Run("done closes when the stream ends", func(t *testing.T) {
		t.Parallel()
		p := ffmpeg.NewPlayerWithCommand(sh, "-c", "cat >/dev/null")
		pb, err := p.Start(ctx, audio)
		require.NoError(t, err)

		select {
		case <-pb.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("playback did not finish")
		}
		assert.NoError(t, ffmpeg.ProcessError(pb))
		assert.NoError(t, pb.Stop())
	})

	t.Run("stop halts playback", func(t *testing.T) {
		t.Parallel()
		p := ffmpeg.NewPlayerWithCommand(sh, "-c", "cat >/dev/null; exec sleep 30")
		pb, err := p.Start(ctx, audio)
		require.NoError(t, err)

		require.NoError(t, pb.Stop())
		select {
		case <-pb.Done():
		default:
			t.Fatal("done not closed after stop")
		}
		assert.NoError(t, pb.Stop())
	})

	t.Run("empty audio is rejected", func(t *testing.T) {
		t.Parallel()
		p := ffmpeg.NewPlayerWithCommand(sh, "-c", "true")
		_, err := p.Start(ctx, murmur.Audio{})
		assert.ErrorIs(t, err, murmur.ErrValidation)
	})
}
