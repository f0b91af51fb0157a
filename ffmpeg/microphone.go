package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os/exec"
	"runtime"
	"strconv"
	"sync"

	"github.com/fwojciec/murmur"
)

// Interface compliance checks.
var (
	_ murmur.Microphone    = (*Microphone)(nil)
	_ murmur.CaptureStream = (*captureStream)(nil)
)

// Microphone records from the default audio input with ffmpeg.
type Microphone struct {
	bin    string
	goos   string
	device string
	args   func(goos, device string, enc murmur.Encoding) ([]string, error)

	probeOnce sync.Once
	muxers    map[string]bool
	encoders  map[string]bool
}

// MicrophoneOption configures a [Microphone].
type MicrophoneOption func(*Microphone)

// WithDevice sets the input device: a PulseAudio source name on Linux or an
// AVFoundation index such as ":1" on macOS.
func WithDevice(device string) MicrophoneOption {
	return func(m *Microphone) { m.device = device }
}

// NewMicrophone locates ffmpeg and returns a Microphone for the current
// platform.
func NewMicrophone(opts ...MicrophoneOption) (*Microphone, error) {
	bin, err := lookPath("ffmpeg", "voice capture")
	if err != nil {
		return nil, err
	}
	m := &Microphone{bin: bin, goos: runtime.GOOS, args: CaptureArgs}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Supports reports whether the local ffmpeg build can mux enc's container
// and, when enc names the opus codec, encode it.
func (m *Microphone) Supports(enc murmur.Encoding) bool {
	m.probeOnce.Do(m.probe)
	format, codec := formatOf(enc)
	if m.muxers != nil && !m.muxers[format] {
		return false
	}
	if codec != "" && m.encoders != nil && !m.encoders[codec] {
		return false
	}
	return true
}

// probe lists the muxers and encoders of the local build. A failed probe
// leaves the lists nil, in which case every encoding is assumed supported.
func (m *Microphone) probe() {
	if out, err := exec.Command(m.bin, "-hide_banner", "-muxers").Output(); err == nil {
		m.muxers = ParseFormats(out)
	}
	if out, err := exec.Command(m.bin, "-hide_banner", "-encoders").Output(); err == nil {
		m.encoders = ParseFormats(out)
	}
}

// Open starts ffmpeg recording in enc. The process keeps running until the
// stream is stopped or closed; ctx only bounds the start.
func (m *Microphone) Open(ctx context.Context, enc murmur.Encoding) (murmur.CaptureStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args, err := m.args(m.goos, m.device, enc)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(m.bin, args...)
	proc := newProcess(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: open stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: open stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: start capture: %w", err)
	}
	return &captureStream{proc: proc, stdin: stdin, stdout: stdout}, nil
}

// formatOf maps an encoding to the ffmpeg muxer and encoder names.
func formatOf(enc murmur.Encoding) (format, codec string) {
	format = "webm"
	if enc.Container() == "audio/ogg" {
		format = "ogg"
	}
	_, params, err := mime.ParseMediaType(string(enc))
	if err == nil && params["codecs"] == "opus" {
		codec = "libopus"
	}
	return format, codec
}

// CaptureArgs builds the ffmpeg arguments that record mono audio from the
// platform input and write enc's container to stdout. An empty device
// selects the platform default.
func CaptureArgs(goos, device string, enc murmur.Encoding) ([]string, error) {
	var input []string
	switch goos {
	case "darwin":
		if device == "" {
			device = ":0"
		}
		input = []string{"-f", "avfoundation", "-i", device}
	case "linux":
		if device == "" {
			device = "default"
		}
		input = []string{"-f", "pulse", "-i", device}
	default:
		return nil, fmt.Errorf("ffmpeg: voice capture is not implemented for %s; supported platforms: darwin, linux", goos)
	}

	format, codec := formatOf(enc)
	args := []string{"-hide_banner", "-loglevel", "error"}
	args = append(args, input...)
	args = append(args, "-ac", "1", "-ar", strconv.Itoa(micSampleRateHz))
	if codec != "" {
		args = append(args, "-c:a", codec)
	}
	return append(args, "-f", format, "pipe:1"), nil
}

// captureStream is a running ffmpeg recording.
type captureStream struct {
	proc   *process
	stdin  io.WriteCloser
	stdout io.ReadCloser

	stopOnce sync.Once
	mu       sync.Mutex
	stopped  bool
	closed   bool
}

// Read returns muxed audio. When ffmpeg exits on its own with an error, the
// error carries what ffmpeg printed, which is how a missing or denied input
// device surfaces.
func (s *captureStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, io.EOF) {
		if s.released() {
			return n, io.EOF
		}
		return n, fmt.Errorf("ffmpeg: read capture: %w", err)
	}
	if werr := s.proc.wait(); werr != nil && !s.released() {
		return n, s.proc.exitError(werr)
	}
	return n, io.EOF
}

// Stop asks ffmpeg to finish: "q" on stdin makes it flush and close the
// container before exiting.
func (s *captureStream) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		if _, werr := io.WriteString(s.stdin, "q"); werr != nil {
			err = fmt.Errorf("ffmpeg: stop capture: %w", werr)
		}
		_ = s.stdin.Close()
	})
	return err
}

// Close kills ffmpeg if it is still running.
func (s *captureStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	_ = s.stdin.Close()
	s.proc.kill()
	return nil
}

// released reports whether the stream was ended by the caller, in which case
// a non-zero exit is expected.
func (s *captureStream) released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped || s.closed
}
