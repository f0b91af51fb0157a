// Package ffmpeg implements murmur's Microphone and Player by driving the
// ffmpeg and ffplay command-line tools.
//
// Capture runs ffmpeg against the platform audio input (PulseAudio on Linux,
// AVFoundation on macOS) and muxes the recording to webm or ogg on stdout.
// Playback pipes the payload into ffplay, which detects the container
// itself and exits when the stream ends.
package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	micSampleRateHz = 48000

	// stderrLimit bounds how much tool output is kept for error messages.
	stderrLimit = 4096

	// waitDelay bounds how long reaping waits on output held open by
	// children of a killed tool.
	waitDelay = 2 * time.Second
)

func lookPath(name, purpose string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("ffmpeg: %s is required for %s (install ffmpeg and ensure it is in PATH): %w", name, purpose, err)
	}
	return path, nil
}

// tailBuffer keeps the last stderrLimit bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - stderrLimit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(string(b.buf))
}

// process tracks one running command. wait may be called from several
// goroutines; the command is reaped once.
type process struct {
	cmd    *exec.Cmd
	stderr *tailBuffer

	once    sync.Once
	exited  chan struct{}
	waitErr error
}

func newProcess(cmd *exec.Cmd) *process {
	p := &process{cmd: cmd, stderr: &tailBuffer{}, exited: make(chan struct{})}
	cmd.Stderr = p.stderr
	cmd.WaitDelay = waitDelay
	return p
}

func (p *process) wait() error {
	p.once.Do(func() {
		p.waitErr = p.cmd.Wait()
		close(p.exited)
	})
	<-p.exited
	return p.waitErr
}

// kill terminates the process if it is still running and reaps it.
func (p *process) kill() {
	select {
	case <-p.exited:
		return
	default:
	}
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.wait()
}

// exitError describes an unexpected exit, including what the tool printed.
func (p *process) exitError(err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	if msg := p.stderr.String(); msg != "" {
		return fmt.Errorf("ffmpeg: %s exited with status %d: %s", p.cmd.Path, exitErr.ExitCode(), msg)
	}
	return fmt.Errorf("ffmpeg: %s exited with status %d", p.cmd.Path, exitErr.ExitCode())
}

// ParseFormats returns the names listed in the output of "ffmpeg -muxers"
// or "ffmpeg -encoders". Lines look like " E webm  WebM" or
// " A....D libopus  libopus Opus"; comma-separated aliases are split.
func ParseFormats(out []byte) map[string]bool {
	names := make(map[string]bool)
	inList := false
	for _, line := range bytes.Split(out, []byte("\n")) {
		fields := strings.Fields(string(line))
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "--" || strings.HasPrefix(fields[0], "---") {
			inList = true
			continue
		}
		if !inList || len(fields) < 2 {
			continue
		}
		for _, name := range strings.Split(fields[1], ",") {
			names[name] = true
		}
	}
	return names
}
