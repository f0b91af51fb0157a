package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/fwojciec/murmur"
)

// Interface compliance checks.
var (
	_ murmur.Player   = (*Player)(nil)
	_ murmur.Playback = (*playback)(nil)
)

// Player plays audio payloads through ffplay.
type Player struct {
	bin  string
	args []string
}

// NewPlayer locates ffplay.
func NewPlayer() (*Player, error) {
	bin, err := lookPath("ffplay", "speech playback")
	if err != nil {
		return nil, err
	}
	return &Player{bin: bin, args: PlayArgs()}, nil
}

// PlayArgs returns the ffplay arguments for headless playback of a payload
// on stdin that exits when the stream ends.
func PlayArgs() []string {
	return []string{"-nodisp", "-autoexit", "-hide_banner", "-loglevel", "error", "-i", "pipe:0"}
}

// Start launches ffplay and feeds it audio. The returned Playback's Done
// channel closes when ffplay exits.
func (p *Player) Start(ctx context.Context, audio murmur.Audio) (murmur.Playback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if audio.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg: empty audio: %w", murmur.ErrValidation)
	}
	cmd := exec.Command(p.bin, p.args...)
	proc := newProcess(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: open stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: start playback: %w", err)
	}

	pb := &playback{proc: proc, done: make(chan struct{})}
	go func() {
		// A write error means ffplay went away; wait reports why.
		_, _ = stdin.Write(audio.Data)
		_ = stdin.Close()
	}()
	go func() {
		pb.err = proc.wait()
		close(pb.done)
	}()
	return pb, nil
}

type playback struct {
	proc *process
	done chan struct{}
	err  error

	stopOnce sync.Once
}

func (p *playback) Done() <-chan struct{} { return p.done }

// Stop kills ffplay and waits for it to exit.
func (p *playback) Stop() error {
	p.stopOnce.Do(p.proc.kill)
	<-p.done
	return nil
}
