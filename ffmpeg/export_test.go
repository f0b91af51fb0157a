package ffmpeg

import "github.com/fwojciec/murmur"

// NewMicrophoneWithCommand returns a Microphone that runs bin with args
// instead of ffmpeg's capture arguments. The format probe reports every
// encoding as supported.
func NewMicrophoneWithCommand(bin string, args ...string) *Microphone {
	m := &Microphone{
		bin: bin,
		args: func(string, string, murmur.Encoding) ([]string, error) {
			return args, nil
		},
	}
	m.probeOnce.Do(func() {})
	return m
}

// NewPlayerWithCommand returns a Player that runs bin with args instead of
// ffplay.
func NewPlayerWithCommand(bin string, args ...string) *Player {
	return &Player{bin: bin, args: args}
}

// ProcessError returns the error a playback's process exited with, valid
// after Done is closed.
func ProcessError(pb murmur.Playback) error {
	return pb.(*playback).err
}
