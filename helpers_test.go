package murmur_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/murmur"
	"github.com/fwojciec/murmur/mock"
)

// eventLog records events from any goroutine.
type eventLog struct {
	mu     sync.Mutex
	events []murmur.Event
}

func (l *eventLog) handle(e murmur.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []murmur.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]murmur.Event(nil), l.events...)
}

func (l *eventLog) notices() []murmur.EventNotice {
	var out []murmur.EventNotice
	for _, e := range l.all() {
		if n, ok := e.(murmur.EventNotice); ok {
			out = append(out, n)
		}
	}
	return out
}

// lastControlState returns the most recent state reported for c.
func (l *eventLog) lastControlState(c murmur.Control) (murmur.ControlState, bool) {
	events := l.all()
	for i := len(events) - 1; i >= 0; i-- {
		if e, ok := events[i].(murmur.EventPlayback); ok && e.Control == c {
			return e.State, true
		}
	}
	return murmur.ControlIdle, false
}

// fakePlayer hands out playbacks that stay audible until stopped or ended,
// and counts how many are audible at once.
type fakePlayer struct {
	mu       sync.Mutex
	started  []*fakePlayback
	audible  int
	peak     int
	startErr error
}

type fakePlayback struct {
	player *fakePlayer
	audio  murmur.Audio
	done   chan struct{}
	stops  atomic.Int32
	once   sync.Once
}

func (p *fakePlayer) Start(_ context.Context, audio murmur.Audio) (murmur.Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startErr != nil {
		return nil, p.startErr
	}
	pb := &fakePlayback{player: p, audio: audio, done: make(chan struct{})}
	p.started = append(p.started, pb)
	p.audible++
	if p.audible > p.peak {
		p.peak = p.audible
	}
	return pb, nil
}

func (p *fakePlayer) playbacks() []*fakePlayback {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*fakePlayback(nil), p.started...)
}

func (p *fakePlayer) maxAudible() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

func (p *fakePlayer) currentlyAudible() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audible
}

func (pb *fakePlayback) Done() <-chan struct{} { return pb.done }

func (pb *fakePlayback) Stop() error {
	pb.stops.Add(1)
	pb.silence()
	return nil
}

// end simulates the stream finishing on its own.
func (pb *fakePlayback) end() {
	pb.silence()
	close(pb.done)
}

func (pb *fakePlayback) silence() {
	pb.once.Do(func() {
		pb.player.mu.Lock()
		pb.player.audible--
		pb.player.mu.Unlock()
	})
}

// countingSynth synthesizes deterministic audio and counts calls per text.
func countingSynth(calls *atomic.Int32) *mock.Synthesizer {
	return &mock.Synthesizer{
		SynthesizeFn: func(_ context.Context, req murmur.SpeechRequest) (murmur.Audio, error) {
			calls.Add(1)
			return murmur.Audio{Data: []byte("audio:" + req.Text), ContentType: "audio/mpeg"}, nil
		},
	}
}
