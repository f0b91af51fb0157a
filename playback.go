package murmur

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Control identifies the play affordance a playback is bound to, usually the
// ID of the message being spoken.
type Control string

// ControlState is what a play control shows.
type ControlState int

const (
	ControlIdle    ControlState = iota // Nothing playing; press to play.
	ControlLoading                     // Speech is being synthesized.
	ControlPlaying                     // Audible; press to stop.
)

func (s ControlState) String() string {
	switch s {
	case ControlLoading:
		return "loading"
	case ControlPlaying:
		return "playing"
	default:
		return "idle"
	}
}

// PlaybackState is the lifecycle of a single playback session.
type PlaybackState int

const (
	PlaybackConstructed PlaybackState = iota // Bound to a control, not yet audible.
	PlaybackPlaying                          // Player started.
	PlaybackStopped                          // Torn down; terminal.
)

// playbackSession is the one audible stream. teardown runs exactly once no
// matter whether the user, a newer playback or the end of the stream ends it.
type playbackSession struct {
	control  Control
	playback Playback
	state    PlaybackState
	stopped  chan struct{}
	once     sync.Once
}

// PlaybackManager owns at most one audible playback at a time and caches
// synthesized speech by key.
type PlaybackManager struct {
	synth  Synthesizer
	player Player
	cache  *SpeechCache
	opts   options

	mu     sync.Mutex
	active *playbackSession
	gen    uint64
	claims map[Control]uint64 // newest request generation per loading control
}

// NewPlaybackManager creates a PlaybackManager. A nil cache gets a fresh
// cache of CacheLimit entries.
func NewPlaybackManager(synth Synthesizer, player Player, cache *SpeechCache, opts ...Option) *PlaybackManager {
	if cache == nil {
		cache = NewSpeechCache(CacheLimit)
	}
	return &PlaybackManager{
		synth:  synth,
		player: player,
		cache:  cache,
		opts:   newOptions(opts),
		claims: make(map[Control]uint64),
	}
}

// Cache returns the speech cache.
func (m *PlaybackManager) Cache() *SpeechCache { return m.cache }

// PlayFromText speaks text through control. If control is already playing,
// the call stops it instead and nothing is fetched. Otherwise any active
// playback is torn down first, the audio is taken from the cache or
// synthesized and cached under key, and a new playback starts.
//
// A player that refuses to start (for example ErrAutoplayBlocked) resets the
// control to idle and emits an EventNotice; that is not an error. Synthesis
// failures emit a notice and are returned.
func (m *PlaybackManager) PlayFromText(ctx context.Context, key, text string, opts SpeechOptions, control Control) error {
	m.mu.Lock()
	if a := m.active; a != nil && a.control == control && a.state == PlaybackPlaying {
		m.teardownLocked(a)
		m.mu.Unlock()
		return nil
	}
	if m.active != nil {
		m.teardownLocked(m.active)
	}
	m.gen++
	gen := m.gen
	m.claims[control] = gen
	m.mu.Unlock()

	m.opts.emit(EventPlayback{Control: control, State: ControlLoading})

	audio, err := m.resolve(ctx, key, text, opts)
	if err != nil {
		m.mu.Lock()
		owned := m.releaseLocked(control, gen)
		m.mu.Unlock()
		if owned {
			m.opts.emit(EventPlayback{Control: control, State: ControlIdle})
			m.opts.emit(EventNotice{Text: "Speech playback failed: " + err.Error(), Err: err})
		}
		return fmt.Errorf("play %s: %w", key, err)
	}

	m.mu.Lock()
	owned := m.releaseLocked(control, gen)
	if gen != m.gen {
		// A newer request or Stop arrived while synthesizing. A newer request
		// on the same control owns its state now.
		m.mu.Unlock()
		if owned {
			m.opts.emit(EventPlayback{Control: control, State: ControlIdle})
		}
		return nil
	}
	if m.active != nil {
		m.teardownLocked(m.active)
	}
	s := &playbackSession{
		control: control,
		state:   PlaybackConstructed,
		stopped: make(chan struct{}),
	}
	pb, err := m.player.Start(ctx, audio)
	if err != nil {
		m.mu.Unlock()
		m.opts.logger.Warn("playback start failed", "key", key, "error", err)
		m.opts.emit(EventPlayback{Control: control, State: ControlIdle})
		notice := "Audio playback could not start; press play to retry."
		if !errors.Is(err, ErrAutoplayBlocked) {
			notice = "Audio playback could not start: " + err.Error()
		}
		m.opts.emit(EventNotice{Text: notice, Err: err})
		return nil
	}
	s.playback = pb
	s.state = PlaybackPlaying
	m.active = s
	m.mu.Unlock()

	m.opts.emit(EventPlayback{Control: control, State: ControlPlaying})
	go m.watch(s)
	return nil
}

// releaseLocked drops the claim gen holds on control and reports whether gen
// was still the newest request for it.
func (m *PlaybackManager) releaseLocked(control Control, gen uint64) bool {
	if m.claims[control] != gen {
		return false
	}
	delete(m.claims, control)
	return true
}

func (m *PlaybackManager) resolve(ctx context.Context, key, text string, opts SpeechOptions) (Audio, error) {
	if a, ok := m.cache.Get(key); ok {
		m.opts.logger.Debug("speech cache hit", "key", key)
		return a, nil
	}
	a, err := m.synth.Synthesize(ctx, SpeechRequest{Text: text, Voice: opts.Voice, Format: opts.Format})
	if err != nil {
		return Audio{}, err
	}
	m.cache.Put(key, a)
	return a, nil
}

// watch tears the session down when its stream ends on its own.
func (m *PlaybackManager) watch(s *playbackSession) {
	select {
	case <-s.playback.Done():
	case <-s.stopped:
		return
	}
	m.mu.Lock()
	m.teardownLocked(s)
	m.mu.Unlock()
}

// teardownLocked stops s, releases its resources and resets its control.
// Only the first call for a session has any effect.
func (m *PlaybackManager) teardownLocked(s *playbackSession) {
	s.once.Do(func() {
		if m.active == s {
			m.active = nil
		}
		if s.playback != nil {
			if err := s.playback.Stop(); err != nil {
				m.opts.logger.Debug("stop playback", "control", string(s.control), "error", err)
			}
		}
		s.state = PlaybackStopped
		close(s.stopped)
		m.opts.emit(EventPlayback{Control: s.control, State: ControlIdle})
	})
}

// Stop tears down the active playback and abandons any pending synthesis.
// Stopping with nothing active is a no-op.
func (m *PlaybackManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	if m.active != nil {
		m.teardownLocked(m.active)
	}
}

// Active returns the control bound to the audible playback, if any.
func (m *PlaybackManager) Active() (Control, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return m.active.control, true
}
