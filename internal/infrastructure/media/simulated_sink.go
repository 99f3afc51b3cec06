// Package media provides a clock-driven MediaSink for environments
// without a real video element, such as the demo session binary and
// integration tests.
package media

import (
	"sync"
	"time"

	"streamlay/internal/core/ports"
)

// SimulatedSink is a MediaSink driven by a wall-clock ticker. It mimics
// a video element: metadata loads asynchronously, time advances only
// while playing, and playback can be configured to refuse Play the way
// an autoplay policy would.
type SimulatedSink struct {
	mu sync.Mutex

	current  float64
	duration float64
	volume   float64
	rate     float64
	paused   bool
	loaded   bool

	blockAutoplay bool

	subs   map[int]chan ports.SinkEvent
	nextID int

	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
	closed bool
}

// Option configures a SimulatedSink.
type Option func(*SimulatedSink)

// WithBlockedAutoplay makes the first Play call fail until Pause or a
// user-initiated toggle, mirroring browser autoplay policies.
func WithBlockedAutoplay() Option {
	return func(s *SimulatedSink) {
		s.blockAutoplay = true
	}
}

// NewSimulatedSink creates a paused sink with no media loaded.
func NewSimulatedSink(opts ...Option) *SimulatedSink {
	s := &SimulatedSink{
		volume: 1.0,
		rate:   1.0,
		paused: true,
		subs:   make(map[int]chan ports.SinkEvent),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ticker = time.NewTicker(250 * time.Millisecond)
	go s.run()
	return s
}

// LoadMedia attaches media of the given duration and fires
// loadedmetadata, the same signal a real element emits once the
// container headers arrive.
func (s *SimulatedSink) LoadMedia(duration float64) {
	s.mu.Lock()
	s.loaded = true
	s.duration = duration
	s.current = 0
	s.emitLocked(ports.SinkLoadedMetadata)
	s.mu.Unlock()
}

func (s *SimulatedSink) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-s.ticker.C:
			s.advance(0.25)
		}
	}
}

func (s *SimulatedSink) advance(wallSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused || !s.loaded {
		return
	}

	s.current += wallSeconds * s.rate
	if s.duration > 0 && s.current >= s.duration {
		s.current = s.duration
		s.paused = true
		s.emitLocked(ports.SinkTimeUpdate)
		s.emitLocked(ports.SinkEnded)
		return
	}
	s.emitLocked(ports.SinkTimeUpdate)
}

func (s *SimulatedSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blockAutoplay {
		// One refusal, then a later explicit Play succeeds
		s.blockAutoplay = false
		return ErrAutoplayBlocked
	}

	if !s.paused {
		return nil
	}
	s.paused = false
	s.emitLocked(ports.SinkPlay)
	return nil
}

func (s *SimulatedSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return
	}
	s.paused = true
	s.emitLocked(ports.SinkPause)
}

func (s *SimulatedSink) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	if s.duration > 0 && seconds > s.duration {
		seconds = s.duration
	}
	s.current = seconds
	s.emitLocked(ports.SinkTimeUpdate)
}

func (s *SimulatedSink) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.volume = v
}

func (s *SimulatedSink) SetRate(r float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r > 0 {
		s.rate = r
	}
}

func (s *SimulatedSink) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SimulatedSink) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *SimulatedSink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *SimulatedSink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *SimulatedSink) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

func (s *SimulatedSink) Subscribe() (<-chan ports.SinkEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan ports.SinkEvent, 64)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close stops the clock and releases all subscriptions.
func (s *SimulatedSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.ticker.Stop()
	close(s.stop)
	<-s.done

	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()
}

// emitLocked fans an event out to all subscribers. Slow subscribers
// lose events instead of stalling the clock.
func (s *SimulatedSink) emitLocked(t ports.SinkEventType) {
	ev := ports.SinkEvent{
		Type:        t,
		CurrentTime: s.current,
		Duration:    s.duration,
	}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
