package services

import (
	"fmt"
	"sync"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"go.uber.org/zap"
)

// PlaybackController projects the media sink's state for the UI. The
// sink is authoritative: the controller's flags follow sink events
// rather than its own command log, so a blocked autoplay or an
// external pause is always reflected truthfully.
type PlaybackController struct {
	sink ports.MediaSink
	log  *zap.SugaredLogger

	mu    sync.Mutex
	state domain.PlaybackState

	events <-chan ports.SinkEvent
	cancel func()
	done   chan struct{}
	closed bool
}

// NewPlaybackController subscribes to the sink and starts mirroring
// its events. Call Close when navigating away from the stream.
func NewPlaybackController(sink ports.MediaSink, log *zap.SugaredLogger) *PlaybackController {
	events, cancel := sink.Subscribe()

	c := &PlaybackController{
		sink:   sink,
		log:    log,
		events: events,
		cancel: cancel,
		done:   make(chan struct{}),
		state: domain.PlaybackState{
			Phase:  domain.PhaseIdle,
			Volume: 1,
			Rate:   1,
		},
	}

	go c.run()
	return c
}

func (c *PlaybackController) run() {
	defer close(c.done)

	for ev := range c.events {
		switch ev.Type {
		case ports.SinkLoadedMetadata:
			c.onLoaded(ev)
		case ports.SinkPlay:
			c.apply(func(s *domain.PlaybackState) {
				s.IsPlaying = true
				s.Phase = domain.PhasePlaying
			})
		case ports.SinkPause, ports.SinkEnded:
			c.apply(func(s *domain.PlaybackState) {
				s.IsPlaying = false
				s.Phase = domain.PhasePaused
			})
		case ports.SinkTimeUpdate:
			c.apply(func(s *domain.PlaybackState) {
				s.CurrentTime = ev.CurrentTime
				s.Duration = ev.Duration
			})
		case ports.SinkWaiting:
			c.log.Debugw("sink buffering", "current_time", ev.CurrentTime)
		case ports.SinkCanPlay:
			c.log.Debugw("sink ready", "current_time", ev.CurrentTime)
		}
	}
}

// onLoaded enters Loaded and attempts autoplay. The environment may
// block the attempt, so the flag comes from reading the sink back
// afterwards, never from assuming the play call worked.
func (c *PlaybackController) onLoaded(ev ports.SinkEvent) {
	c.apply(func(s *domain.PlaybackState) {
		s.Phase = domain.PhaseLoaded
		s.CurrentTime = ev.CurrentTime
		s.Duration = ev.Duration
	})

	if err := c.sink.Play(); err != nil {
		c.log.Infow("autoplay was prevented", "error", err)
	}

	playing := !c.sink.Paused()
	c.apply(func(s *domain.PlaybackState) {
		s.IsPlaying = playing
		if playing {
			s.Phase = domain.PhasePlaying
		}
	})
}

// TogglePlayPause flips playback with an explicit user action. State
// flags update when the sink reports the transition.
func (c *PlaybackController) TogglePlayPause() error {
	c.mu.Lock()
	playing := c.state.IsPlaying
	c.mu.Unlock()

	if playing {
		c.sink.Pause()
		return nil
	}
	if err := c.sink.Play(); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// Seek repositions the sink and updates CurrentTime immediately to
// avoid perceived lag. Subsequent sink time updates remain the source
// of truth.
func (c *PlaybackController) Seek(seconds float64) {
	c.sink.Seek(seconds)
	c.apply(func(s *domain.PlaybackState) {
		s.CurrentTime = seconds
	})
}

// SetVolume applies the slider value directly. The input range is
// already [0,1].
func (c *PlaybackController) SetVolume(v float64) {
	c.sink.SetVolume(v)
	c.apply(func(s *domain.PlaybackState) {
		s.Volume = v
	})
}

// SetRate applies a speed from the fixed selectable set.
func (c *PlaybackController) SetRate(rate float64) error {
	if !domain.ValidRate(rate) {
		return fmt.Errorf("rate %v: %w", rate, domain.ErrInvalidPlaybackRate)
	}
	c.sink.SetRate(rate)
	c.apply(func(s *domain.PlaybackState) {
		s.Rate = rate
	})
	return nil
}

// State returns a snapshot of the mirrored playback state.
func (c *PlaybackController) State() domain.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close releases the sink subscription and waits for the mirror loop
// to drain. After Close no state changes are applied.
func (c *PlaybackController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	<-c.done
}

func (c *PlaybackController) apply(fn func(*domain.PlaybackState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}
