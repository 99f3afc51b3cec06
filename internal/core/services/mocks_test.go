package services

import (
	"context"
	"errors"
	"sync"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var errAutoplayBlocked = errors.New("autoplay blocked by environment")

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type MockOverlayStore struct {
	mock.Mock
}

func (m *MockOverlayStore) List(ctx context.Context, ref domain.StreamRef) ([]domain.Overlay, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Overlay), args.Error(1)
}

func (m *MockOverlayStore) Create(ctx context.Context, draft domain.Draft) (domain.Overlay, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Overlay), args.Error(1)
}

func (m *MockOverlayStore) Update(ctx context.Context, id domain.OverlayID, overlay domain.Overlay) (domain.Overlay, error) {
	args := m.Called(ctx, id, overlay)
	return args.Get(0).(domain.Overlay), args.Error(1)
}

func (m *MockOverlayStore) Delete(ctx context.Context, id domain.OverlayID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeSink is a scripted media sink: tests emit events and flip its
// flags directly.
type fakeSink struct {
	mu        sync.Mutex
	paused    bool
	blockPlay bool
	current   float64
	duration  float64
	volume    float64
	rate      float64

	subs map[int]chan ports.SinkEvent
	next int
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		paused: true,
		volume: 1,
		rate:   1,
		subs:   make(map[int]chan ports.SinkEvent),
	}
}

func (f *fakeSink) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockPlay {
		return errAutoplayBlocked
	}
	f.paused = false
	f.emitLocked(ports.SinkEvent{Type: ports.SinkPlay, CurrentTime: f.current, Duration: f.duration})
	return nil
}

func (f *fakeSink) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
	f.emitLocked(ports.SinkEvent{Type: ports.SinkPause, CurrentTime: f.current, Duration: f.duration})
}

func (f *fakeSink) Seek(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = seconds
}

func (f *fakeSink) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *fakeSink) SetRate(r float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate = r
}

func (f *fakeSink) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSink) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeSink) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeSink) Subscribe() (<-chan ports.SinkEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan ports.SinkEvent, 32)
	f.subs[id] = ch

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
}

func (f *fakeSink) loadMetadata(duration float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = duration
	f.emitLocked(ports.SinkEvent{Type: ports.SinkLoadedMetadata, CurrentTime: f.current, Duration: duration})
}

func (f *fakeSink) tick(current float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = current
	f.emitLocked(ports.SinkEvent{Type: ports.SinkTimeUpdate, CurrentTime: current, Duration: f.duration})
}

func (f *fakeSink) emitLocked(ev ports.SinkEvent) {
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// fakeCompressor returns a canned payload or error.
type fakeCompressor struct {
	payload string
	err     error
	calls   int
}

func (f *fakeCompressor) Compress(ctx context.Context, raw []byte, opts ports.CompressOptions) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.payload, nil
}
