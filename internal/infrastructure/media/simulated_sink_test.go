package media

import (
	"testing"
	"time"

	"streamlay/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, ch <-chan ports.SinkEvent, want ports.SinkEventType) ports.SinkEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			require.True(t, ok, "event channel closed while waiting for %s", want)
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestSimulatedSinkStartsPausedAndUnloaded(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	assert.True(t, sink.Paused())
	assert.Zero(t, sink.Duration())
	assert.Zero(t, sink.CurrentTime())
}

func TestLoadMediaEmitsLoadedMetadata(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	events, cancel := sink.Subscribe()
	defer cancel()

	sink.LoadMedia(120)

	ev := waitForEvent(t, events, ports.SinkLoadedMetadata)
	assert.Equal(t, float64(120), ev.Duration)
	assert.Equal(t, float64(0), ev.CurrentTime)
}

func TestTimeAdvancesOnlyWhilePlaying(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	events, cancel := sink.Subscribe()
	defer cancel()

	sink.LoadMedia(600)
	require.NoError(t, sink.Play())

	ev := waitForEvent(t, events, ports.SinkTimeUpdate)
	assert.Greater(t, ev.CurrentTime, float64(0))

	sink.Pause()
	at := sink.CurrentTime()
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, at, sink.CurrentTime())
}

func TestBlockedAutoplayFailsOnceThenAllowsPlay(t *testing.T) {
	sink := NewSimulatedSink(WithBlockedAutoplay())
	defer sink.Close()

	sink.LoadMedia(60)

	err := sink.Play()
	require.ErrorIs(t, err, ErrAutoplayBlocked)
	assert.True(t, sink.Paused())

	require.NoError(t, sink.Play())
	assert.False(t, sink.Paused())
}

func TestSeekClampsToMediaBounds(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	sink.LoadMedia(90)

	sink.Seek(-5)
	assert.Equal(t, float64(0), sink.CurrentTime())

	sink.Seek(500)
	assert.Equal(t, float64(90), sink.CurrentTime())
}

func TestPlaybackEndsAtDuration(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	events, cancel := sink.Subscribe()
	defer cancel()

	sink.LoadMedia(0.1)
	require.NoError(t, sink.Play())

	ev := waitForEvent(t, events, ports.SinkEnded)
	assert.Equal(t, float64(0.1), ev.CurrentTime)
	assert.True(t, sink.Paused())
}

func TestRateScalesAdvancement(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	sink.SetRate(2)
	assert.Equal(t, float64(2), sink.Rate())

	// Non-positive rates are ignored
	sink.SetRate(0)
	assert.Equal(t, float64(2), sink.Rate())
}

func TestVolumeClamped(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	sink.SetVolume(1.7)
	assert.Equal(t, float64(1), sink.Volume())

	sink.SetVolume(-0.3)
	assert.Equal(t, float64(0), sink.Volume())
}

func TestCancelStopsDelivery(t *testing.T) {
	sink := NewSimulatedSink()
	defer sink.Close()

	events, cancel := sink.Subscribe()
	cancel()

	_, ok := <-events
	assert.False(t, ok)
}

func TestCloseIsIdempotent(t *testing.T) {
	sink := NewSimulatedSink()
	sink.Close()
	sink.Close()
}
