package ports

// SinkEventType enumerates the media sink notifications the playback
// controller reacts to.
type SinkEventType string

const (
	SinkLoadedMetadata SinkEventType = "loadedmetadata"
	SinkTimeUpdate     SinkEventType = "timeupdate"
	SinkPlay           SinkEventType = "play"
	SinkPause          SinkEventType = "pause"
	SinkWaiting        SinkEventType = "waiting"
	SinkCanPlay        SinkEventType = "canplay"
	SinkEnded          SinkEventType = "ended"
)

// SinkEvent carries the sink's own notion of time alongside each
// notification. The sink is the source of truth for both fields.
type SinkEvent struct {
	Type        SinkEventType
	CurrentTime float64
	Duration    float64
}

// MediaSink is the playable media element. It owns true playback
// state; the controller only projects it.
type MediaSink interface {
	// Play starts playback. It fails when the environment blocks it
	// (autoplay policy); callers must re-read Paused afterwards rather
	// than assume success.
	Play() error
	Pause()

	Seek(seconds float64)
	SetVolume(v float64)
	SetRate(r float64)

	CurrentTime() float64
	Duration() float64
	Paused() bool

	// Subscribe registers for sink events. The returned cancel func
	// releases the subscription; after cancel returns no further events
	// are delivered on the channel.
	Subscribe() (<-chan SinkEvent, func())
}
