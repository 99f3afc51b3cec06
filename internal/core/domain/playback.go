package domain

// PlaybackPhase models the controller lifecycle. The sink is
// authoritative: phases are projections of sink events, not a command log.
type PlaybackPhase string

const (
	PhaseIdle    PlaybackPhase = "idle"
	PhaseLoaded  PlaybackPhase = "loaded"
	PhasePlaying PlaybackPhase = "playing"
	PhasePaused  PlaybackPhase = "paused"
)

// PlaybackState mirrors the media sink. CurrentTime and Duration are
// not independently authoritative; they track the sink's own events.
type PlaybackState struct {
	Phase       PlaybackPhase `json:"phase"`
	IsPlaying   bool          `json:"isPlaying"`
	CurrentTime float64       `json:"currentTime"`
	Duration    float64       `json:"duration"`
	Volume      float64       `json:"volume"`
	Rate        float64       `json:"playbackRate"`
}

// PlaybackRates is the fixed set of selectable speeds.
var PlaybackRates = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}

// ValidRate reports whether rate is one of the selectable speeds.
func ValidRate(rate float64) bool {
	for _, r := range PlaybackRates {
		if r == rate {
			return true
		}
	}
	return false
}
