package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionClamped(t *testing.T) {
	tests := []struct {
		name string
		in   Position
		want Position
	}{
		{"inside frame", Position{X: 50, Y: 50}, Position{X: 50, Y: 50}},
		{"past right and above", Position{X: 150, Y: -10}, Position{X: 100, Y: 0}},
		{"both negative", Position{X: -1, Y: -1}, Position{X: 0, Y: 0}},
		{"edges are inclusive", Position{X: 0, Y: 100}, Position{X: 0, Y: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamped())
		})
	}
}

func TestClampSizePerKind(t *testing.T) {
	assert.Equal(t, 50, ClampSize(KindText, 10))
	assert.Equal(t, 200, ClampSize(KindText, 500))
	assert.Equal(t, 120, ClampSize(KindText, 120))

	assert.Equal(t, 10, ClampSize(KindLogo, 0))
	assert.Equal(t, 100, ClampSize(KindLogo, 150))
	assert.Equal(t, 40, ClampSize(KindLogo, 40))
}

func TestOverlayNormalize(t *testing.T) {
	o := Overlay{
		ID:       "ov_1",
		Kind:     KindLogo,
		Position: Position{X: 120, Y: -5},
		Size:     300,
	}

	n := o.Normalize()
	assert.Equal(t, Position{X: 100, Y: 0}, n.Position)
	assert.Equal(t, 100, n.Size)
	// original untouched
	assert.Equal(t, Position{X: 120, Y: -5}, o.Position)
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft("rtsp://example.test/live")
	assert.Equal(t, Position{X: 50, Y: 50}, d.Position)
	assert.Equal(t, 100, d.Size)
	assert.Empty(t, d.Kind)
}

func TestValidRate(t *testing.T) {
	for _, r := range PlaybackRates {
		assert.True(t, ValidRate(r), "rate %v", r)
	}
	assert.False(t, ValidRate(3))
	assert.False(t, ValidRate(0))
}
