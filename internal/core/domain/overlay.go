package domain

import (
	"time"
)

type OverlayID string
type StreamRef string

// OverlayKind is fixed at creation time and never changes afterwards.
type OverlayKind string

const (
	KindText OverlayKind = "text"
	KindLogo OverlayKind = "logo"
)

// Position is expressed as percentages of the rendered video frame,
// so placement survives viewport resizes. Both axes live in [0,100].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamped returns the position forced into the [0,100] frame on both axes.
func (p Position) Clamped() Position {
	return Position{X: clamp(p.X, 0, 100), Y: clamp(p.Y, 0, 100)}
}

// Overlay is the persisted unit: a positioned text or logo element
// composited onto the video viewport. IDs are assigned by the store,
// never by clients.
type Overlay struct {
	ID        OverlayID   `json:"id"`
	StreamRef StreamRef   `json:"streamRef"`
	Kind      OverlayKind `json:"kind"`
	Content   string      `json:"content"`
	Position  Position    `json:"position"`
	Size      int         `json:"size"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
}

// Draft is an overlay not yet confirmed by the store. It carries no
// identity; the store's canonical record replaces it on create.
type Draft struct {
	StreamRef StreamRef   `json:"streamRef"`
	Kind      OverlayKind `json:"kind"`
	Content   string      `json:"content"`
	Position  Position    `json:"position"`
	Size      int         `json:"size"`
}

// NewDraft returns a draft at the frame center with the default size,
// matching the composition starting point of the editor.
func NewDraft(ref StreamRef) Draft {
	return Draft{
		StreamRef: ref,
		Position:  Position{X: 50, Y: 50},
		Size:      100,
	}
}

// Size bounds differ by kind: text size is a font-scale percentage,
// logo size is a width percentage.
const (
	TextSizeMin = 50
	TextSizeMax = 200
	LogoSizeMin = 10
	LogoSizeMax = 100
)

// ClampSize forces size into the valid range for the kind. Out-of-range
// input is clamped, never rejected.
func ClampSize(kind OverlayKind, size int) int {
	switch kind {
	case KindLogo:
		return clampInt(size, LogoSizeMin, LogoSizeMax)
	default:
		return clampInt(size, TextSizeMin, TextSizeMax)
	}
}

// Normalize returns a copy with position and size clamped into their
// valid ranges. Both the client and the store apply the same rule.
func (o Overlay) Normalize() Overlay {
	o.Position = o.Position.Clamped()
	o.Size = ClampSize(o.Kind, o.Size)
	return o
}

// Normalize clamps a draft's position and size the same way overlays are.
func (d Draft) Normalize() Draft {
	d.Position = d.Position.Clamped()
	d.Size = ClampSize(d.Kind, d.Size)
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
