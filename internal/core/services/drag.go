package services

import (
	"context"
	"fmt"
	"sync"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"go.uber.org/zap"
)

type dragPhase int

const (
	dragIdle dragPhase = iota
	dragActive
	dragCommitting
)

// Viewport describes where the rendered video frame sits in pointer
// coordinates. Pointer positions are normalized against it so overlay
// placement survives viewport resizes.
type Viewport struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// DragEngine translates a continuous pointer gesture into a transient
// preview position and commits exactly once on drop. The committed
// overlay is untouched while the gesture runs; only one drag may be
// active at a time.
type DragEngine struct {
	collection ports.OverlayCollection
	log        *zap.SugaredLogger

	mu        sync.Mutex
	phase     dragPhase
	overlayID domain.OverlayID
	committed domain.Overlay // checked-out record, fallback on cancel
	preview   domain.Position
}

func NewDragEngine(collection ports.OverlayCollection, log *zap.SugaredLogger) *DragEngine {
	return &DragEngine{
		collection: collection,
		log:        log,
	}
}

// Start checks out the overlay for dragging. Starting a second drag
// while one is active is a programming error, not a silent override.
func (e *DragEngine) Start(id domain.OverlayID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != dragIdle {
		return fmt.Errorf("start drag for %s while %s is dragged: %w",
			id, e.overlayID, domain.ErrInvalidDragState)
	}

	overlay, ok := e.collection.Get(id)
	if !ok {
		return fmt.Errorf("start drag: %w", domain.ErrOverlayNotFound)
	}

	e.phase = dragActive
	e.overlayID = id
	e.committed = overlay
	e.preview = overlay.Position
	return nil
}

// Move updates the preview from the current pointer position. Pointer
// coordinates outside the viewport clamp into the [0,100] frame.
func (e *DragEngine) Move(pointerX, pointerY float64, vp Viewport) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != dragActive {
		return domain.ErrNoActiveDrag
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("viewport has no area")
	}

	e.preview = domain.Position{
		X: (pointerX - vp.Left) / vp.Width * 100,
		Y: (pointerY - vp.Top) / vp.Height * 100,
	}.Clamped()
	return nil
}

// Drop commits the preview position through the collection exactly
// once, then clears drag state regardless of the outcome. Persistence
// failure is the collection's concern; the engine's job ends at
// "attempted commit". A press-and-release with no movement commits the
// unchanged position, which is harmless and idempotent.
func (e *DragEngine) Drop(ctx context.Context) (domain.Overlay, error) {
	e.mu.Lock()
	if e.phase != dragActive {
		e.mu.Unlock()
		return domain.Overlay{}, domain.ErrNoActiveDrag
	}
	e.phase = dragCommitting
	id := e.overlayID
	patch := e.committed
	patch.Position = e.preview
	e.mu.Unlock()

	updated, err := e.collection.Replace(ctx, id, patch)

	e.mu.Lock()
	e.reset()
	e.mu.Unlock()

	if err != nil {
		return domain.Overlay{}, err
	}
	return updated, nil
}

// Cancel invalidates an in-flight drag without committing. Used when
// the stream view tears down mid-gesture.
func (e *DragEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == dragActive {
		e.log.Debugw("drag cancelled", "overlay_id", e.overlayID)
	}
	e.reset()
}

// Dragging reports the overlay currently being dragged, if any.
func (e *DragEngine) Dragging() (domain.OverlayID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlayID, e.phase == dragActive
}

// PreviewPosition returns the transient drag position. It exists only
// while a drag is active and is never persisted directly.
func (e *DragEngine) PreviewPosition() (domain.Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != dragActive {
		return domain.Position{}, false
	}
	return e.preview, true
}

// RenderPosition answers "where does this overlay sit right now":
// the preview for the dragged overlay, the committed position for
// every other.
func (e *DragEngine) RenderPosition(id domain.OverlayID) (domain.Position, bool) {
	e.mu.Lock()
	if e.phase == dragActive && e.overlayID == id {
		p := e.preview
		e.mu.Unlock()
		return p, true
	}
	e.mu.Unlock()

	overlay, ok := e.collection.Get(id)
	if !ok {
		return domain.Position{}, false
	}
	return overlay.Position, true
}

// reset must be called with e.mu held.
func (e *DragEngine) reset() {
	e.phase = dragIdle
	e.overlayID = ""
	e.committed = domain.Overlay{}
	e.preview = domain.Position{}
}
