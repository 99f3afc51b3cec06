package services

import (
	"context"
	"fmt"
	"sync"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"go.uber.org/zap"
)

// NudgeDirection names the four directional position controls.
type NudgeDirection string

const (
	NudgeLeft  NudgeDirection = "left"
	NudgeRight NudgeDirection = "right"
	NudgeUp    NudgeDirection = "up"
	NudgeDown  NudgeDirection = "down"
)

// nudgeStep is how far a single directional activation moves the
// overlay, in frame percentage units.
const nudgeStep = 5

// EditSession is a scoped draft for manual edits: content, size, and
// directional nudge. Exactly one session is open at a time, matching
// the single-writer-per-overlay discipline. Changes touch only the
// draft until commit; cancel discards them with no store interaction.
type EditSession struct {
	collection ports.OverlayCollection
	compressor ports.ImageCompressor
	opts       ports.CompressOptions
	log        *zap.SugaredLogger

	mu      sync.Mutex
	open    bool
	editing domain.OverlayID // empty while composing a new overlay
	draft   domain.Overlay
}

func NewEditSession(
	collection ports.OverlayCollection,
	compressor ports.ImageCompressor,
	opts ports.CompressOptions,
	log *zap.SugaredLogger,
) *EditSession {
	return &EditSession{
		collection: collection,
		compressor: compressor,
		opts:       opts,
		log:        log,
	}
}

// Open checks out an existing overlay for editing.
func (s *EditSession) Open(id domain.OverlayID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return fmt.Errorf("open edit for %s: %w", id, domain.ErrSessionActive)
	}

	overlay, ok := s.collection.Get(id)
	if !ok {
		return fmt.Errorf("open edit: %w", domain.ErrOverlayNotFound)
	}

	s.open = true
	s.editing = id
	s.draft = overlay
	return nil
}

// Compose opens a session over a fresh draft for the stream. The draft
// becomes a real overlay only when commit succeeds; no client-side
// identity ever leaks into the collection.
func (s *EditSession) Compose(ref domain.StreamRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return fmt.Errorf("compose overlay: %w", domain.ErrSessionActive)
	}

	d := domain.NewDraft(ref)
	s.open = true
	s.editing = ""
	s.draft = domain.Overlay{
		StreamRef: d.StreamRef,
		Position:  d.Position,
		Size:      d.Size,
	}
	return nil
}

// Nudge moves the draft position by a fixed step, clamped to [0,100]
// on each axis independently. Same clamp semantics as drag.
func (s *EditSession) Nudge(dir NudgeDirection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return domain.ErrNoSession
	}

	p := s.draft.Position
	switch dir {
	case NudgeLeft:
		p.X -= nudgeStep
	case NudgeRight:
		p.X += nudgeStep
	case NudgeUp:
		p.Y -= nudgeStep
	case NudgeDown:
		p.Y += nudgeStep
	default:
		return fmt.Errorf("unknown nudge direction %q", dir)
	}

	s.draft.Position = p.Clamped()
	return nil
}

// SetSize applies a size edit clamped to the kind-specific range.
// Out-of-range values are clamped, never rejected.
func (s *EditSession) SetSize(size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return domain.ErrNoSession
	}

	s.draft.Size = domain.ClampSize(s.draft.Kind, size)
	return nil
}

// SetText replaces the draft content with a text payload. Kind is
// immutable after creation, so a logo overlay cannot become text.
func (s *EditSession) SetText(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return domain.ErrNoSession
	}
	if s.draft.Kind == domain.KindLogo {
		return domain.ErrKindMismatch
	}

	if s.draft.Kind == "" {
		s.draft.Kind = domain.KindText
	}
	s.draft.Content = content
	return nil
}

// SetLogo runs the raw image through the compression collaborator and
// stores the encoded payload as the draft content. Compression failure
// aborts only the content change; the session and draft stay as they
// were.
func (s *EditSession) SetLogo(ctx context.Context, raw []byte) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return domain.ErrNoSession
	}
	if s.draft.Kind == domain.KindText {
		s.mu.Unlock()
		return domain.ErrKindMismatch
	}
	opts := s.opts
	s.mu.Unlock()

	encoded, err := s.compressor.Compress(ctx, raw, opts)
	if err != nil {
		s.log.Errorw("logo compression failed, draft unchanged", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrCompressionFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		// Session was cancelled while compressing; drop the result.
		return domain.ErrNoSession
	}
	if s.draft.Kind == "" {
		s.draft.Kind = domain.KindLogo
		s.draft.Size = domain.ClampSize(domain.KindLogo, s.draft.Size)
	}
	s.draft.Content = encoded
	return nil
}

// Commit applies the full draft as a unit: replace for an existing
// overlay, create for a composed one. On failure the session stays
// open and the collection is unchanged; the UI must not show an edit
// as applied until the store confirms it.
func (s *EditSession) Commit(ctx context.Context) (domain.Overlay, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return domain.Overlay{}, domain.ErrNoSession
	}
	editing := s.editing
	draft := s.draft
	s.mu.Unlock()

	var (
		committed domain.Overlay
		err       error
	)
	if editing != "" {
		committed, err = s.collection.Replace(ctx, editing, draft)
	} else {
		committed, err = s.collection.Add(ctx, domain.Draft{
			StreamRef: draft.StreamRef,
			Kind:      draft.Kind,
			Content:   draft.Content,
			Position:  draft.Position,
			Size:      draft.Size,
		})
	}
	if err != nil {
		return domain.Overlay{}, err
	}

	s.mu.Lock()
	s.close()
	s.mu.Unlock()
	return committed, nil
}

// Cancel discards the draft with no store interaction.
func (s *EditSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.close()
}

// Draft returns the working copy for rendering the modal.
func (s *EditSession) Draft() (domain.Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft, s.open
}

// Editing reports which overlay the session has checked out; false for
// a new-overlay composition.
func (s *EditSession) Editing() (domain.OverlayID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing, s.open && s.editing != ""
}

// close must be called with s.mu held.
func (s *EditSession) close() {
	s.open = false
	s.editing = ""
	s.draft = domain.Overlay{}
}
