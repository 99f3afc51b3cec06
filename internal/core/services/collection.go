package services

import (
	"context"
	"fmt"
	"sync"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"go.uber.org/zap"
)

// collectionManager is the single source of truth for what overlays
// currently render on the active stream. Store responses are applied
// by overlay id, never by arrival order.
type collectionManager struct {
	store ports.OverlayStore
	log   *zap.SugaredLogger

	mu       sync.Mutex
	ref      domain.StreamRef
	overlays []domain.Overlay // creation order; later entries draw on top
}

func NewCollectionManager(store ports.OverlayStore, log *zap.SugaredLogger) ports.OverlayCollection {
	return &collectionManager{
		store: store,
		log:   log,
	}
}

// Load replaces the collection with the store's view of the stream.
// On failure the previous collection stays intact (stale but available).
// Concurrent loads race: the last one to resolve wins.
func (m *collectionManager) Load(ctx context.Context, ref domain.StreamRef) error {
	overlays, err := m.store.List(ctx, ref)
	if err != nil {
		m.log.Errorw("failed to load overlays, keeping previous collection",
			"stream_ref", ref, "error", err)
		return fmt.Errorf("load overlays for %s: %w", ref, err)
	}

	m.mu.Lock()
	m.ref = ref
	m.overlays = overlays
	m.mu.Unlock()

	m.log.Infow("overlay collection loaded", "stream_ref", ref, "count", len(overlays))
	return nil
}

// Add creates an overlay pessimistically: nothing renders until the
// store confirms and assigns an id. A failed create leaves no ghost
// overlay behind.
func (m *collectionManager) Add(ctx context.Context, draft domain.Draft) (domain.Overlay, error) {
	created, err := m.store.Create(ctx, draft.Normalize())
	if err != nil {
		m.log.Errorw("overlay create failed, draft discarded",
			"stream_ref", draft.StreamRef, "kind", draft.Kind, "error", err)
		return domain.Overlay{}, fmt.Errorf("create overlay: %w", err)
	}

	m.mu.Lock()
	m.overlays = append(m.overlays, created)
	m.mu.Unlock()

	m.log.Infow("overlay created", "overlay_id", created.ID, "kind", created.Kind)
	return created, nil
}

// Replace sends the full patched overlay to the store and swaps in the
// server's canonical echo on success. The store is authoritative for
// final field values. On failure the prior record is retained.
func (m *collectionManager) Replace(ctx context.Context, id domain.OverlayID, patch domain.Overlay) (domain.Overlay, error) {
	patch.ID = id

	updated, err := m.store.Update(ctx, id, patch)
	if err != nil {
		m.log.Errorw("overlay update failed, local record retained",
			"overlay_id", id, "error", err)
		return domain.Overlay{}, fmt.Errorf("update overlay %s: %w", id, err)
	}

	m.mu.Lock()
	if i := m.indexOf(updated.ID); i >= 0 {
		m.overlays[i] = updated
	} else {
		// A concurrent load dropped the record while the update was in
		// flight. The echo has nowhere to land; the next load will
		// bring it back.
		m.log.Warnw("update echo for overlay no longer in collection", "overlay_id", updated.ID)
	}
	m.mu.Unlock()

	return updated, nil
}

// Remove deletes optimistically: the overlay leaves the collection
// before the store confirms. A delete failure is logged, never rolled
// back; the store's idempotent delete makes a later retry harmless.
func (m *collectionManager) Remove(ctx context.Context, id domain.OverlayID) error {
	m.mu.Lock()
	if i := m.indexOf(id); i >= 0 {
		m.overlays = append(m.overlays[:i], m.overlays[i+1:]...)
	}
	m.mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Errorw("overlay delete failed after local removal",
			"overlay_id", id, "error", err)
	}
	return nil
}

// Overlays returns the rendered collection in creation order.
func (m *collectionManager) Overlays() []domain.Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Overlay, len(m.overlays))
	copy(out, m.overlays)
	return out
}

// Get returns the committed record for an overlay id.
func (m *collectionManager) Get(id domain.OverlayID) (domain.Overlay, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(id); i >= 0 {
		return m.overlays[i], true
	}
	return domain.Overlay{}, false
}

// StreamRef returns the stream the collection was last loaded for.
func (m *collectionManager) StreamRef() domain.StreamRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ref
}

// indexOf must be called with m.mu held.
func (m *collectionManager) indexOf(id domain.OverlayID) int {
	for i, o := range m.overlays {
		if o.ID == id {
			return i
		}
	}
	return -1
}
