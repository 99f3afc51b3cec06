package memory

import (
	"context"
	"fmt"
	"sync"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"
)

// MemoryOverlayRepository keeps overlays in process memory. Listing
// preserves creation order so later overlays render on top.
type MemoryOverlayRepository struct {
	overlays map[domain.OverlayID]*domain.Overlay
	order    []domain.OverlayID
	mu       sync.RWMutex
}

func NewMemoryOverlayRepository() ports.OverlayRepository {
	return &MemoryOverlayRepository{
		overlays: make(map[domain.OverlayID]*domain.Overlay),
	}
}

func (r *MemoryOverlayRepository) Create(ctx context.Context, overlay *domain.Overlay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.overlays[overlay.ID]; exists {
		return fmt.Errorf("overlay already exists: %s", overlay.ID)
	}

	r.overlays[overlay.ID] = overlay
	r.order = append(r.order, overlay.ID)
	return nil
}

func (r *MemoryOverlayRepository) GetByID(ctx context.Context, id domain.OverlayID) (*domain.Overlay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overlay, exists := r.overlays[id]
	if !exists {
		return nil, domain.ErrOverlayNotFound
	}

	return overlay, nil
}

func (r *MemoryOverlayRepository) Update(ctx context.Context, overlay *domain.Overlay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.overlays[overlay.ID]; !exists {
		return domain.ErrOverlayNotFound
	}

	r.overlays[overlay.ID] = overlay
	return nil
}

func (r *MemoryOverlayRepository) Delete(ctx context.Context, id domain.OverlayID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.overlays[id]; !exists {
		return domain.ErrOverlayNotFound
	}

	delete(r.overlays, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryOverlayRepository) ListByStream(ctx context.Context, ref domain.StreamRef) ([]*domain.Overlay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Overlay
	for _, id := range r.order {
		if overlay, ok := r.overlays[id]; ok && overlay.StreamRef == ref {
			matched = append(matched, overlay)
		}
	}

	return matched, nil
}
