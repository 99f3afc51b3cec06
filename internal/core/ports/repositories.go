package ports

import (
	"context"

	"streamlay/internal/core/domain"
)

// OverlayRepository is the store server's persistence boundary.
// Listing preserves creation order; later overlays draw on top.
type OverlayRepository interface {
	Create(ctx context.Context, overlay *domain.Overlay) error
	GetByID(ctx context.Context, id domain.OverlayID) (*domain.Overlay, error)
	Update(ctx context.Context, overlay *domain.Overlay) error
	Delete(ctx context.Context, id domain.OverlayID) error
	ListByStream(ctx context.Context, ref domain.StreamRef) ([]*domain.Overlay, error)
}
