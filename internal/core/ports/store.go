package ports

import (
	"context"

	"streamlay/internal/core/domain"
)

// OverlayStore is the client-side CRUD boundary to the remote overlay
// collection. Implementations apply no retry policy; a caller wanting
// resilience layers pkg/retry on top.
type OverlayStore interface {
	// List returns all overlays persisted for a stream.
	List(ctx context.Context, ref domain.StreamRef) ([]domain.Overlay, error)

	// Create persists a draft and returns the store's canonical record
	// with its assigned id. Fails with domain.ErrValidationRejected if
	// the store refuses the payload, domain.ErrStoreUnavailable on
	// transport failure.
	Create(ctx context.Context, draft domain.Draft) (domain.Overlay, error)

	// Update replaces the full overlay body. The store re-validates,
	// clamps, and echoes the canonical record. Fails with
	// domain.ErrOverlayNotFound if the id vanished server-side.
	Update(ctx context.Context, id domain.OverlayID, overlay domain.Overlay) (domain.Overlay, error)

	// Delete is idempotent: deleting an id that is already gone is not
	// an error to the caller.
	Delete(ctx context.Context, id domain.OverlayID) error
}
