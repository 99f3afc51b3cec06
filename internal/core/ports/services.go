package ports

import (
	"context"

	"streamlay/internal/core/domain"
)

// OverlayCollection is the single source of truth for what overlays
// currently render on the active stream.
type OverlayCollection interface {
	Load(ctx context.Context, ref domain.StreamRef) error
	Add(ctx context.Context, draft domain.Draft) (domain.Overlay, error)
	Replace(ctx context.Context, id domain.OverlayID, patch domain.Overlay) (domain.Overlay, error)
	Remove(ctx context.Context, id domain.OverlayID) error
	Overlays() []domain.Overlay
	Get(id domain.OverlayID) (domain.Overlay, bool)
	StreamRef() domain.StreamRef
}

// CompressOptions mirror the image pipeline knobs the editor exposes.
type CompressOptions struct {
	MaxSizeMB        float64
	MaxWidthOrHeight int
}

// ImageCompressor turns a raw uploaded image into an encoded payload
// suitable for a logo overlay's content field (a base64 data URI).
// Failure propagates as domain.ErrCompressionFailed.
type ImageCompressor interface {
	Compress(ctx context.Context, raw []byte, opts CompressOptions) (string, error)
}
