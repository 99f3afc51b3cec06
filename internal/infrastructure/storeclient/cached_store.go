package storeclient

import (
	"context"
	"fmt"
	"time"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"
	"streamlay/pkg/cache"
)

// CachedStore wraps an OverlayStore with a short-lived List cache so
// rapid session re-attachments (route changes, reconnects) do not
// hammer the store. Writes invalidate the affected stream's entry;
// single-record reads always hit the backend.
type CachedStore struct {
	base    ports.OverlayStore
	cache   *cache.CacheWithFallback
	listTTL time.Duration
}

// NewCachedStore creates a caching decorator around base.
func NewCachedStore(base ports.OverlayStore, listTTL time.Duration) *CachedStore {
	return &CachedStore{
		base:    base,
		cache:   cache.NewCacheWithFallback(listTTL),
		listTTL: listTTL,
	}
}

func listKey(ref domain.StreamRef) string {
	return fmt.Sprintf("overlays:list:%s", ref)
}

func (s *CachedStore) List(ctx context.Context, ref domain.StreamRef) ([]domain.Overlay, error) {
	value, err := s.cache.GetOrSet(ctx, listKey(ref), func(ctx context.Context) (interface{}, error) {
		return s.base.List(ctx, ref)
	}, s.listTTL)
	if err != nil {
		return nil, err
	}
	return value.([]domain.Overlay), nil
}

func (s *CachedStore) Create(ctx context.Context, draft domain.Draft) (domain.Overlay, error) {
	created, err := s.base.Create(ctx, draft)
	if err != nil {
		return domain.Overlay{}, err
	}
	s.cache.Invalidate(listKey(created.StreamRef))
	return created, nil
}

func (s *CachedStore) Update(ctx context.Context, id domain.OverlayID, overlay domain.Overlay) (domain.Overlay, error) {
	updated, err := s.base.Update(ctx, id, overlay)
	if err != nil {
		return domain.Overlay{}, err
	}
	s.cache.Invalidate(listKey(updated.StreamRef))
	return updated, nil
}

func (s *CachedStore) Delete(ctx context.Context, id domain.OverlayID) error {
	if err := s.base.Delete(ctx, id); err != nil {
		return err
	}
	// The id does not name its stream; drop all list entries rather
	// than serve one with a ghost record.
	s.cache.Invalidate("overlays:list:")
	return nil
}

// Stop releases the cache's cleanup goroutine.
func (s *CachedStore) Stop() {
	s.cache.Stop()
}
