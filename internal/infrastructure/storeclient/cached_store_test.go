package storeclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"streamlay/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore tracks backend calls so tests can observe cache hits.
type countingStore struct {
	mu       sync.Mutex
	lists    int
	overlays map[domain.StreamRef][]domain.Overlay
}

func newCountingStore() *countingStore {
	return &countingStore{overlays: make(map[domain.StreamRef][]domain.Overlay)}
}

func (s *countingStore) List(ctx context.Context, ref domain.StreamRef) ([]domain.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	return append([]domain.Overlay(nil), s.overlays[ref]...), nil
}

func (s *countingStore) Create(ctx context.Context, draft domain.Draft) (domain.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ov := domain.Overlay{
		ID:        domain.OverlayID("ov_" + time.Now().Format("150405.000000000")),
		StreamRef: draft.StreamRef,
		Kind:      draft.Kind,
		Content:   draft.Content,
		Position:  draft.Position,
		Size:      draft.Size,
	}
	s.overlays[draft.StreamRef] = append(s.overlays[draft.StreamRef], ov)
	return ov, nil
}

func (s *countingStore) Update(ctx context.Context, id domain.OverlayID, overlay domain.Overlay) (domain.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ov := range s.overlays[overlay.StreamRef] {
		if ov.ID == id {
			s.overlays[overlay.StreamRef][i] = overlay
			return overlay, nil
		}
	}
	return domain.Overlay{}, domain.ErrOverlayNotFound
}

func (s *countingStore) Delete(ctx context.Context, id domain.OverlayID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ref, overlays := range s.overlays {
		for i, ov := range overlays {
			if ov.ID == id {
				s.overlays[ref] = append(overlays[:i], overlays[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (s *countingStore) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func TestCachedListServesRepeatsFromCache(t *testing.T) {
	backend := newCountingStore()
	cached := NewCachedStore(backend, time.Minute)
	defer cached.Stop()

	ctx := context.Background()
	ref := domain.StreamRef("rtsp://cam/live")

	_, err := cached.List(ctx, ref)
	require.NoError(t, err)
	_, err = cached.List(ctx, ref)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.listCalls())
}

func TestWriteInvalidatesListCache(t *testing.T) {
	backend := newCountingStore()
	cached := NewCachedStore(backend, time.Minute)
	defer cached.Stop()

	ctx := context.Background()
	ref := domain.StreamRef("rtsp://cam/live")

	_, err := cached.List(ctx, ref)
	require.NoError(t, err)

	draft := domain.NewDraft(ref)
	draft.Kind = domain.KindText
	draft.Content = "LIVE"
	created, err := cached.Create(ctx, draft)
	require.NoError(t, err)

	overlays, err := cached.List(ctx, ref)
	require.NoError(t, err)
	require.Len(t, overlays, 1)
	assert.Equal(t, created.ID, overlays[0].ID)
	assert.Equal(t, 2, backend.listCalls())
}

func TestDeleteDropsAllListEntries(t *testing.T) {
	backend := newCountingStore()
	cached := NewCachedStore(backend, time.Minute)
	defer cached.Stop()

	ctx := context.Background()
	ref := domain.StreamRef("rtsp://cam/live")

	draft := domain.NewDraft(ref)
	draft.Kind = domain.KindText
	draft.Content = "LIVE"
	created, err := cached.Create(ctx, draft)
	require.NoError(t, err)

	_, err = cached.List(ctx, ref)
	require.NoError(t, err)

	require.NoError(t, cached.Delete(ctx, created.ID))

	overlays, err := cached.List(ctx, ref)
	require.NoError(t, err)
	assert.Empty(t, overlays)
}

func TestSeparateStreamsCacheIndependently(t *testing.T) {
	backend := newCountingStore()
	cached := NewCachedStore(backend, time.Minute)
	defer cached.Stop()

	ctx := context.Background()

	_, err := cached.List(ctx, "rtsp://cam/one")
	require.NoError(t, err)
	_, err = cached.List(ctx, "rtsp://cam/two")
	require.NoError(t, err)

	assert.Equal(t, 2, backend.listCalls())
}
