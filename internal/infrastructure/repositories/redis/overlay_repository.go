package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisOverlayRepository stores each overlay as a JSON blob and keeps
// a per-stream list of ids so creation order survives.
type RedisOverlayRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisOverlayRepository(client *redis.Client) ports.OverlayRepository {
	return &RedisOverlayRepository{
		client: client,
		prefix: "streamlay:overlay:",
	}
}

func (r *RedisOverlayRepository) overlayKey(id domain.OverlayID) string {
	return r.prefix + string(id)
}

func (r *RedisOverlayRepository) streamKey(ref domain.StreamRef) string {
	return r.prefix + "stream:" + string(ref)
}

func (r *RedisOverlayRepository) Create(ctx context.Context, overlay *domain.Overlay) error {
	data, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("failed to marshal overlay: %w", err)
	}

	key := r.overlayKey(overlay.ID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set overlay in Redis: %w", err)
	}

	// Append to the stream's ordered id list
	if err := r.client.RPush(ctx, r.streamKey(overlay.StreamRef), string(overlay.ID)).Err(); err != nil {
		return fmt.Errorf("failed to append overlay to stream list: %w", err)
	}

	return nil
}

func (r *RedisOverlayRepository) GetByID(ctx context.Context, id domain.OverlayID) (*domain.Overlay, error) {
	data, err := r.client.Get(ctx, r.overlayKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrOverlayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get overlay from Redis: %w", err)
	}

	var overlay domain.Overlay
	if err := json.Unmarshal([]byte(data), &overlay); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overlay: %w", err)
	}

	return &overlay, nil
}

func (r *RedisOverlayRepository) Update(ctx context.Context, overlay *domain.Overlay) error {
	// Check if overlay exists
	if _, err := r.GetByID(ctx, overlay.ID); err != nil {
		return err
	}

	data, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("failed to marshal overlay: %w", err)
	}

	if err := r.client.Set(ctx, r.overlayKey(overlay.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update overlay in Redis: %w", err)
	}

	return nil
}

func (r *RedisOverlayRepository) Delete(ctx context.Context, id domain.OverlayID) error {
	overlay, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.client.LRem(ctx, r.streamKey(overlay.StreamRef), 1, string(id)).Err(); err != nil {
		return fmt.Errorf("failed to remove overlay from stream list: %w", err)
	}

	if err := r.client.Del(ctx, r.overlayKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete overlay from Redis: %w", err)
	}

	return nil
}

func (r *RedisOverlayRepository) ListByStream(ctx context.Context, ref domain.StreamRef) ([]*domain.Overlay, error) {
	ids, err := r.client.LRange(ctx, r.streamKey(ref), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stream overlay list from Redis: %w", err)
	}

	var overlays []*domain.Overlay
	for _, id := range ids {
		overlay, err := r.GetByID(ctx, domain.OverlayID(id))
		if err != nil {
			// Skip ids whose blobs no longer exist
			continue
		}
		overlays = append(overlays, overlay)
	}

	return overlays, nil
}
