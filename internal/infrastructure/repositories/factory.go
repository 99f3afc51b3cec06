package repositories

import (
	"context"

	"streamlay/internal/core/ports"
	"streamlay/internal/infrastructure/repositories/memory"
	redisrepo "streamlay/internal/infrastructure/repositories/redis"
	"streamlay/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	// Try to connect to Redis if enabled
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repository",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis overlay repository")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory overlay repository")
	}

	return factory, nil
}

// CreateOverlayRepository creates an overlay repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateOverlayRepository() ports.OverlayRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisOverlayRepository(f.redisClient)
	}
	return memory.NewMemoryOverlayRepository()
}

// HealthCheck verifies backing store connectivity. Memory-backed
// factories are always healthy.
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}

// Close closes Redis connection if used
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}
