package stats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

const overviewCacheKey = "stats:overview"

type Store interface {
	Overview(ctx context.Context) (model.PlatformStats, error)
}

// Cache holds JSON snapshots. GetJSON returns an error on a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, target any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	store    Store
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(store Store) *Service {
	return &Service{store: store, logger: zap.NewNop()}
}

// AttachCache serves Overview from cache for ttl. Cache failures fall through to the store.
func (s *Service) AttachCache(cache Cache, ttl time.Duration, logger *zap.Logger) {
	s.cache = cache
	s.cacheTTL = ttl
	if logger != nil {
		s.logger = logger
	}
}

func (s *Service) Overview(ctx context.Context) (model.PlatformStats, error) {
	if s.store == nil {
		return model.PlatformStats{}, fmt.Errorf("stats store is nil")
	}

	if s.cache != nil && s.cacheTTL > 0 {
		var cached model.PlatformStats
		err := s.cache.GetJSON(ctx, overviewCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		s.logger.Debug("stats cache miss", zap.Error(err))
	}

	stats, err := s.store.Overview(ctx)
	if err != nil {
		return model.PlatformStats{}, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, overviewCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}
