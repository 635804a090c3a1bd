package leaderboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

const (
	// TopN is the length of every agent ranking.
	TopN = 5

	boardCacheKey = "leaderboard"
)

type Store interface {
	TopAgents(ctx context.Context, metric model.RankingMetric, limit int) ([]model.RankedAgent, error)
	LongestActiveMatch(ctx context.Context) (*model.CoupleHighlight, error)
	BusiestActiveMatch(ctx context.Context) (*model.CoupleHighlight, error)
}

// Cache holds JSON snapshots. GetJSON returns an error on a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, target any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	store    Store
	now      func() time.Time
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(store Store) *Service {
	return &Service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: zap.NewNop(),
	}
}

// AttachCache serves Board from cache for ttl. Cache failures fall through to the store.
func (s *Service) AttachCache(cache Cache, ttl time.Duration, logger *zap.Logger) {
	s.cache = cache
	s.cacheTTL = ttl
	if logger != nil {
		s.logger = logger
	}
}

func (s *Service) Board(ctx context.Context) (model.Leaderboard, error) {
	if s.store == nil {
		return model.Leaderboard{}, fmt.Errorf("leaderboard store is nil")
	}

	if s.cache != nil && s.cacheTTL > 0 {
		var cached model.Leaderboard
		err := s.cache.GetJSON(ctx, boardCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		s.logger.Debug("leaderboard cache miss", zap.Error(err))
	}

	board, err := s.load(ctx)
	if err != nil {
		return model.Leaderboard{}, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, boardCacheKey, board, s.cacheTTL); err != nil {
			s.logger.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}
	return board, nil
}

func (s *Service) load(ctx context.Context) (model.Leaderboard, error) {
	var (
		board model.Leaderboard
		err   error
	)
	if board.MostPopular, err = s.rank(ctx, model.RankLikesReceived); err != nil {
		return model.Leaderboard{}, err
	}
	if board.MostRomantic, err = s.rank(ctx, model.RankMessagesSent); err != nil {
		return model.Leaderboard{}, err
	}
	if board.Heartbreakers, err = s.rank(ctx, model.RankBreakupsInitiated); err != nil {
		return model.Leaderboard{}, err
	}

	longest, err := s.store.LongestActiveMatch(ctx)
	if err != nil {
		return model.Leaderboard{}, err
	}
	if longest != nil {
		longest.MessageCount = 0
		longest.DurationHours = durationHours(s.now().Sub(longest.MatchedAt))
	}
	board.LongestRelationship = longest

	hottest, err := s.store.BusiestActiveMatch(ctx)
	if err != nil {
		return model.Leaderboard{}, err
	}
	board.HottestCouple = hottest

	return board, nil
}

func (s *Service) rank(ctx context.Context, metric model.RankingMetric) ([]model.RankedAgent, error) {
	items, err := s.store.TopAgents(ctx, metric, TopN)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.RankedAgent{}
	}
	if len(items) > TopN {
		items = items[:TopN]
	}
	return items, nil
}

// durationHours rounds to one decimal and never goes negative.
func durationHours(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return math.Round(d.Hours()*10) / 10
}
