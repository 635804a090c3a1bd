package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
	// Window bounds how far back the feed reaches.
	Window = 24 * time.Hour
)

type Store interface {
	RecentActivity(ctx context.Context, since time.Time, perKind int) ([]model.ActivityEvent, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

type Feed struct {
	Events []model.ActivityEvent
	// Total counts the merged events before the limit was applied.
	Total int
	Limit int
}

// ClampLimit maps missing or non-positive limits to the default and caps the rest.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (s *Service) Recent(ctx context.Context, limit int) (Feed, error) {
	if s.store == nil {
		return Feed{}, fmt.Errorf("activity store is nil")
	}
	limit = ClampLimit(limit)

	events, err := s.store.RecentActivity(ctx, s.now().Add(-Window), limit)
	if err != nil {
		return Feed{}, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	total := len(events)
	if len(events) > limit {
		events = events[:limit]
	}
	if events == nil {
		events = []model.ActivityEvent{}
	}
	return Feed{Events: events, Total: total, Limit: limit}, nil
}
