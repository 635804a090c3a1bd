package activity

import (
	"context"
	"testing"
	"time"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
)

type stubStore struct {
	events  []model.ActivityEvent
	since   time.Time
	perKind int
}

func (s *stubStore) RecentActivity(_ context.Context, since time.Time, perKind int) ([]model.ActivityEvent, error) {
	s.since = since
	s.perKind = perKind
	return append([]model.ActivityEvent(nil), s.events...), nil
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit: MaxLimit, 500: MaxLimit}
	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Fatalf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRecentSortsNewestFirstAndCountsBeforeLimit(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := &stubStore{events: []model.ActivityEvent{
		{ID: "agent-1", Type: enums.ActivityAgentJoined, Timestamp: now.Add(-3 * time.Hour)},
		{ID: "msg-1", Type: enums.ActivityMessage, Timestamp: now.Add(-time.Minute), Details: "[message]"},
		{ID: "swipe-1", Type: enums.ActivitySwipe, Timestamp: now.Add(-time.Hour)},
	}}
	svc := NewService(store)
	svc.now = func() time.Time { return now }

	feed, err := svc.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if feed.Total != 3 || feed.Limit != 2 || len(feed.Events) != 2 {
		t.Fatalf("unexpected feed: %+v", feed)
	}
	if feed.Events[0].ID != "msg-1" || feed.Events[1].ID != "swipe-1" {
		t.Fatalf("events not newest first: %+v", feed.Events)
	}
	if !store.since.Equal(now.Add(-Window)) || store.perKind != 2 {
		t.Fatalf("unexpected store window: since=%v perKind=%d", store.since, store.perKind)
	}
}

func TestRecentEmptyFeed(t *testing.T) {
	feed, err := NewService(&stubStore{}).Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if feed.Events == nil || feed.Total != 0 || feed.Limit != DefaultLimit {
		t.Fatalf("unexpected empty feed: %+v", feed)
	}
}

func TestRecentWithoutStoreFails(t *testing.T) {
	if _, err := NewService(nil).Recent(context.Background(), 10); err == nil {
		t.Fatalf("expected error without a store")
	}
}
