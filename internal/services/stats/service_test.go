package stats

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/model"
	redrepo "github.com/QCNachos/TindAi/internal/repo/redis"
)

type stubStore struct {
	stats model.PlatformStats
}

func (s stubStore) Overview(context.Context) (model.PlatformStats, error) {
	return s.stats, nil
}

func TestOverviewPassesThroughCounts(t *testing.T) {
	want := model.PlatformStats{TotalAgents: 4, ActiveMatches: 1, TotalMessages: 9, TotalSwipes: 12}
	got, err := NewService(stubStore{stats: want}).Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestOverviewWithoutStoreFails(t *testing.T) {
	if _, err := NewService(nil).Overview(context.Background()); err == nil {
		t.Fatalf("expected error without a store")
	}
}

type countingStore struct {
	calls int
	stats model.PlatformStats
}

func (s *countingStore) Overview(context.Context) (model.PlatformStats, error) {
	s.calls++
	return s.stats, nil
}

func TestOverviewServesFromRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &countingStore{stats: model.PlatformStats{TotalAgents: 2, TotalSwipes: 3}}
	svc := NewService(store)
	svc.AttachCache(redrepo.NewCacheRepo(client, "tindai:"), 30*time.Second, zap.NewNop())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := svc.Overview(ctx)
		if err != nil {
			t.Fatalf("overview %d: %v", i, err)
		}
		if got != store.stats {
			t.Fatalf("unexpected stats: %+v", got)
		}
	}
	if store.calls != 1 {
		t.Fatalf("expected one store call, got %d", store.calls)
	}
	if !mr.Exists("tindai:cache:stats:overview") {
		t.Fatalf("expected cached snapshot in redis")
	}

	mr.FastForward(31 * time.Second)
	if _, err := svc.Overview(ctx); err != nil {
		t.Fatalf("overview after expiry: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected store reload after ttl, got %d calls", store.calls)
	}
}

func TestOverviewFallsBackWhenCacheIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	store := &countingStore{stats: model.PlatformStats{TotalAgents: 5}}
	svc := NewService(store)
	svc.AttachCache(redrepo.NewCacheRepo(client, ""), time.Minute, zap.NewNop())

	got, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got.TotalAgents != 5 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
