package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/model"
	redrepo "github.com/QCNachos/TindAi/internal/repo/redis"
)

type stubStore struct {
	calls    int
	rankings map[model.RankingMetric][]model.RankedAgent
	longest  *model.CoupleHighlight
	hottest  *model.CoupleHighlight
	err      error
}

func (s *stubStore) TopAgents(_ context.Context, metric model.RankingMetric, _ int) ([]model.RankedAgent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rankings[metric], nil
}

func (s *stubStore) LongestActiveMatch(context.Context) (*model.CoupleHighlight, error) {
	if s.longest == nil {
		return nil, nil
	}
	c := *s.longest
	return &c, nil
}

func (s *stubStore) BusiestActiveMatch(context.Context) (*model.CoupleHighlight, error) {
	return s.hottest, nil
}

func TestBoardAssemblesRankingsAndCouples(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &stubStore{
		rankings: map[model.RankingMetric][]model.RankedAgent{
			model.RankLikesReceived: {{ID: "a", Name: "Nova", Count: 7}, {ID: "b", Name: "Orion", Count: 3}},
			model.RankMessagesSent:  {{ID: "b", Name: "Orion", Count: 40}},
		},
		longest: &model.CoupleHighlight{MatchID: "m1", MatchedAt: now.Add(-90 * time.Minute), MessageCount: 4},
		hottest: &model.CoupleHighlight{MatchID: "m2", MessageCount: 12},
	}
	svc := NewService(store)
	svc.now = func() time.Time { return now }

	board, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(board.MostPopular) != 2 || board.MostPopular[0].Name != "Nova" {
		t.Fatalf("unexpected most popular: %+v", board.MostPopular)
	}
	if len(board.MostRomantic) != 1 || board.MostRomantic[0].Count != 40 {
		t.Fatalf("unexpected most romantic: %+v", board.MostRomantic)
	}
	if board.Heartbreakers == nil || len(board.Heartbreakers) != 0 {
		t.Fatalf("expected empty heartbreakers, got %#v", board.Heartbreakers)
	}
	if board.LongestRelationship == nil || board.LongestRelationship.DurationHours != 1.5 {
		t.Fatalf("unexpected longest relationship: %+v", board.LongestRelationship)
	}
	if board.LongestRelationship.MessageCount != 0 {
		t.Fatalf("longest relationship should not carry a message count")
	}
	if board.HottestCouple == nil || board.HottestCouple.MessageCount != 12 {
		t.Fatalf("unexpected hottest couple: %+v", board.HottestCouple)
	}
}

func TestBoardWithoutActiveMatches(t *testing.T) {
	board, err := NewService(&stubStore{}).Board(context.Background())
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if board.LongestRelationship != nil || board.HottestCouple != nil {
		t.Fatalf("expected no featured couples: %+v", board)
	}
}

func TestBoardTruncatesRankings(t *testing.T) {
	many := make([]model.RankedAgent, 8)
	store := &stubStore{rankings: map[model.RankingMetric][]model.RankedAgent{model.RankBreakupsInitiated: many}}
	board, err := NewService(store).Board(context.Background())
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(board.Heartbreakers) != TopN {
		t.Fatalf("expected %d heartbreakers, got %d", TopN, len(board.Heartbreakers))
	}
}

func TestBoardPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewService(&stubStore{err: boom}).Board(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, err := NewService(nil).Board(context.Background()); err == nil {
		t.Fatalf("expected error without a store")
	}
}

func TestBoardServesFromRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &stubStore{rankings: map[model.RankingMetric][]model.RankedAgent{
		model.RankLikesReceived: {{ID: "a", Name: "Nova", Count: 2}},
	}}
	svc := NewService(store)
	svc.AttachCache(redrepo.NewCacheRepo(client, "tindai:"), time.Minute, zap.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		board, err := svc.Board(ctx)
		if err != nil {
			t.Fatalf("board %d: %v", i, err)
		}
		if len(board.MostPopular) != 1 || board.MostPopular[0].Name != "Nova" {
			t.Fatalf("unexpected board: %+v", board)
		}
	}
	if store.calls != 3 {
		t.Fatalf("expected one load of three rankings, got %d calls", store.calls)
	}
	if !mr.Exists("tindai:cache:leaderboard") {
		t.Fatalf("expected cached leaderboard in redis")
	}
}
