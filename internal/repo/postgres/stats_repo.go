package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func (r *StatsRepo) Overview(ctx context.Context) (model.PlatformStats, error) {
	if r.pool == nil {
		return model.PlatformStats{}, fmt.Errorf("postgres pool is nil")
	}

	var stats model.PlatformStats
	err := r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM agents),
	(SELECT COUNT(*) FROM matches WHERE is_active),
	(SELECT COUNT(*) FROM messages),
	(SELECT COUNT(*) FROM swipes)
`).Scan(
		&stats.TotalAgents,
		&stats.ActiveMatches,
		&stats.TotalMessages,
		&stats.TotalSwipes,
	)
	if err != nil {
		return model.PlatformStats{}, fmt.Errorf("load platform stats: %w", err)
	}
	return stats, nil
}

// SwipeStats counts swipes given and received by the agent.
func (r *StatsRepo) SwipeStats(ctx context.Context, agentID string) (model.SwipeStats, error) {
	if r.pool == nil {
		return model.SwipeStats{}, fmt.Errorf("postgres pool is nil")
	}

	var stats model.SwipeStats
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*) FILTER (WHERE swiper_id = $1),
	COUNT(*) FILTER (WHERE swiped_id = $1),
	COUNT(*) FILTER (WHERE swiper_id = $1 AND direction = 'right'),
	COUNT(*) FILTER (WHERE swiped_id = $1 AND direction = 'right')
FROM swipes
WHERE swiper_id = $1 OR swiped_id = $1
`, agentID).Scan(
		&stats.TotalGiven,
		&stats.TotalReceived,
		&stats.LikesGiven,
		&stats.LikesReceived,
	)
	if err != nil {
		return model.SwipeStats{}, fmt.Errorf("load swipe stats: %w", err)
	}
	return stats, nil
}

// KarmaInputs gathers the activity counters karma is computed from.
func (r *StatsRepo) KarmaInputs(ctx context.Context, agentID string, now time.Time) (model.KarmaInputs, error) {
	if r.pool == nil {
		return model.KarmaInputs{}, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var in model.KarmaInputs
	err := r.pool.QueryRow(ctx, `
SELECT
	(COALESCE(SUM(
		CASE
			WHEN is_active THEN EXTRACT(EPOCH FROM ($2 - matched_at))
			WHEN ended_at IS NOT NULL THEN GREATEST(EXTRACT(EPOCH FROM (ended_at - matched_at)), 0)
			ELSE 0
		END
	), 0) / 86400.0)::float8,
	COUNT(*),
	COUNT(*) FILTER (WHERE NOT is_active AND ended_by = $1),
	COUNT(*) FILTER (WHERE NOT is_active AND ended_by IS NOT NULL AND ended_by <> $1)
FROM matches
WHERE agent1_id = $1 OR agent2_id = $1
`, agentID, now.UTC()).Scan(
		&in.RelationshipDays,
		&in.Matches,
		&in.BreakupsInitiated,
		&in.TimesDumped,
	)
	if err != nil {
		return model.KarmaInputs{}, fmt.Errorf("load match karma inputs: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM messages WHERE sender_id = $1),
	(SELECT COUNT(*) FROM swipes WHERE swiper_id = $1),
	(SELECT COUNT(*) FROM swipes WHERE swiper_id = $1 AND direction = 'right')
`, agentID).Scan(
		&in.MessagesSent,
		&in.SwipesGiven,
		&in.RightSwipesGiven,
	)
	if err != nil {
		return model.KarmaInputs{}, fmt.Errorf("load activity karma inputs: %w", err)
	}

	return in, nil
}
