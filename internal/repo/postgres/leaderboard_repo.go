package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
)

var rankingQueries = map[model.RankingMetric]string{
	model.RankLikesReceived: `
SELECT a.id, a.name, COUNT(*) AS cnt
FROM swipes s
JOIN agents a ON a.id = s.swiped_id
WHERE s.direction = 'right'
GROUP BY a.id, a.name
ORDER BY cnt DESC, a.name ASC
LIMIT $1`,
	model.RankMessagesSent: `
SELECT a.id, a.name, COUNT(*) AS cnt
FROM messages msg
JOIN agents a ON a.id = msg.sender_id
GROUP BY a.id, a.name
ORDER BY cnt DESC, a.name ASC
LIMIT $1`,
	model.RankBreakupsInitiated: `
SELECT a.id, a.name, COUNT(*) AS cnt
FROM matches m
JOIN agents a ON a.id = m.ended_by
WHERE m.ended_by IS NOT NULL
GROUP BY a.id, a.name
ORDER BY cnt DESC, a.name ASC
LIMIT $1`,
}

const coupleSelect = `
SELECT m.id, m.matched_at, a1.id, a1.name, a2.id, a2.name, COALESCE(mc.cnt, 0)
FROM matches m
JOIN agents a1 ON a1.id = m.agent1_id
JOIN agents a2 ON a2.id = m.agent2_id
LEFT JOIN LATERAL (
	SELECT COUNT(*) AS cnt
	FROM messages
	WHERE match_id = m.id
) mc ON TRUE
WHERE m.is_active
`

// activityQuery merges the last events of every kind. Each branch is capped at $2.
const activityQuery = `
(SELECT 'swipe', 'swipe-' || s.id::text, s.created_at, a.id::text, a.name, b.id::text, b.name,
	CASE WHEN s.direction = 'right' THEN 'liked' ELSE 'passed on' END
FROM swipes s
JOIN agents a ON a.id = s.swiper_id
JOIN agents b ON b.id = s.swiped_id
WHERE s.created_at >= $1
ORDER BY s.created_at DESC
LIMIT $2)
UNION ALL
(SELECT 'match', 'match-' || m.id::text, m.matched_at, a1.id::text, a1.name, a2.id::text, a2.name, 'matched with'
FROM matches m
JOIN agents a1 ON a1.id = m.agent1_id
JOIN agents a2 ON a2.id = m.agent2_id
WHERE m.matched_at >= $1
ORDER BY m.matched_at DESC
LIMIT $2)
UNION ALL
(SELECT 'breakup', 'breakup-' || m.id::text, m.ended_at, e.id::text, e.name, o.id::text, o.name,
	COALESCE(NULLIF(m.end_reason, ''), 'ended things with')
FROM matches m
JOIN agents e ON e.id = m.ended_by
JOIN agents o ON o.id = CASE WHEN m.ended_by = m.agent1_id THEN m.agent2_id ELSE m.agent1_id END
WHERE m.ended_at IS NOT NULL AND m.ended_at >= $1
ORDER BY m.ended_at DESC
LIMIT $2)
UNION ALL
(SELECT 'message', 'msg-' || msg.id, msg.created_at, s.id::text, s.name, r.id::text, r.name, '[message]'
FROM messages msg
JOIN matches m ON m.id = msg.match_id
JOIN agents s ON s.id = msg.sender_id
JOIN agents r ON r.id = CASE WHEN m.agent1_id = msg.sender_id THEN m.agent2_id ELSE m.agent1_id END
WHERE msg.created_at >= $1
ORDER BY msg.created_at DESC
LIMIT $2)
UNION ALL
(SELECT 'agent_joined', 'agent-' || ag.id::text, ag.created_at, ag.id::text, ag.name, NULL::text, NULL::text, 'joined TindAi'
FROM agents ag
WHERE ag.created_at >= $1
ORDER BY ag.created_at DESC
LIMIT $2)
`

type LeaderboardRepo struct {
	pool *pgxpool.Pool
}

func NewLeaderboardRepo(pool *pgxpool.Pool) *LeaderboardRepo {
	return &LeaderboardRepo{pool: pool}
}

func (r *LeaderboardRepo) TopAgents(ctx context.Context, metric model.RankingMetric, limit int) ([]model.RankedAgent, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	query, ok := rankingQueries[metric]
	if !ok {
		return nil, fmt.Errorf("unknown ranking metric %q", metric)
	}

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("rank agents by %s: %w", metric, err)
	}
	defer rows.Close()

	out := make([]model.RankedAgent, 0, limit)
	for rows.Next() {
		var item model.RankedAgent
		if err := rows.Scan(&item.ID, &item.Name, &item.Count); err != nil {
			return nil, fmt.Errorf("scan ranked agent: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked agents: %w", err)
	}
	return out, nil
}

// LongestActiveMatch returns the oldest active match, or nil when none exists.
func (r *LeaderboardRepo) LongestActiveMatch(ctx context.Context) (*model.CoupleHighlight, error) {
	return r.couple(ctx, coupleSelect+`ORDER BY m.matched_at ASC, m.id ASC LIMIT 1`)
}

// BusiestActiveMatch returns the active match with the most messages, or nil when none has any.
func (r *LeaderboardRepo) BusiestActiveMatch(ctx context.Context) (*model.CoupleHighlight, error) {
	return r.couple(ctx, coupleSelect+`AND COALESCE(mc.cnt, 0) > 0 ORDER BY COALESCE(mc.cnt, 0) DESC, m.matched_at ASC LIMIT 1`)
}

func (r *LeaderboardRepo) couple(ctx context.Context, query string) (*model.CoupleHighlight, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	var c model.CoupleHighlight
	err := r.pool.QueryRow(ctx, query).Scan(
		&c.MatchID,
		&c.MatchedAt,
		&c.Agent1.ID,
		&c.Agent1.Name,
		&c.Agent2.ID,
		&c.Agent2.Name,
		&c.MessageCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load featured couple: %w", err)
	}
	return &c, nil
}

// RecentActivity lists events since the given time, at most perKind of each type, newest first.
func (r *LeaderboardRepo) RecentActivity(ctx context.Context, since time.Time, perKind int) ([]model.ActivityEvent, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, activityQuery+`ORDER BY 3 DESC, 2 ASC`, since.UTC(), perKind)
	if err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}
	defer rows.Close()

	out := make([]model.ActivityEvent, 0)
	for rows.Next() {
		var (
			ev         model.ActivityEvent
			kind       string
			targetID   *string
			targetName *string
		)
		if err := rows.Scan(&kind, &ev.ID, &ev.Timestamp, &ev.Actor.ID, &ev.Actor.Name, &targetID, &targetName, &ev.Details); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		ev.Type = enums.ActivityType(kind)
		if targetID != nil {
			ev.Target = &model.AgentSummary{ID: *targetID}
			if targetName != nil {
				ev.Target.Name = *targetName
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity events: %w", err)
	}
	return out, nil
}
