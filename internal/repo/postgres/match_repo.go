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
	"github.com/QCNachos/TindAi/internal/domain/rules"
)

const matchColumns = `m.id, m.agent1_id, m.agent2_id, m.is_active, m.matched_at, m.ended_at, m.ended_by, m.end_reason`

const matchOverviewSelect = `
SELECT ` + matchColumns + `,
	a1.name, a1.bio, a1.interests, a1.current_mood, a1.avatar_url,
	a2.name, a2.bio, a2.interests, a2.current_mood, a2.avatar_url,
	COALESCE(mc.cnt, 0),
	lm.id, lm.sender_id, lm.content, lm.created_at
FROM matches m
JOIN agents a1 ON a1.id = m.agent1_id
JOIN agents a2 ON a2.id = m.agent2_id
LEFT JOIN LATERAL (
	SELECT COUNT(*) AS cnt
	FROM messages
	WHERE match_id = m.id
) mc ON TRUE
LEFT JOIN LATERAL (
	SELECT id, sender_id, content, created_at
	FROM messages
	WHERE match_id = m.id
	ORDER BY created_at DESC, id DESC
	LIMIT 1
) lm ON TRUE
`

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateCanonical stores the match for the pair in canonical order. When the
// pair already has a match row, its id is returned and the row is left as is.
func (r *MatchRepo) CreateCanonical(ctx context.Context, agentA, agentB string) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("postgres pool is nil")
	}
	if agentA == "" || agentB == "" || agentA == agentB {
		return "", fmt.Errorf("invalid match payload")
	}

	agent1, agent2 := rules.CanonicalPair(agentA, agentB)

	var matchID string
	err := r.pool.QueryRow(ctx, `
INSERT INTO matches (
	agent1_id,
	agent2_id,
	is_active,
	matched_at
) VALUES ($1, $2, TRUE, NOW())
ON CONFLICT (agent1_id, agent2_id) DO UPDATE
SET agent1_id = EXCLUDED.agent1_id
RETURNING id
`, agent1, agent2).Scan(&matchID)
	if err != nil {
		return "", fmt.Errorf("create match: %w", err)
	}

	return matchID, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID string) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, fmt.Errorf("postgres pool is nil")
	}

	match, err := scanMatch(r.pool.QueryRow(ctx, `
SELECT `+matchColumns+`
FROM matches m
WHERE m.id = $1
`, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	return match, nil
}

func (r *MatchRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, matchID string) (model.Match, error) {
	if tx == nil {
		return model.Match{}, fmt.Errorf("transaction is required")
	}

	match, err := scanMatch(tx.QueryRow(ctx, `
SELECT `+matchColumns+`
FROM matches m
WHERE m.id = $1
FOR UPDATE
`, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("lock match: %w", err)
	}
	return match, nil
}

func (r *MatchRepo) End(ctx context.Context, tx pgx.Tx, matchID, endedBy, reason string, now time.Time) (model.Match, error) {
	if tx == nil {
		return model.Match{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	match, err := scanMatch(tx.QueryRow(ctx, `
UPDATE matches m
SET is_active = FALSE,
	ended_at = $2,
	ended_by = $3,
	end_reason = $4
WHERE m.id = $1
RETURNING `+matchColumns, matchID, now.UTC(), endedBy, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("end match: %w", err)
	}
	return match, nil
}

func (r *MatchRepo) GetOverview(ctx context.Context, matchID string) (model.MatchOverview, error) {
	if r.pool == nil {
		return model.MatchOverview{}, fmt.Errorf("postgres pool is nil")
	}

	overview, err := scanMatchOverview(r.pool.QueryRow(ctx, matchOverviewSelect+`
WHERE m.id = $1
`, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MatchOverview{}, ErrMatchNotFound
		}
		return model.MatchOverview{}, fmt.Errorf("get match overview: %w", err)
	}
	return overview, nil
}

// ListForAgent returns every match the agent took part in, newest first.
func (r *MatchRepo) ListForAgent(ctx context.Context, agentID string) ([]model.MatchOverview, error) {
	return r.listOverviews(ctx, "list matches for agent", matchOverviewSelect+`
WHERE m.agent1_id = $1 OR m.agent2_id = $1
ORDER BY m.matched_at DESC, m.id
`, agentID)
}

func (r *MatchRepo) ListActive(ctx context.Context, limit, offset int) ([]model.MatchOverview, error) {
	return r.listOverviews(ctx, "list active matches", matchOverviewSelect+`
WHERE m.is_active
ORDER BY m.matched_at DESC, m.id
LIMIT $1 OFFSET $2
`, limit, offset)
}

// ListActiveForAgents returns active matches involving any of agentIDs.
func (r *MatchRepo) ListActiveForAgents(ctx context.Context, agentIDs []string, limit int) ([]model.MatchOverview, error) {
	if len(agentIDs) == 0 {
		return []model.MatchOverview{}, nil
	}
	return r.listOverviews(ctx, "list active matches for agents", matchOverviewSelect+`
WHERE m.is_active AND (m.agent1_id = ANY($1::uuid[]) OR m.agent2_id = ANY($1::uuid[]))
ORDER BY m.matched_at DESC, m.id
LIMIT $2
`, agentIDs, limit)
}

func (r *MatchRepo) CountActive(ctx context.Context) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM matches
WHERE is_active
`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active matches: %w", err)
	}
	return count, nil
}

// ActivePartners maps every agent in an active match to its partner.
func (r *MatchRepo) ActivePartners(ctx context.Context) (map[string]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT agent1_id, agent2_id
FROM matches
WHERE is_active
ORDER BY matched_at DESC, id
`)
	if err != nil {
		return nil, fmt.Errorf("list active pairs: %w", err)
	}
	defer rows.Close()

	partners := make(map[string]string)
	for rows.Next() {
		var a1, a2 string
		if err := rows.Scan(&a1, &a2); err != nil {
			return nil, fmt.Errorf("scan active pair: %w", err)
		}
		if _, ok := partners[a1]; !ok {
			partners[a1] = a2
		}
		if _, ok := partners[a2]; !ok {
			partners[a2] = a1
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active pairs: %w", err)
	}
	return partners, nil
}

func (r *MatchRepo) listOverviews(ctx context.Context, op, query string, args ...any) ([]model.MatchOverview, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]model.MatchOverview, 0)
	for rows.Next() {
		item, err := scanMatchOverview(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s iterate: %w", op, err)
	}
	return items, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var m model.Match
	err := row.Scan(
		&m.ID,
		&m.Agent1ID,
		&m.Agent2ID,
		&m.IsActive,
		&m.MatchedAt,
		&m.EndedAt,
		&m.EndedBy,
		&m.EndReason,
	)
	return m, err
}

func scanMatchOverview(row pgx.Row) (model.MatchOverview, error) {
	var (
		o            model.MatchOverview
		mood1, mood2 *string
		lastID       *string
		lastSender   *string
		lastContent  *string
		lastAt       *time.Time
	)
	if err := row.Scan(
		&o.ID,
		&o.Agent1ID,
		&o.Agent2ID,
		&o.IsActive,
		&o.MatchedAt,
		&o.EndedAt,
		&o.EndedBy,
		&o.EndReason,
		&o.Agent1.Name,
		&o.Agent1.Bio,
		&o.Agent1.Interests,
		&mood1,
		&o.Agent1.AvatarURL,
		&o.Agent2.Name,
		&o.Agent2.Bio,
		&o.Agent2.Interests,
		&mood2,
		&o.Agent2.AvatarURL,
		&o.MessageCount,
		&lastID,
		&lastSender,
		&lastContent,
		&lastAt,
	); err != nil {
		return model.MatchOverview{}, err
	}

	o.Agent1.ID = o.Agent1ID
	o.Agent2.ID = o.Agent2ID
	o.Agent1.Mood = toMood(mood1)
	o.Agent2.Mood = toMood(mood2)
	if lastID != nil && lastSender != nil && lastContent != nil && lastAt != nil {
		o.LastMessage = &model.Message{
			ID:        *lastID,
			MatchID:   o.ID,
			SenderID:  *lastSender,
			Content:   *lastContent,
			CreatedAt: *lastAt,
		}
	}
	return o, nil
}

func toMood(v *string) *enums.Mood {
	if v == nil {
		return nil
	}
	m := enums.Mood(*v)
	return &m
}
