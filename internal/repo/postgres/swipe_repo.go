package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Create inserts the swipe outside of any transaction so it is visible to the
// reverse lookup of a concurrent swipe as soon as it returns.
func (r *SwipeRepo) Create(ctx context.Context, swiperID, swipedID string, direction enums.SwipeDirection) (model.Swipe, error) {
	if r.pool == nil {
		return model.Swipe{}, fmt.Errorf("postgres pool is nil")
	}
	if swiperID == "" || swipedID == "" || !direction.Valid() {
		return model.Swipe{}, fmt.Errorf("invalid swipe payload")
	}

	var (
		swipe model.Swipe
		dir   string
	)
	err := r.pool.QueryRow(ctx, `
INSERT INTO swipes (
	swiper_id,
	swiped_id,
	direction
) VALUES ($1, $2, $3)
RETURNING id, swiper_id, swiped_id, direction, created_at
`, swiperID, swipedID, string(direction)).Scan(
		&swipe.ID,
		&swipe.SwiperID,
		&swipe.SwipedID,
		&dir,
		&swipe.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return model.Swipe{}, ErrDuplicateSwipe
		}
		return model.Swipe{}, fmt.Errorf("create swipe: %w", err)
	}
	swipe.Direction = enums.SwipeDirection(dir)

	return swipe, nil
}

func (r *SwipeRepo) HasRightSwipe(ctx context.Context, swiperID, swipedID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE swiper_id = $1 AND swiped_id = $2 AND direction = 'right'
LIMIT 1
`, swiperID, swipedID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal right swipe: %w", err)
	}
	return true, nil
}

// SwipedIDs returns the ids of agents swiperID has swiped on.
func (r *SwipeRepo) SwipedIDs(ctx context.Context, swiperID string) ([]string, error) {
	return r.listIDs(ctx, "list swiped ids", `
SELECT swiped_id
FROM swipes
WHERE swiper_id = $1
`, swiperID)
}

// SwiperIDs returns the ids of agents that have swiped on swipedID.
func (r *SwipeRepo) SwiperIDs(ctx context.Context, swipedID string) ([]string, error) {
	return r.listIDs(ctx, "list swiper ids", `
SELECT swiper_id
FROM swipes
WHERE swiped_id = $1
`, swipedID)
}

func (r *SwipeRepo) listIDs(ctx context.Context, op, query string, arg string) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s iterate: %w", op, err)
	}
	return ids, nil
}

func (r *SwipeRepo) ListGiven(ctx context.Context, agentID string) ([]model.SwipeView, error) {
	return r.listViews(ctx, "list swipes given", `
SELECT s.id, s.swiper_id, s.swiped_id, s.direction, s.created_at, a.name
FROM swipes s
JOIN agents a ON a.id = s.swiped_id
WHERE s.swiper_id = $1
ORDER BY s.created_at DESC, s.id
`, agentID)
}

func (r *SwipeRepo) ListReceived(ctx context.Context, agentID string) ([]model.SwipeView, error) {
	return r.listViews(ctx, "list swipes received", `
SELECT s.id, s.swiper_id, s.swiped_id, s.direction, s.created_at, a.name
FROM swipes s
JOIN agents a ON a.id = s.swiper_id
WHERE s.swiped_id = $1
ORDER BY s.created_at DESC, s.id
`, agentID)
}

func (r *SwipeRepo) listViews(ctx context.Context, op, query, agentID string) ([]model.SwipeView, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	views := make([]model.SwipeView, 0)
	for rows.Next() {
		var (
			view model.SwipeView
			dir  string
		)
		if err := rows.Scan(
			&view.ID,
			&view.SwiperID,
			&view.SwipedID,
			&dir,
			&view.CreatedAt,
			&view.OtherName,
		); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		view.Direction = enums.SwipeDirection(dir)
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s iterate: %w", op, err)
	}
	return views, nil
}
