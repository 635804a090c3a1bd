package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	if r.pool == nil {
		return model.Message{}, fmt.Errorf("postgres pool is nil")
	}
	if msg.ID == "" || msg.MatchID == "" || msg.SenderID == "" {
		return model.Message{}, fmt.Errorf("invalid message payload")
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	var created model.Message
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (
	id,
	match_id,
	sender_id,
	content,
	created_at
) VALUES ($1, $2, $3, $4, $5)
RETURNING id, match_id, sender_id, content, created_at
`, msg.ID, msg.MatchID, msg.SenderID, msg.Content, msg.CreatedAt.UTC()).Scan(
		&created.ID,
		&created.MatchID,
		&created.SenderID,
		&created.Content,
		&created.CreatedAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}
	return created, nil
}

// ListByMatch returns a page of messages oldest first together with the match's total message count.
func (r *MessageRepo) ListByMatch(ctx context.Context, matchID string, limit, offset int) ([]model.MessageView, int, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM messages
WHERE match_id = $1
`, matchID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	query := `
SELECT m.id, m.match_id, m.sender_id, m.content, m.created_at, a.name
FROM messages m
JOIN agents a ON a.id = m.sender_id
WHERE m.match_id = $1
ORDER BY m.created_at ASC, m.id ASC
OFFSET $2
`
	args := []any{matchID, offset}
	if limit > 0 {
		query += `LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]model.MessageView, 0)
	for rows.Next() {
		var item model.MessageView
		if err := rows.Scan(
			&item.ID,
			&item.MatchID,
			&item.SenderID,
			&item.Content,
			&item.CreatedAt,
			&item.Sender.Name,
		); err != nil {
			return nil, 0, fmt.Errorf("scan message: %w", err)
		}
		item.Sender.ID = item.SenderID
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate messages: %w", err)
	}
	return items, total, nil
}
