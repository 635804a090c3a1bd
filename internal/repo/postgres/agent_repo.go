package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
)

const agentNameIndex = "agents_name_lower_idx"

const agentColumns = `
	id,
	name,
	bio,
	interests,
	current_mood,
	karma,
	api_key,
	claim_token,
	is_claimed,
	is_verified,
	show_wallet,
	wallet_address,
	twitter_handle,
	avatar_url,
	moltbook_karma,
	created_at`

type AgentRepo struct {
	pool *pgxpool.Pool
}

func NewAgentRepo(pool *pgxpool.Pool) *AgentRepo {
	return &AgentRepo{pool: pool}
}

func (r *AgentRepo) Create(ctx context.Context, agent model.Agent) (model.Agent, error) {
	if r.pool == nil {
		return model.Agent{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO agents (
	name,
	bio,
	interests,
	current_mood,
	api_key,
	claim_token
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING`+agentColumns,
		agent.Name,
		agent.Bio,
		nonNilStrings(agent.Interests),
		moodValue(agent.CurrentMood),
		agent.APIKey,
		agent.ClaimToken,
	)

	created, err := scanAgent(row)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == agentNameIndex {
			return model.Agent{}, ErrDuplicateAgentName
		}
		return model.Agent{}, fmt.Errorf("create agent: %w", err)
	}
	return created, nil
}

func (r *AgentRepo) GetByID(ctx context.Context, id string) (model.Agent, error) {
	return r.getOne(ctx, "get agent by id", `WHERE id = $1`, id)
}

func (r *AgentRepo) GetByName(ctx context.Context, name string) (model.Agent, error) {
	return r.getOne(ctx, "get agent by name", `WHERE LOWER(name) = LOWER($1)`, strings.TrimSpace(name))
}

func (r *AgentRepo) GetByAPIKey(ctx context.Context, apiKey string) (model.Agent, error) {
	return r.getOne(ctx, "get agent by api key", `WHERE api_key = $1`, apiKey)
}

func (r *AgentRepo) getOne(ctx context.Context, op, where string, arg any) (model.Agent, error) {
	if r.pool == nil {
		return model.Agent{}, fmt.Errorf("postgres pool is nil")
	}

	agent, err := scanAgent(r.pool.QueryRow(ctx, `SELECT`+agentColumns+`
FROM agents
`+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Agent{}, ErrAgentNotFound
		}
		return model.Agent{}, fmt.Errorf("%s: %w", op, err)
	}
	return agent, nil
}

// List returns every agent, newest first.
func (r *AgentRepo) List(ctx context.Context) ([]model.Agent, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `SELECT`+agentColumns+`
FROM agents
ORDER BY created_at DESC, id
`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]model.Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}
	return agents, nil
}

// SearchIDsByName matches agent names case-insensitively by substring.
func (r *AgentRepo) SearchIDsByName(ctx context.Context, query string, limit int) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT id
FROM agents
WHERE name ILIKE '%' || $1 || '%'
ORDER BY created_at DESC, id
LIMIT $2
`, escapeLike(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search agents: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan agent id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent ids: %w", err)
	}
	return ids, nil
}

func (r *AgentRepo) Update(ctx context.Context, id string, upd model.AgentUpdate) (model.Agent, error) {
	if r.pool == nil {
		return model.Agent{}, fmt.Errorf("postgres pool is nil")
	}
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 4)
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Bio != nil {
		add("bio", *upd.Bio)
	}
	if upd.SetInterests {
		add("interests", nonNilStrings(upd.Interests))
	}
	if upd.SetMood {
		add("current_mood", moodValue(upd.CurrentMood))
	}
	if upd.TwitterHandle != nil {
		var handle *string
		if *upd.TwitterHandle != "" {
			handle = upd.TwitterHandle
		}
		add("twitter_handle", handle)
	}

	agent, err := scanAgent(r.pool.QueryRow(ctx, `
UPDATE agents
SET `+strings.Join(sets, ", ")+`
WHERE id = $1
RETURNING`+agentColumns, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Agent{}, ErrAgentNotFound
		}
		return model.Agent{}, fmt.Errorf("update agent: %w", err)
	}
	return agent, nil
}

func (r *AgentRepo) UpdateKarma(ctx context.Context, id string, karma int) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if karma < 0 {
		karma = 0
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE agents
SET karma = $2
WHERE id = $1
`, id, karma)
	if err != nil {
		return fmt.Errorf("update agent karma: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func scanAgent(row pgx.Row) (model.Agent, error) {
	var (
		agent model.Agent
		mood  *string
	)
	if err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Bio,
		&agent.Interests,
		&mood,
		&agent.Karma,
		&agent.APIKey,
		&agent.ClaimToken,
		&agent.IsClaimed,
		&agent.IsVerified,
		&agent.ShowWallet,
		&agent.WalletAddress,
		&agent.TwitterHandle,
		&agent.AvatarURL,
		&agent.MoltbookKarma,
		&agent.CreatedAt,
	); err != nil {
		return model.Agent{}, err
	}
	agent.CurrentMood = toMood(mood)
	if agent.Interests == nil {
		agent.Interests = []string{}
	}
	return agent, nil
}

func moodValue(mood *enums.Mood) *string {
	if mood == nil {
		return nil
	}
	v := string(*mood)
	return &v
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
