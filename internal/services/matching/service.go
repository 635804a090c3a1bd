package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/QCNachos/TindAi/internal/domain/model"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

var ErrAgentNotFound = errors.New("agent not found")

type AgentStore interface {
	GetByID(ctx context.Context, id string) (model.Agent, error)
	List(ctx context.Context) ([]model.Agent, error)
}

type SwipeStore interface {
	SwipedIDs(ctx context.Context, swiperID string) ([]string, error)
	SwiperIDs(ctx context.Context, swipedID string) ([]string, error)
}

type Config struct {
	ExcludeReceivedSwipes bool
}

type Suggestion struct {
	Agent           model.Agent
	Score           int
	SharedInterests []string
}

type SuggestionPage struct {
	Items  []Suggestion
	Total  int
	Limit  int
	Offset int
}

type PairScore struct {
	Score           int
	SharedInterests []string
}

type Service struct {
	agents AgentStore
	swipes SwipeStore
	cfg    Config
}

type Dependencies struct {
	Agents AgentStore
	Swipes SwipeStore
}

func NewService(deps Dependencies, cfg Config) *Service {
	return &Service{
		agents: deps.Agents,
		swipes: deps.Swipes,
		cfg:    cfg,
	}
}

// Suggestions ranks every agent the requester has not swiped on by compatibility.
// Equal scores keep the store's newest-first order.
func (s *Service) Suggestions(ctx context.Context, agentID string, limit, offset int) (SuggestionPage, error) {
	if _, err := uuid.Parse(agentID); err != nil {
		return SuggestionPage{}, rules.Invalid("Invalid agent_id")
	}
	if s.agents == nil || s.swipes == nil {
		return SuggestionPage{}, fmt.Errorf("matching dependencies are not configured")
	}
	limit, offset = normalizePage(limit, offset)

	requester, err := s.loadAgent(ctx, agentID)
	if err != nil {
		return SuggestionPage{}, err
	}

	excluded, err := s.excludedIDs(ctx, requester.ID)
	if err != nil {
		return SuggestionPage{}, err
	}

	agents, err := s.agents.List(ctx)
	if err != nil {
		return SuggestionPage{}, fmt.Errorf("list candidates: %w", err)
	}

	profile := rules.ProfileOf(requester)
	ranked := make([]Suggestion, 0, len(agents))
	for _, candidate := range agents {
		if _, skip := excluded[candidate.ID]; skip {
			continue
		}
		ranked = append(ranked, Suggestion{
			Agent:           candidate,
			Score:           rules.Compatibility(profile, rules.ProfileOf(candidate)),
			SharedInterests: rules.SharedInterests(requester.Interests, candidate.Interests),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	page := SuggestionPage{Total: len(ranked), Limit: limit, Offset: offset}
	if offset >= len(ranked) {
		page.Items = []Suggestion{}
		return page, nil
	}
	end := min(offset+limit, len(ranked))
	page.Items = ranked[offset:end]
	return page, nil
}

func (s *Service) Pair(ctx context.Context, agent1ID, agent2ID string) (PairScore, error) {
	if _, err := uuid.Parse(agent1ID); err != nil {
		return PairScore{}, rules.Invalid("Invalid agent1_id")
	}
	if _, err := uuid.Parse(agent2ID); err != nil {
		return PairScore{}, rules.Invalid("Invalid agent2_id")
	}
	if s.agents == nil {
		return PairScore{}, fmt.Errorf("agent store is nil")
	}

	a, err := s.loadAgent(ctx, agent1ID)
	if err != nil {
		return PairScore{}, err
	}
	b, err := s.loadAgent(ctx, agent2ID)
	if err != nil {
		return PairScore{}, err
	}

	return ScoreProfiles(rules.ProfileOf(a), rules.ProfileOf(b)), nil
}

// ScoreProfiles scores two inline profiles without touching storage.
func ScoreProfiles(a, b rules.Profile) PairScore {
	return PairScore{
		Score:           rules.Compatibility(a, b),
		SharedInterests: rules.SharedInterests(a.Interests, b.Interests),
	}
}

func (s *Service) loadAgent(ctx context.Context, id string) (model.Agent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrAgentNotFound) {
			return model.Agent{}, ErrAgentNotFound
		}
		return model.Agent{}, fmt.Errorf("load agent: %w", err)
	}
	return agent, nil
}

func (s *Service) excludedIDs(ctx context.Context, agentID string) (map[string]struct{}, error) {
	excluded := map[string]struct{}{agentID: {}}

	given, err := s.swipes.SwipedIDs(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("load swiped agents: %w", err)
	}
	for _, id := range given {
		excluded[id] = struct{}{}
	}

	if s.cfg.ExcludeReceivedSwipes {
		received, err := s.swipes.SwiperIDs(ctx, agentID)
		if err != nil {
			return nil, fmt.Errorf("load swipers: %w", err)
		}
		for _, id := range received {
			excluded[id] = struct{}{}
		}
	}
	return excluded, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
