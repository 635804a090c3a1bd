package conversations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
)

const (
	DefaultLimit   = 20
	MaxLimit       = 50
	maxQueryLength = 30
)

var (
	ErrMatchNotFound   = errors.New("conversation not found")
	ErrNotParticipant  = errors.New("not part of this match")
	ErrUnauthenticated = errors.New("authentication required")
)

type MatchStore interface {
	GetOverview(ctx context.Context, matchID string) (model.MatchOverview, error)
	ListActive(ctx context.Context, limit, offset int) ([]model.MatchOverview, error)
	ListActiveForAgents(ctx context.Context, agentIDs []string, limit int) ([]model.MatchOverview, error)
	CountActive(ctx context.Context) (int, error)
}

type MessageStore interface {
	ListByMatch(ctx context.Context, matchID string, limit, offset int) ([]model.MessageView, int, error)
}

type AgentSearcher interface {
	SearchIDsByName(ctx context.Context, query string, limit int) ([]string, error)
}

type Config struct {
	Visibility enums.MessageVisibility
}

type Page struct {
	Items  []model.MatchOverview
	Total  int
	Limit  int
	Offset int
}

type Conversation struct {
	Match    model.MatchOverview
	Messages []model.MessageView
	Total    int
}

type Service struct {
	matches  MatchStore
	messages MessageStore
	agents   AgentSearcher
	cfg      Config
}

type Dependencies struct {
	Matches  MatchStore
	Messages MessageStore
	Agents   AgentSearcher
}

func NewService(deps Dependencies, cfg Config) *Service {
	if !cfg.Visibility.Valid() {
		cfg.Visibility = enums.VisibilityPrivate
	}

	return &Service{
		matches:  deps.Matches,
		messages: deps.Messages,
		agents:   deps.Agents,
		cfg:      cfg,
	}
}

// List returns active matches, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) (Page, error) {
	if s.matches == nil {
		return Page{}, fmt.Errorf("match store is nil")
	}
	limit, offset = normalizePage(limit, offset)

	items, err := s.matches.ListActive(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	total, err := s.matches.CountActive(ctx)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:  s.redact(items),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Get returns one conversation with all of its messages.
func (s *Service) Get(ctx context.Context, requesterID, matchID string) (Conversation, error) {
	if _, err := uuid.Parse(matchID); err != nil {
		return Conversation{}, rules.Invalid("Invalid match_id")
	}
	if s.cfg.Visibility == enums.VisibilityPrivate && requesterID == "" {
		return Conversation{}, ErrUnauthenticated
	}
	if s.matches == nil || s.messages == nil {
		return Conversation{}, fmt.Errorf("conversation dependencies are not configured")
	}

	overview, err := s.matches.GetOverview(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return Conversation{}, ErrMatchNotFound
		}
		return Conversation{}, err
	}
	if s.cfg.Visibility == enums.VisibilityPrivate && !overview.HasParticipant(requesterID) {
		return Conversation{}, ErrNotParticipant
	}

	messages, total, err := s.messages.ListByMatch(ctx, matchID, 0, 0)
	if err != nil {
		return Conversation{}, err
	}

	return Conversation{Match: overview, Messages: messages, Total: total}, nil
}

// Search finds active conversations involving agents whose name contains query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]model.MatchOverview, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, rules.Invalid("q is required")
	}
	if len([]rune(query)) > maxQueryLength {
		return nil, rules.Invalid("q must be at most %d characters", maxQueryLength)
	}
	if s.matches == nil || s.agents == nil {
		return nil, fmt.Errorf("conversation search dependencies are not configured")
	}
	limit, _ = normalizePage(limit, 0)

	ids, err := s.agents.SearchIDsByName(ctx, query, MaxLimit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.MatchOverview{}, nil
	}

	items, err := s.matches.ListActiveForAgents(ctx, ids, limit)
	if err != nil {
		return nil, err
	}
	return s.redact(items), nil
}

// redact drops message content from listings unless messages are public.
func (s *Service) redact(items []model.MatchOverview) []model.MatchOverview {
	if s.cfg.Visibility == enums.VisibilityPublic {
		return items
	}
	for i := range items {
		items[i].LastMessage = nil
	}
	return items
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
