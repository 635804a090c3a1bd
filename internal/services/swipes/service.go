package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	"github.com/QCNachos/TindAi/internal/metrics"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
)

var (
	ErrTargetNotFound = errors.New("target agent not found")
	ErrAlreadySwiped  = errors.New("already swiped on this agent")
)

type AgentStore interface {
	GetByID(ctx context.Context, id string) (model.Agent, error)
}

type SwipeStore interface {
	Create(ctx context.Context, swiperID, swipedID string, direction enums.SwipeDirection) (model.Swipe, error)
	HasRightSwipe(ctx context.Context, swiperID, swipedID string) (bool, error)
	ListGiven(ctx context.Context, agentID string) ([]model.SwipeView, error)
	ListReceived(ctx context.Context, agentID string) ([]model.SwipeView, error)
}

type MatchStore interface {
	CreateCanonical(ctx context.Context, agentA, agentB string) (string, error)
}

type SwipeResult struct {
	Swipe      model.Swipe
	TargetName string
	IsMatch    bool
	MatchID    string
}

type History struct {
	Given    []model.SwipeView
	Received []model.SwipeView
	Stats    model.SwipeStats
}

type Service struct {
	agents  AgentStore
	swipes  SwipeStore
	matches MatchStore
	logger  *zap.Logger
}

type Dependencies struct {
	Agents  AgentStore
	Swipes  SwipeStore
	Matches MatchStore
	Logger  *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		agents:  deps.Agents,
		swipes:  deps.Swipes,
		matches: deps.Matches,
		logger:  logger,
	}
}

// Swipe records swiperID's decision on targetID. A right swipe that meets an
// earlier right swipe in the other direction forms the pair's match.
func (s *Service) Swipe(ctx context.Context, swiperID, targetID string, direction enums.SwipeDirection) (SwipeResult, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return SwipeResult{}, rules.Invalid("agent_id is required")
	}
	target, err := uuid.Parse(targetID)
	if err != nil {
		return SwipeResult{}, rules.Invalid("Invalid agent_id")
	}
	swiper, err := uuid.Parse(swiperID)
	if err != nil {
		return SwipeResult{}, rules.Invalid("Invalid swiper_id")
	}
	if !direction.Valid() {
		return SwipeResult{}, rules.Invalid("direction must be 'left' or 'right'")
	}
	if swiper == target {
		return SwipeResult{}, rules.Invalid("Cannot swipe on yourself")
	}
	if s.agents == nil || s.swipes == nil || s.matches == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	targetAgent, err := s.agents.GetByID(ctx, target.String())
	if err != nil {
		if errors.Is(err, pgrepo.ErrAgentNotFound) {
			return SwipeResult{}, ErrTargetNotFound
		}
		return SwipeResult{}, fmt.Errorf("load swipe target: %w", err)
	}

	swipe, err := s.swipes.Create(ctx, swiper.String(), target.String(), direction)
	if err != nil {
		if errors.Is(err, pgrepo.ErrDuplicateSwipe) {
			return SwipeResult{}, ErrAlreadySwiped
		}
		return SwipeResult{}, err
	}
	metrics.SwipesRecorded.WithLabelValues(string(direction)).Inc()

	result := SwipeResult{Swipe: swipe, TargetName: targetAgent.Name}
	if direction != enums.SwipeDirectionRight {
		return result, nil
	}

	matchID, err := s.formMatch(ctx, swiper.String(), target.String())
	if err != nil {
		s.logger.Error("match formation failed",
			zap.String("swiper_id", swiper.String()),
			zap.String("target_id", target.String()),
			zap.Error(err),
		)
		return result, nil
	}
	if matchID != "" {
		result.IsMatch = true
		result.MatchID = matchID
	}

	return result, nil
}

func (s *Service) formMatch(ctx context.Context, swiperID, targetID string) (string, error) {
	mutual, err := s.swipes.HasRightSwipe(ctx, targetID, swiperID)
	if err != nil {
		return "", err
	}
	if !mutual {
		return "", nil
	}

	matchID, err := s.matches.CreateCanonical(ctx, swiperID, targetID)
	if err != nil {
		return "", err
	}
	metrics.MatchesFormed.Inc()
	return matchID, nil
}

func (s *Service) History(ctx context.Context, agentID string) (History, error) {
	if _, err := uuid.Parse(agentID); err != nil {
		return History{}, rules.Invalid("Invalid agent_id")
	}
	if s.swipes == nil {
		return History{}, fmt.Errorf("swipe store is nil")
	}

	given, err := s.swipes.ListGiven(ctx, agentID)
	if err != nil {
		return History{}, err
	}
	received, err := s.swipes.ListReceived(ctx, agentID)
	if err != nil {
		return History{}, err
	}

	history := History{
		Given:    given,
		Received: received,
		Stats: model.SwipeStats{
			TotalGiven:    len(given),
			TotalReceived: len(received),
		},
	}
	for _, swipe := range given {
		if swipe.Direction == enums.SwipeDirectionRight {
			history.Stats.LikesGiven++
		}
	}
	for _, swipe := range received {
		if swipe.Direction == enums.SwipeDirectionRight {
			history.Stats.LikesReceived++
		}
	}
	return history, nil
}
