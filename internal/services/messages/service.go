package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	"github.com/QCNachos/TindAi/internal/metrics"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var (
	ErrMatchUnavailable = errors.New("match not found or inactive")
	ErrMatchNotFound    = errors.New("match not found")
	ErrNotParticipant   = errors.New("not part of this match")
	ErrUnauthenticated  = errors.New("authentication required")
)

type MatchStore interface {
	GetByID(ctx context.Context, matchID string) (model.Match, error)
	GetOverview(ctx context.Context, matchID string) (model.MatchOverview, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg model.Message) (model.Message, error)
	ListByMatch(ctx context.Context, matchID string, limit, offset int) ([]model.MessageView, int, error)
}

type Config struct {
	Visibility enums.MessageVisibility
}

type MessageItem struct {
	model.MessageView
	IsMine bool
}

// Thread is a page of a match's messages as seen by one reader.
type Thread struct {
	Match    model.Match
	Partner  *model.AgentSummary
	Agent1   model.AgentSummary
	Agent2   model.AgentSummary
	Messages []MessageItem
	Total    int
}

type Service struct {
	matches  MatchStore
	messages MessageStore
	cfg      Config
	now      func() time.Time
}

type Dependencies struct {
	Matches  MatchStore
	Messages MessageStore
}

func NewService(deps Dependencies, cfg Config) *Service {
	if !cfg.Visibility.Valid() {
		cfg.Visibility = enums.VisibilityPrivate
	}

	return &Service{
		matches:  deps.Matches,
		messages: deps.Messages,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) Visibility() enums.MessageVisibility {
	return s.cfg.Visibility
}

// Send appends a message to an active match. Inactive matches reject every sender.
func (s *Service) Send(ctx context.Context, senderID, matchID, content string) (model.Message, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return model.Message{}, rules.Invalid("match_id is required")
	}
	if _, err := uuid.Parse(matchID); err != nil {
		return model.Message{}, rules.Invalid("Invalid match_id")
	}
	content, err := rules.ValidateMessageContent(content)
	if err != nil {
		return model.Message{}, err
	}
	if s.matches == nil || s.messages == nil {
		return model.Message{}, fmt.Errorf("message dependencies are not configured")
	}

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Message{}, ErrMatchUnavailable
		}
		return model.Message{}, fmt.Errorf("load match: %w", err)
	}
	if !match.IsActive {
		return model.Message{}, ErrMatchUnavailable
	}
	if !match.HasParticipant(senderID) {
		return model.Message{}, ErrNotParticipant
	}

	now := s.now().UTC()
	msg, err := s.messages.Create(ctx, model.Message{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		MatchID:   match.ID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: now,
	})
	if err != nil {
		return model.Message{}, err
	}

	metrics.MessagesSent.Inc()
	return msg, nil
}

// List reads a page of a match's messages, oldest first. Ended matches stay readable.
// requesterID is empty for anonymous readers.
func (s *Service) List(ctx context.Context, requesterID, matchID string, limit, offset int) (Thread, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return Thread{}, rules.Invalid("match_id is required")
	}
	if _, err := uuid.Parse(matchID); err != nil {
		return Thread{}, rules.Invalid("Invalid match_id")
	}
	if s.cfg.Visibility == enums.VisibilityPrivate && requesterID == "" {
		return Thread{}, ErrUnauthenticated
	}
	if s.matches == nil || s.messages == nil {
		return Thread{}, fmt.Errorf("message dependencies are not configured")
	}
	limit, offset = normalizePage(limit, offset)

	overview, err := s.matches.GetOverview(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return Thread{}, ErrMatchNotFound
		}
		return Thread{}, fmt.Errorf("load match: %w", err)
	}

	participant := overview.HasParticipant(requesterID)
	if s.cfg.Visibility == enums.VisibilityPrivate && !participant {
		return Thread{}, ErrNotParticipant
	}

	views, total, err := s.messages.ListByMatch(ctx, matchID, limit, offset)
	if err != nil {
		return Thread{}, err
	}

	thread := Thread{
		Match:    overview.Match,
		Agent1:   overview.Agent1,
		Agent2:   overview.Agent2,
		Messages: make([]MessageItem, 0, len(views)),
		Total:    total,
	}
	if participant {
		partner := overview.Agent2
		if overview.Agent2ID == requesterID {
			partner = overview.Agent1
		}
		thread.Partner = &partner
	}
	for _, view := range views {
		thread.Messages = append(thread.Messages, MessageItem{
			MessageView: view,
			IsMine:      participant && view.SenderID == requesterID,
		})
	}
	return thread, nil
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
