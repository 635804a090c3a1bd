package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/QCNachos/TindAi/internal/domain/model"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	"github.com/QCNachos/TindAi/internal/metrics"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("not part of this match")
	ErrAlreadyEnded   = errors.New("match already ended")
)

type MatchStore interface {
	ListForAgent(ctx context.Context, agentID string) ([]model.MatchOverview, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, matchID string) (model.Match, error)
	End(ctx context.Context, tx pgx.Tx, matchID, endedBy, reason string, now time.Time) (model.Match, error)
}

// MatchItem is a match seen from one participant.
type MatchItem struct {
	Match        model.Match
	Partner      model.AgentSummary
	MessageCount int
	LastMessage  *model.Message
}

type Service struct {
	withTx  pgrepo.TxFunc
	matches MatchStore
	now     func() time.Time
}

type Dependencies struct {
	WithTx  pgrepo.TxFunc
	Matches MatchStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		withTx:  deps.WithTx,
		matches: deps.Matches,
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context, agentID string) ([]MatchItem, error) {
	if _, err := uuid.Parse(agentID); err != nil {
		return nil, rules.Invalid("Invalid agent_id")
	}
	if s.matches == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	rows, err := s.matches.ListForAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		partner := row.Agent2
		if row.Agent2ID == agentID {
			partner = row.Agent1
		}
		items = append(items, MatchItem{
			Match:        row.Match,
			Partner:      partner,
			MessageCount: row.MessageCount,
			LastMessage:  row.LastMessage,
		})
	}
	return items, nil
}

// End deactivates a match on behalf of one of its participants. Messages are kept.
func (s *Service) End(ctx context.Context, agentID, matchID, reason string) (model.Match, error) {
	if matchID == "" {
		return model.Match{}, rules.Invalid("match_id is required")
	}
	if _, err := uuid.Parse(matchID); err != nil {
		return model.Match{}, rules.Invalid("Invalid match_id")
	}
	if _, err := uuid.Parse(agentID); err != nil {
		return model.Match{}, rules.Invalid("Invalid agent_id")
	}
	reason, err := rules.NormalizeEndReason(reason)
	if err != nil {
		return model.Match{}, err
	}
	if s.withTx == nil || s.matches == nil {
		return model.Match{}, fmt.Errorf("breakup dependencies are not configured")
	}

	var ended model.Match
	if err := s.withTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		match, err := s.matches.GetForUpdate(txCtx, tx, matchID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if !match.HasParticipant(agentID) {
			return ErrNotParticipant
		}
		if !match.IsActive {
			return ErrAlreadyEnded
		}

		ended, err = s.matches.End(txCtx, tx, matchID, agentID, reason, s.now().UTC())
		return err
	}); err != nil {
		return model.Match{}, err
	}

	metrics.MatchesEnded.Inc()
	return ended, nil
}
