package agents

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
	"github.com/QCNachos/TindAi/internal/services/auth"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrNameTaken     = errors.New("agent name already taken")
)

type AgentStore interface {
	Create(ctx context.Context, agent model.Agent) (model.Agent, error)
	GetByID(ctx context.Context, id string) (model.Agent, error)
	GetByName(ctx context.Context, name string) (model.Agent, error)
	List(ctx context.Context) ([]model.Agent, error)
	Update(ctx context.Context, id string, upd model.AgentUpdate) (model.Agent, error)
}

type MatchStore interface {
	ListForAgent(ctx context.Context, agentID string) ([]model.MatchOverview, error)
	ActivePartners(ctx context.Context) (map[string]string, error)
}

type StatsStore interface {
	SwipeStats(ctx context.Context, agentID string) (model.SwipeStats, error)
}

type Config struct {
	PublicBaseURL string
}

type RegisterInput struct {
	Name      string
	Bio       string
	Interests []string
}

type Registration struct {
	Agent    model.Agent
	ClaimURL string
}

type MeStats struct {
	SwipesGiven   int `json:"swipes_given"`
	LikesReceived int `json:"likes_received"`
	Matches       int `json:"matches"`
}

type Me struct {
	Agent   model.Agent
	Status  enums.AgentStatus
	MatchID string
	Partner *model.AgentSummary
	Stats   MeStats
}

type Listed struct {
	Agent  model.Agent
	Status enums.AgentStatus
}

// UpdateInput mirrors the PATCH body. Mood is the raw value; unknown moods are ignored.
type UpdateInput struct {
	Bio           *string
	Interests     []string
	SetInterests  bool
	Mood          *string
	SetMood       bool
	TwitterHandle *string
}

type Service struct {
	agents  AgentStore
	matches MatchStore
	stats   StatsStore
	cfg     Config
	logger  *zap.Logger
}

type Dependencies struct {
	Agents  AgentStore
	Matches MatchStore
	Stats   StatsStore
	Logger  *zap.Logger
}

func NewService(deps Dependencies, cfg Config) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		agents:  deps.Agents,
		matches: deps.Matches,
		stats:   deps.Stats,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Registration, error) {
	name, err := rules.ValidateName(in.Name)
	if err != nil {
		return Registration{}, err
	}
	bio, err := rules.ValidateBio(in.Bio)
	if err != nil {
		return Registration{}, err
	}
	if s.agents == nil {
		return Registration{}, fmt.Errorf("agent store is nil")
	}

	apiKey, err := auth.NewAPIKey()
	if err != nil {
		return Registration{}, err
	}
	claimToken, err := auth.NewClaimToken()
	if err != nil {
		return Registration{}, err
	}

	created, err := s.agents.Create(ctx, model.Agent{
		Name:       name,
		Bio:        bio,
		Interests:  rules.FilterInterests(in.Interests),
		APIKey:     apiKey,
		ClaimToken: claimToken,
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrDuplicateAgentName) {
			return Registration{}, ErrNameTaken
		}
		return Registration{}, err
	}
	metrics.AgentsRegistered.Inc()

	reg := Registration{Agent: created}
	if base := strings.TrimRight(s.cfg.PublicBaseURL, "/"); base != "" {
		reg.ClaimURL = base + "/claim/" + created.ClaimToken
	}
	return reg, nil
}

// Me returns the caller's profile with match status and activity counters.
func (s *Service) Me(ctx context.Context, agentID string) (Me, error) {
	agent, err := s.getByID(ctx, agentID)
	if err != nil {
		return Me{}, err
	}
	if s.matches == nil || s.stats == nil {
		return Me{}, fmt.Errorf("agent dependencies are not configured")
	}

	matches, err := s.matches.ListForAgent(ctx, agentID)
	if err != nil {
		return Me{}, err
	}
	swipeStats, err := s.stats.SwipeStats(ctx, agentID)
	if err != nil {
		return Me{}, err
	}

	me := Me{
		Agent:  agent,
		Status: enums.AgentStatusSingle,
		Stats: MeStats{
			SwipesGiven:   swipeStats.TotalGiven,
			LikesReceived: swipeStats.LikesReceived,
			Matches:       len(matches),
		},
	}
	for _, m := range matches {
		if !m.IsActive {
			continue
		}
		partner := m.Agent1
		if m.Agent1ID == agentID {
			partner = m.Agent2
		}
		me.Status = enums.AgentStatusMatched
		me.MatchID = m.ID
		me.Partner = &partner
		break
	}
	return me, nil
}

// Profile looks an agent up by id, falling back to a case-insensitive name.
func (s *Service) Profile(ctx context.Context, id, name string) (Listed, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	var (
		agent model.Agent
		err   error
	)
	switch {
	case id != "":
		agent, err = s.getByID(ctx, id)
	case name != "":
		if s.agents == nil {
			return Listed{}, fmt.Errorf("agent store is nil")
		}
		agent, err = s.agents.GetByName(ctx, name)
		if errors.Is(err, pgrepo.ErrAgentNotFound) {
			err = ErrAgentNotFound
		}
	default:
		return Listed{}, rules.Invalid("id or name is required")
	}
	if err != nil {
		return Listed{}, err
	}

	partners, err := s.activePartners(ctx)
	if err != nil {
		return Listed{}, err
	}
	return Listed{Agent: publicView(agent), Status: statusOf(partners, agent.ID)}, nil
}

// List returns every agent with its match status. filter is "", "all", "matched" or "single".
func (s *Service) List(ctx context.Context, filter string) ([]Listed, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	switch filter {
	case "", "all", string(enums.AgentStatusMatched), string(enums.AgentStatusSingle):
	default:
		return nil, rules.Invalid("status must be one of all, matched, single")
	}
	if s.agents == nil {
		return nil, fmt.Errorf("agent store is nil")
	}

	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, err
	}
	partners, err := s.activePartners(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Listed, 0, len(agents))
	for _, agent := range agents {
		status := statusOf(partners, agent.ID)
		if filter != "" && filter != "all" && string(status) != filter {
			continue
		}
		out = append(out, Listed{Agent: publicView(agent), Status: status})
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, agentID string, in UpdateInput) (model.Agent, error) {
	if _, err := uuid.Parse(agentID); err != nil {
		return model.Agent{}, rules.Invalid("Invalid agent_id")
	}

	upd := model.AgentUpdate{}
	if in.Bio != nil {
		bio, err := rules.ValidateBio(*in.Bio)
		if err != nil {
			return model.Agent{}, err
		}
		upd.Bio = &bio
	}
	if in.SetInterests {
		upd.Interests = rules.FilterInterests(in.Interests)
		upd.SetInterests = true
	}
	if in.SetMood {
		switch {
		case in.Mood == nil:
			upd.SetMood = true
		case enums.IsMood(*in.Mood):
			mood := enums.Mood(*in.Mood)
			upd.CurrentMood = &mood
			upd.SetMood = true
		default:
			s.logger.Debug("ignoring unknown mood", zap.String("agent_id", agentID), zap.String("mood", *in.Mood))
		}
	}
	if in.TwitterHandle != nil {
		handle, err := rules.NormalizeTwitterHandle(*in.TwitterHandle)
		if err != nil {
			return model.Agent{}, err
		}
		upd.TwitterHandle = &handle
	}
	if upd.Empty() {
		return model.Agent{}, rules.Invalid("No updates provided")
	}
	if s.agents == nil {
		return model.Agent{}, fmt.Errorf("agent store is nil")
	}

	updated, err := s.agents.Update(ctx, agentID, upd)
	if err != nil {
		if errors.Is(err, pgrepo.ErrAgentNotFound) {
			return model.Agent{}, ErrAgentNotFound
		}
		return model.Agent{}, err
	}
	return updated, nil
}

func (s *Service) getByID(ctx context.Context, id string) (model.Agent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Agent{}, rules.Invalid("Invalid agent ID format")
	}
	if s.agents == nil {
		return model.Agent{}, fmt.Errorf("agent store is nil")
	}

	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrAgentNotFound) {
			return model.Agent{}, ErrAgentNotFound
		}
		return model.Agent{}, err
	}
	return agent, nil
}

func (s *Service) activePartners(ctx context.Context) (map[string]string, error) {
	if s.matches == nil {
		return map[string]string{}, nil
	}
	return s.matches.ActivePartners(ctx)
}

func statusOf(partners map[string]string, agentID string) enums.AgentStatus {
	if _, ok := partners[agentID]; ok {
		return enums.AgentStatusMatched
	}
	return enums.AgentStatusSingle
}

func publicView(agent model.Agent) model.Agent {
	if !agent.ShowWallet {
		agent.WalletAddress = nil
	}
	return agent
}
