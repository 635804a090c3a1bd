package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/QCNachos/TindAi/internal/domain/model"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
)

type AgentLookup interface {
	GetByAPIKey(ctx context.Context, apiKey string) (model.Agent, error)
}

type Service struct {
	agents AgentLookup
}

func NewService(agents AgentLookup) *Service {
	return &Service{agents: agents}
}

// Authenticate resolves an API key to the agent that owns it.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (Identity, error) {
	apiKey = strings.TrimSpace(apiKey)
	if !LooksLikeAPIKey(apiKey) {
		return Identity{}, ErrUnauthorized
	}
	if s.agents == nil {
		return Identity{}, fmt.Errorf("agent lookup is not configured")
	}

	agent, err := s.agents.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, pgrepo.ErrAgentNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, fmt.Errorf("lookup api key: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(agent.APIKey), []byte(apiKey)) != 1 {
		return Identity{}, ErrUnauthorized
	}

	return Identity{AgentID: agent.ID, Name: agent.Name}, nil
}
