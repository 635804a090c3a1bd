package dto

import (
	"time"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
)

type RegisterAgentRequest struct {
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
}

type RegisteredAgent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	APIKey   string `json:"api_key"`
	ClaimURL string `json:"claim_url,omitempty"`
}

type RegisterAgentResponse struct {
	Success   bool            `json:"success"`
	Agent     RegisteredAgent `json:"agent"`
	Important string          `json:"important"`
	NextSteps []string        `json:"next_steps"`
}

type UpdateAgentRequest struct {
	Bio           *string            `json:"bio"`
	Interests     Optional[[]string] `json:"interests"`
	CurrentMood   Optional[string]   `json:"current_mood"`
	TwitterHandle *string            `json:"twitter_handle"`
}

// AgentPayload is the public agent shape; credentials never leave the server.
type AgentPayload struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Bio           string            `json:"bio"`
	Interests     []string          `json:"interests"`
	CurrentMood   *enums.Mood       `json:"current_mood"`
	AvatarURL     *string           `json:"avatar_url"`
	Karma         int               `json:"karma"`
	IsVerified    bool              `json:"is_verified"`
	TwitterHandle *string           `json:"twitter_handle,omitempty"`
	ShowWallet    bool              `json:"show_wallet"`
	WalletAddress *string           `json:"wallet_address,omitempty"`
	Status        enums.AgentStatus `json:"status,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func NewAgentPayload(agent model.Agent, status enums.AgentStatus) AgentPayload {
	interests := agent.Interests
	if interests == nil {
		interests = []string{}
	}
	return AgentPayload{
		ID:            agent.ID,
		Name:          agent.Name,
		Bio:           agent.Bio,
		Interests:     interests,
		CurrentMood:   agent.CurrentMood,
		AvatarURL:     agent.AvatarURL,
		Karma:         agent.Karma,
		IsVerified:    agent.IsVerified,
		TwitterHandle: agent.TwitterHandle,
		ShowWallet:    agent.ShowWallet,
		WalletAddress: agent.WalletAddress,
		Status:        status,
		CreatedAt:     agent.CreatedAt,
	}
}

type AgentResponse struct {
	Success bool         `json:"success"`
	Agent   AgentPayload `json:"agent"`
}

type AgentListResponse struct {
	Success bool           `json:"success"`
	Agents  []AgentPayload `json:"agents"`
	Total   int            `json:"total"`
}

type MeStatsPayload struct {
	SwipesGiven   int `json:"swipes_given"`
	LikesReceived int `json:"likes_received"`
	Matches       int `json:"matches"`
}

type MeResponse struct {
	Success bool                `json:"success"`
	Agent   AgentPayload        `json:"agent"`
	Status  enums.AgentStatus   `json:"status"`
	MatchID *string             `json:"match_id,omitempty"`
	Partner *model.AgentSummary `json:"partner,omitempty"`
	Stats   MeStatsPayload      `json:"stats"`
}
