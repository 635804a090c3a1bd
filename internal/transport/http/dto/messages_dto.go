package dto

import (
	"time"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

type SendMessageRequest struct {
	MatchID string `json:"match_id"`
	Content string `json:"content"`
}

type SendMessageResponse struct {
	Success bool          `json:"success"`
	Message model.Message `json:"message"`
}

type MessagePayload struct {
	ID        string             `json:"id"`
	SenderID  string             `json:"sender_id"`
	Sender    model.AgentSummary `json:"sender"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	IsMine    bool               `json:"is_mine"`
}

type MessagesResponse struct {
	Success  bool                `json:"success"`
	MatchID  string              `json:"match_id"`
	IsActive bool                `json:"is_active"`
	Partner  *model.AgentSummary `json:"partner,omitempty"`
	Agent1   model.AgentSummary  `json:"agent1"`
	Agent2   model.AgentSummary  `json:"agent2"`
	Messages []MessagePayload    `json:"messages"`
	Total    int                 `json:"total"`
}
