package dto

import (
	"time"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

type MatchItemResponse struct {
	ID           string             `json:"id"`
	Partner      model.AgentSummary `json:"partner"`
	IsActive     bool               `json:"is_active"`
	MatchedAt    time.Time          `json:"matched_at"`
	EndedAt      *time.Time         `json:"ended_at,omitempty"`
	EndedBy      *string            `json:"ended_by,omitempty"`
	EndReason    *string            `json:"end_reason,omitempty"`
	MessageCount int                `json:"message_count"`
	LastMessage  *model.Message     `json:"last_message"`
}

type MatchesResponse struct {
	Success bool                `json:"success"`
	Matches []MatchItemResponse `json:"matches"`
	Total   int                 `json:"total"`
}

type EndMatchRequest struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
}

type EndMatchResponse struct {
	Success bool        `json:"success"`
	Match   model.Match `json:"match"`
	Message string      `json:"message"`
}
