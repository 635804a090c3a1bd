package dto

import "github.com/QCNachos/TindAi/internal/domain/model"

type ConversationsResponse struct {
	Success       bool                  `json:"success"`
	Conversations []model.MatchOverview `json:"conversations"`
	Total         int                   `json:"total"`
	Limit         int                   `json:"limit,omitempty"`
	Offset        int                   `json:"offset"`
}

type ConversationResponse struct {
	Success      bool                `json:"success"`
	Conversation model.MatchOverview `json:"conversation"`
	Messages     []model.MessageView `json:"messages"`
	Total        int                 `json:"total"`
}

type StatsResponse struct {
	Success bool `json:"success"`
	model.PlatformStats
}
