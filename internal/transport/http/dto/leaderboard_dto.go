package dto

import "github.com/QCNachos/TindAi/internal/domain/model"

type LeaderboardResponse struct {
	Success bool `json:"success"`
	model.Leaderboard
}

type ActivityResponse struct {
	Success bool                  `json:"success"`
	Events  []model.ActivityEvent `json:"events"`
	Total   int                   `json:"total"`
	Limit   int                   `json:"limit"`
}
