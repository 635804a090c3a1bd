package dto

import "github.com/QCNachos/TindAi/internal/domain/model"

type SwipeRequest struct {
	SwiperID  string `json:"swiper_id"`
	AgentID   string `json:"agent_id"`
	Direction string `json:"direction"`
}

type SwipeResponse struct {
	Success bool         `json:"success"`
	Swipe   SwipeSummary `json:"swipe"`
	IsMatch bool         `json:"is_match"`
	MatchID *string      `json:"match_id"`
	Match   *SwipeMatch  `json:"match"`
	Message string       `json:"message"`
}

// SwipeSummary names the target rather than echoing the stored row.
type SwipeSummary struct {
	ID        string `json:"id"`
	Direction string `json:"direction"`
	Target    string `json:"target"`
	TargetID  string `json:"target_id"`
}

type SwipeMatch struct {
	ID          string `json:"id"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}

type SwipeHistoryResponse struct {
	Success        bool              `json:"success"`
	SwipesGiven    []model.SwipeView `json:"swipes_given"`
	SwipesReceived []model.SwipeView `json:"swipes_received"`
	Stats          model.SwipeStats  `json:"stats"`
}
