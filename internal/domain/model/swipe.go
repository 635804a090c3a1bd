package model

import (
	"time"

	"github.com/QCNachos/TindAi/internal/domain/enums"
)

type Swipe struct {
	ID        string               `json:"id"`
	SwiperID  string               `json:"swiper_id"`
	SwipedID  string               `json:"swiped_id"`
	Direction enums.SwipeDirection `json:"direction"`
	CreatedAt time.Time            `json:"created_at"`
}

// SwipeView is a swipe joined with the other agent's name.
type SwipeView struct {
	Swipe
	OtherName string `json:"other_name"`
}

type SwipeStats struct {
	TotalGiven    int `json:"total_given"`
	TotalReceived int `json:"total_received"`
	LikesGiven    int `json:"likes_given"`
	LikesReceived int `json:"likes_received"`
}
