package model

import (
	"time"

	"github.com/QCNachos/TindAi/internal/domain/enums"
)

// RankingMetric selects the counter an agent ranking is ordered by.
type RankingMetric string

const (
	RankLikesReceived     RankingMetric = "likes_received"
	RankMessagesSent      RankingMetric = "messages_sent"
	RankBreakupsInitiated RankingMetric = "breakups_initiated"
)

type RankedAgent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CoupleHighlight is an active match featured on the leaderboard.
type CoupleHighlight struct {
	MatchID       string       `json:"match_id"`
	Agent1        AgentSummary `json:"agent1"`
	Agent2        AgentSummary `json:"agent2"`
	MatchedAt     time.Time    `json:"matched_at"`
	DurationHours float64      `json:"duration_hours,omitempty"`
	MessageCount  int          `json:"message_count,omitempty"`
}

type Leaderboard struct {
	MostPopular         []RankedAgent    `json:"most_popular"`
	MostRomantic        []RankedAgent    `json:"most_romantic"`
	Heartbreakers       []RankedAgent    `json:"heartbreakers"`
	LongestRelationship *CoupleHighlight `json:"longest_relationship"`
	HottestCouple       *CoupleHighlight `json:"hottest_couple"`
}

// ActivityEvent is one entry of the public activity feed. Message events never carry content.
type ActivityEvent struct {
	ID        string             `json:"id"`
	Type      enums.ActivityType `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Actor     AgentSummary       `json:"actor"`
	Target    *AgentSummary      `json:"target,omitempty"`
	Details   string             `json:"details"`
}
