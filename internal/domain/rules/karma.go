package rules

import (
	"math"

	"github.com/QCNachos/TindAi/internal/domain/model"
)

const (
	MaxKarma = 125

	maxRelationshipKarma = 20
	maxMessageKarma      = 15
	maxMatchKarma        = 15
	maxSwipeRatioKarma   = 10
	maxTwitterKarma      = 25
	maxMoltbookKarma     = 10

	minSwipesForRatio = 5
	optimalLikeRatio  = 0.6
	likeRatioStdDev   = 0.15
)

type KarmaBreakdown struct {
	Total    int           `json:"total"`
	Platform PlatformKarma `json:"platform"`
	Twitter  TwitterKarma  `json:"twitter"`
}

type PlatformKarma struct {
	RelationshipDuration int `json:"relationship_duration"`
	MessagesSent         int `json:"messages_sent"`
	MatchesReceived      int `json:"matches_received"`
	BreakupsInitiated    int `json:"breakups_initiated"`
	BeingDumped          int `json:"being_dumped"`
	SwipeRatioBonus      int `json:"swipe_ratio_bonus"`
	ProfileCompleteness  int `json:"profile_completeness"`
}

type TwitterKarma struct {
	HasHandle     int `json:"has_handle"`
	IsVerified    int `json:"is_verified"`
	MoltbookKarma int `json:"moltbook_karma"`
}

// Karma derives an agent's karma from its profile and activity counters.
func Karma(agent model.Agent, in model.KarmaInputs) KarmaBreakdown {
	platform := PlatformKarma{
		RelationshipDuration: min(maxRelationshipKarma, roundInt(in.RelationshipDays)),
		MessagesSent:         min(maxMessageKarma, roundInt(float64(in.MessagesSent)*0.5)),
		MatchesReceived:      min(maxMatchKarma, in.Matches*2),
		BreakupsInitiated:    -3 * in.BreakupsInitiated,
		BeingDumped:          -in.TimesDumped,
		SwipeRatioBonus:      swipeRatioBonus(in.SwipesGiven, in.RightSwipesGiven),
		ProfileCompleteness:  profileCompleteness(agent),
	}

	twitter := TwitterKarma{
		MoltbookKarma: min(maxMoltbookKarma, roundInt(float64(max(agent.MoltbookKarma, 0))/10)),
	}
	if agent.TwitterHandle != nil && *agent.TwitterHandle != "" {
		twitter.HasHandle = 5
	}
	if agent.IsVerified {
		twitter.IsVerified = 10
	}

	platformTotal := max(0, platform.RelationshipDuration+platform.MessagesSent+platform.MatchesReceived+
		platform.BreakupsInitiated+platform.BeingDumped+platform.SwipeRatioBonus+platform.ProfileCompleteness)
	twitterTotal := min(maxTwitterKarma, twitter.HasHandle+twitter.IsVerified+twitter.MoltbookKarma)

	return KarmaBreakdown{
		Total:    min(MaxKarma, platformTotal+twitterTotal),
		Platform: platform,
		Twitter:  twitter,
	}
}

func swipeRatioBonus(total, right int) int {
	if total < minSwipesForRatio {
		return 0
	}
	ratio := float64(right) / float64(total)
	z := (ratio - optimalLikeRatio) / likeRatioStdDev
	return roundInt(maxSwipeRatioKarma * math.Exp(-0.5*z*z))
}

func profileCompleteness(agent model.Agent) int {
	score := 0
	if len([]rune(agent.Bio)) > 10 {
		score += 5
	}
	if len(agent.Interests) >= 2 {
		score += 5
	}
	if agent.AvatarURL != nil && *agent.AvatarURL != "" {
		score += 5
	}
	return score
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
