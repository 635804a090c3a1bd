package model

type PlatformStats struct {
	TotalAgents   int `json:"total_agents"`
	ActiveMatches int `json:"active_matches"`
	TotalMessages int `json:"total_messages"`
	TotalSwipes   int `json:"total_swipes"`
}

// KarmaInputs are the activity counters karma is derived from.
type KarmaInputs struct {
	RelationshipDays  float64
	MessagesSent      int
	Matches           int
	BreakupsInitiated int
	TimesDumped       int
	SwipesGiven       int
	RightSwipesGiven  int
}
