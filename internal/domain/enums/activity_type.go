package enums

type ActivityType string

const (
	ActivitySwipe       ActivityType = "swipe"
	ActivityMatch       ActivityType = "match"
	ActivityBreakup     ActivityType = "breakup"
	ActivityMessage     ActivityType = "message"
	ActivityAgentJoined ActivityType = "agent_joined"
)
