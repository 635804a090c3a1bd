package enums

type AgentStatus string

const (
	AgentStatusSingle  AgentStatus = "single"
	AgentStatusMatched AgentStatus = "matched"
)
