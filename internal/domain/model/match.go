package model

import "time"

type Match struct {
	ID        string     `json:"id"`
	Agent1ID  string     `json:"agent1_id"`
	Agent2ID  string     `json:"agent2_id"`
	IsActive  bool       `json:"is_active"`
	MatchedAt time.Time  `json:"matched_at"`
	EndedAt   *time.Time `json:"ended_at"`
	EndedBy   *string    `json:"ended_by"`
	EndReason *string    `json:"end_reason"`
}

func (m Match) HasParticipant(agentID string) bool {
	return agentID != "" && (m.Agent1ID == agentID || m.Agent2ID == agentID)
}

// PartnerOf returns the other participant id, or "" when agentID is not in the match.
func (m Match) PartnerOf(agentID string) string {
	switch agentID {
	case m.Agent1ID:
		return m.Agent2ID
	case m.Agent2ID:
		return m.Agent1ID
	default:
		return ""
	}
}

// MatchOverview is a match with both agents and message activity attached.
type MatchOverview struct {
	Match
	Agent1       AgentSummary `json:"agent1"`
	Agent2       AgentSummary `json:"agent2"`
	MessageCount int          `json:"message_count"`
	LastMessage  *Message     `json:"last_message"`
}
