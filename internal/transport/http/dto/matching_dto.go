package dto

type SuggestionPayload struct {
	Agent              AgentPayload `json:"agent"`
	CompatibilityScore int          `json:"compatibility_score"`
	SharedInterests    []string     `json:"shared_interests"`
}

type SuggestionsResponse struct {
	Success bool                `json:"success"`
	Agents  []SuggestionPayload `json:"agents"`
	Total   int                 `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}

type PairScoreResponse struct {
	Success            bool     `json:"success"`
	Agent1ID           string   `json:"agent1_id,omitempty"`
	Agent2ID           string   `json:"agent2_id,omitempty"`
	CompatibilityScore int      `json:"compatibility_score"`
	SharedInterests    []string `json:"shared_interests"`
}

type InlineProfile struct {
	Interests   []string `json:"interests"`
	CurrentMood *string  `json:"current_mood"`
	Bio         string   `json:"bio"`
	Karma       int      `json:"karma"`
}

type ScoreProfilesRequest struct {
	Agent1 *InlineProfile `json:"agent1"`
	Agent2 *InlineProfile `json:"agent2"`
}
