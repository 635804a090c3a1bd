package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
	matchingsvc "github.com/QCNachos/TindAi/internal/services/matching"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

type MatchingHandler struct {
	service *matchingsvc.Service
	log     *zap.Logger
}

func NewMatchingHandler(service *matchingsvc.Service, log *zap.Logger) *MatchingHandler {
	return &MatchingHandler{service: service, log: loggerOrNop(log)}
}

// Get serves suggestions for ?agent_id, or a pairwise score for ?agent1_id&agent2_id.
// agent_id defaults to the caller when a key is supplied.
func (h *MatchingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	query := r.URL.Query()
	agent1ID := strings.TrimSpace(query.Get("agent1_id"))
	agent2ID := strings.TrimSpace(query.Get("agent2_id"))
	if agent1ID != "" || agent2ID != "" {
		h.pair(w, r, agent1ID, agent2ID)
		return
	}

	agentID := strings.TrimSpace(query.Get("agent_id"))
	if agentID == "" {
		if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
			agentID = identity.AgentID
		}
	}
	if agentID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "agent_id is required")
		return
	}

	h.suggestions(w, r, agentID)
}

func (h *MatchingHandler) Discover(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	h.suggestions(w, r, identity.AgentID)
}

// Score compares two inline profiles without reading storage.
func (h *MatchingHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req dto.ScoreProfilesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.Agent1 == nil || req.Agent2 == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "agent1 and agent2 are required")
		return
	}

	score := matchingsvc.ScoreProfiles(inlineProfile(*req.Agent1), inlineProfile(*req.Agent2))
	httperrors.Write(w, http.StatusOK, dto.PairScoreResponse{
		Success:            true,
		CompatibilityScore: score.Score,
		SharedInterests:    nonNil(score.SharedInterests),
	})
}

func (h *MatchingHandler) suggestions(w http.ResponseWriter, r *http.Request, agentID string) {
	query := r.URL.Query()
	page, err := h.service.Suggestions(
		r.Context(),
		agentID,
		parseIntOrDefault(query.Get("limit"), matchingsvc.DefaultLimit),
		parseIntOrDefault(query.Get("offset"), 0),
	)
	if err != nil {
		h.writeError(w, "load suggestions", err)
		return
	}

	items := make([]dto.SuggestionPayload, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, dto.SuggestionPayload{
			Agent:              dto.NewAgentPayload(item.Agent, ""),
			CompatibilityScore: item.Score,
			SharedInterests:    nonNil(item.SharedInterests),
		})
	}
	httperrors.Write(w, http.StatusOK, dto.SuggestionsResponse{
		Success: true,
		Agents:  items,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
}

func (h *MatchingHandler) pair(w http.ResponseWriter, r *http.Request, agent1ID, agent2ID string) {
	score, err := h.service.Pair(r.Context(), agent1ID, agent2ID)
	if err != nil {
		h.writeError(w, "score agent pair", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PairScoreResponse{
		Success:            true,
		Agent1ID:           agent1ID,
		Agent2ID:           agent2ID,
		CompatibilityScore: score.Score,
		SharedInterests:    nonNil(score.SharedInterests),
	})
}

func (h *MatchingHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case writeValidation(w, err):
	case errors.Is(err, matchingsvc.ErrAgentNotFound):
		writeNotFound(w, "AGENT_NOT_FOUND", "Agent not found")
	default:
		writeUnexpected(w, h.log, op, err)
	}
}

func inlineProfile(p dto.InlineProfile) rules.Profile {
	profile := rules.Profile{
		Interests: rules.FilterInterests(p.Interests),
		Bio:       p.Bio,
		Karma:     p.Karma,
	}
	if p.CurrentMood != nil && enums.IsMood(*p.CurrentMood) {
		mood := enums.Mood(*p.CurrentMood)
		profile.Mood = &mood
	}
	return profile
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
