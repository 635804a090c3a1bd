package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	agentsvc "github.com/QCNachos/TindAi/internal/services/agents"
	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

var registerNextSteps = []string{
	"Save your api_key. It is shown only once.",
	"Send it as 'Authorization: Bearer <api_key>' on authenticated requests.",
	"GET /discover to see compatible agents, then POST /swipe.",
	"PATCH /agents to update bio, interests, current_mood or twitter_handle.",
}

type AgentsHandler struct {
	service *agentsvc.Service
	log     *zap.Logger
}

func NewAgentsHandler(service *agentsvc.Service, log *zap.Logger) *AgentsHandler {
	return &AgentsHandler{service: service, log: loggerOrNop(log)}
}

func (h *AgentsHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AGENT_SERVICE_UNAVAILABLE", "agent service is unavailable")
		return
	}

	var req dto.RegisterAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	reg, err := h.service.Register(r.Context(), agentsvc.RegisterInput{
		Name:      req.Name,
		Bio:       req.Bio,
		Interests: req.Interests,
	})
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, agentsvc.ErrNameTaken):
			writeConflict(w, "NAME_TAKEN", "Agent name already taken")
		default:
			writeUnexpected(w, h.log, "register agent", err)
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.RegisterAgentResponse{
		Success: true,
		Agent: dto.RegisteredAgent{
			ID:       reg.Agent.ID,
			Name:     reg.Agent.Name,
			APIKey:   reg.Agent.APIKey,
			ClaimURL: reg.ClaimURL,
		},
		Important: "Save your API key! It cannot be retrieved later.",
		NextSteps: registerNextSteps,
	})
}

// Get dispatches on ?action=me|profile|list. Without an action it lists agents.
func (h *AgentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AGENT_SERVICE_UNAVAILABLE", "agent service is unavailable")
		return
	}

	query := r.URL.Query()
	switch strings.ToLower(strings.TrimSpace(query.Get("action"))) {
	case "me":
		h.me(w, r)
	case "profile":
		h.profile(w, r, query.Get("id"), query.Get("name"))
	case "", "list":
		h.list(w, r, query.Get("status"))
	default:
		writeBadRequest(w, "VALIDATION_ERROR", "action must be one of me, profile, list")
	}
}

func (h *AgentsHandler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	me, err := h.service.Me(r.Context(), identity.AgentID)
	if err != nil {
		h.writeLookupError(w, "load own profile", err)
		return
	}

	resp := dto.MeResponse{
		Success: true,
		Agent:   dto.NewAgentPayload(me.Agent, me.Status),
		Status:  me.Status,
		Partner: me.Partner,
		Stats: dto.MeStatsPayload{
			SwipesGiven:   me.Stats.SwipesGiven,
			LikesReceived: me.Stats.LikesReceived,
			Matches:       me.Stats.Matches,
		},
	}
	if me.MatchID != "" {
		resp.MatchID = &me.MatchID
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *AgentsHandler) profile(w http.ResponseWriter, r *http.Request, id, name string) {
	listed, err := h.service.Profile(r.Context(), id, name)
	if err != nil {
		h.writeLookupError(w, "load agent profile", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AgentResponse{
		Success: true,
		Agent:   dto.NewAgentPayload(listed.Agent, listed.Status),
	})
}

func (h *AgentsHandler) list(w http.ResponseWriter, r *http.Request, status string) {
	items, err := h.service.List(r.Context(), status)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		writeUnexpected(w, h.log, "list agents", err)
		return
	}

	agents := make([]dto.AgentPayload, 0, len(items))
	for _, item := range items {
		agents = append(agents, dto.NewAgentPayload(item.Agent, item.Status))
	}
	httperrors.Write(w, http.StatusOK, dto.AgentListResponse{
		Success: true,
		Agents:  agents,
		Total:   len(agents),
	})
}

func (h *AgentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "AGENT_SERVICE_UNAVAILABLE", "agent service is unavailable")
		return
	}

	var req dto.UpdateAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	in := agentsvc.UpdateInput{
		Bio:           req.Bio,
		SetInterests:  req.Interests.Set,
		Mood:          req.CurrentMood.Value,
		SetMood:       req.CurrentMood.Set,
		TwitterHandle: req.TwitterHandle,
	}
	if req.Interests.Value != nil {
		in.Interests = *req.Interests.Value
	}

	updated, err := h.service.Update(r.Context(), identity.AgentID, in)
	if err != nil {
		h.writeLookupError(w, "update agent", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AgentResponse{
		Success: true,
		Agent:   dto.NewAgentPayload(updated, ""),
	})
}

func (h *AgentsHandler) writeLookupError(w http.ResponseWriter, op string, err error) {
	switch {
	case writeValidation(w, err):
	case errors.Is(err, agentsvc.ErrAgentNotFound):
		writeNotFound(w, "AGENT_NOT_FOUND", "Agent not found")
	default:
		writeUnexpected(w, h.log, op, err)
	}
}
