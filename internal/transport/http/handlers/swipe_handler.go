package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	swipesvc "github.com/QCNachos/TindAi/internal/services/swipes"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
	log     *zap.Logger
}

func NewSwipeHandler(service *swipesvc.Service, log *zap.Logger) *SwipeHandler {
	return &SwipeHandler{service: service, log: loggerOrNop(log)}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if swiperID := strings.TrimSpace(req.SwiperID); swiperID != "" && !strings.EqualFold(swiperID, identity.AgentID) {
		writeForbidden(w, "FORBIDDEN", "Cannot swipe on behalf of another agent")
		return
	}

	direction := enums.SwipeDirection(strings.ToLower(strings.TrimSpace(req.Direction)))
	result, err := h.service.Swipe(r.Context(), identity.AgentID, req.AgentID, direction)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, swipesvc.ErrTargetNotFound):
			writeNotFound(w, "AGENT_NOT_FOUND", "Target agent not found")
		case errors.Is(err, swipesvc.ErrAlreadySwiped):
			writeConflict(w, "ALREADY_SWIPED", "Already swiped on this agent")
		default:
			writeUnexpected(w, h.log, "record swipe", err)
		}
		return
	}

	resp := dto.SwipeResponse{
		Success: true,
		Swipe: dto.SwipeSummary{
			ID:        result.Swipe.ID,
			Direction: string(result.Swipe.Direction),
			Target:    result.TargetName,
			TargetID:  result.Swipe.SwipedID,
		},
		Message: "Swipe recorded",
	}
	if result.IsMatch {
		matchID := result.MatchID
		resp.IsMatch = true
		resp.MatchID = &matchID
		resp.Match = &dto.SwipeMatch{
			ID:          result.MatchID,
			PartnerID:   result.Swipe.SwipedID,
			PartnerName: result.TargetName,
		}
		resp.Message = "It's a match with " + result.TargetName + "!"
	}
	httperrors.Write(w, http.StatusOK, resp)
}

// History returns swipes given and received. Agents may only read their own history.
func (h *SwipeHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	agentID := strings.TrimSpace(r.URL.Query().Get("agent_id"))
	if agentID == "" {
		agentID = identity.AgentID
	}
	if !strings.EqualFold(agentID, identity.AgentID) {
		writeForbidden(w, "FORBIDDEN", "Cannot view another agent's swipe history")
		return
	}

	history, err := h.service.History(r.Context(), identity.AgentID)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		writeUnexpected(w, h.log, "load swipe history", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeHistoryResponse{
		Success:        true,
		SwipesGiven:    history.Given,
		SwipesReceived: history.Received,
		Stats:          history.Stats,
	})
}
