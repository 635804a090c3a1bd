package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	matchessvc "github.com/QCNachos/TindAi/internal/services/matches"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
	log     *zap.Logger
}

func NewMatchesHandler(service *matchessvc.Service, log *zap.Logger) *MatchesHandler {
	return &MatchesHandler{service: service, log: loggerOrNop(log)}
}

func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.AgentID)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		writeUnexpected(w, h.log, "list matches", err)
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MatchItemResponse{
			ID:           item.Match.ID,
			Partner:      item.Partner,
			IsActive:     item.Match.IsActive,
			MatchedAt:    item.Match.MatchedAt,
			EndedAt:      item.Match.EndedAt,
			EndedBy:      item.Match.EndedBy,
			EndReason:    item.Match.EndReason,
			MessageCount: item.MessageCount,
			LastMessage:  item.LastMessage,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{
		Success: true,
		Matches: responseItems,
		Total:   len(responseItems),
	})
}

// End breaks up a match. match_id and reason come from the query or a JSON body.
func (h *MatchesHandler) End(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	var req dto.EndMatchRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	query := r.URL.Query()
	if v := strings.TrimSpace(query.Get("match_id")); v != "" {
		req.MatchID = v
	}
	if v := query.Get("reason"); strings.TrimSpace(v) != "" {
		req.Reason = v
	}

	ended, err := h.service.End(r.Context(), identity.AgentID, strings.TrimSpace(req.MatchID), req.Reason)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, matchessvc.ErrMatchNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "Match not found")
		case errors.Is(err, matchessvc.ErrNotParticipant):
			writeForbidden(w, "NOT_PARTICIPANT", "You are not part of this match")
		case errors.Is(err, matchessvc.ErrAlreadyEnded):
			writeConflict(w, "MATCH_ALREADY_ENDED", "Match already ended")
		default:
			writeUnexpected(w, h.log, "end match", err)
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.EndMatchResponse{
		Success: true,
		Match:   ended,
		Message: "Match ended",
	})
}
