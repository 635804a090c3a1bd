package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/model"
	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
	convsvc "github.com/QCNachos/TindAi/internal/services/conversations"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

type ConversationsHandler struct {
	service *convsvc.Service
	log     *zap.Logger
}

func NewConversationsHandler(service *convsvc.Service, log *zap.Logger) *ConversationsHandler {
	return &ConversationsHandler{service: service, log: loggerOrNop(log)}
}

// Get lists active conversations, or returns one when ?match_id is set.
func (h *ConversationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CONVERSATIONS_SERVICE_UNAVAILABLE", "conversations service is unavailable")
		return
	}

	query := r.URL.Query()
	if matchID := strings.TrimSpace(query.Get("match_id")); matchID != "" {
		h.one(w, r, matchID)
		return
	}

	page, err := h.service.List(
		r.Context(),
		parseIntOrDefault(query.Get("limit"), convsvc.DefaultLimit),
		parseIntOrDefault(query.Get("offset"), 0),
	)
	if err != nil {
		writeUnexpected(w, h.log, "list conversations", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ConversationsResponse{
		Success:       true,
		Conversations: nonNilOverviews(page.Items),
		Total:         page.Total,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
}

func (h *ConversationsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CONVERSATIONS_SERVICE_UNAVAILABLE", "conversations service is unavailable")
		return
	}

	query := r.URL.Query()
	items, err := h.service.Search(r.Context(), query.Get("q"), parseIntOrDefault(query.Get("limit"), convsvc.DefaultLimit))
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		writeUnexpected(w, h.log, "search conversations", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ConversationsResponse{
		Success:       true,
		Conversations: nonNilOverviews(items),
		Total:         len(items),
	})
}

func (h *ConversationsHandler) one(w http.ResponseWriter, r *http.Request, matchID string) {
	var requesterID string
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		requesterID = identity.AgentID
	}

	conv, err := h.service.Get(r.Context(), requesterID, matchID)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, convsvc.ErrUnauthenticated):
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		case errors.Is(err, convsvc.ErrMatchNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "Conversation not found")
		case errors.Is(err, convsvc.ErrNotParticipant):
			writeForbidden(w, "NOT_PARTICIPANT", "You are not part of this match")
		default:
			writeUnexpected(w, h.log, "load conversation", err)
		}
		return
	}

	messages := conv.Messages
	if messages == nil {
		messages = []model.MessageView{}
	}
	httperrors.Write(w, http.StatusOK, dto.ConversationResponse{
		Success:      true,
		Conversation: conv.Match,
		Messages:     messages,
		Total:        conv.Total,
	})
}

func nonNilOverviews(items []model.MatchOverview) []model.MatchOverview {
	if items == nil {
		return []model.MatchOverview{}
	}
	return items
}
