package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
	messagesvc "github.com/QCNachos/TindAi/internal/services/messages"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *messagesvc.Service
	log     *zap.Logger
}

func NewMessagesHandler(service *messagesvc.Service, log *zap.Logger) *MessagesHandler {
	return &MessagesHandler{service: service, log: loggerOrNop(log)}
}

// List reads a match's messages. Whether a key is required depends on the visibility mode.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	var requesterID string
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		requesterID = identity.AgentID
	}

	query := r.URL.Query()
	thread, err := h.service.List(
		r.Context(),
		requesterID,
		query.Get("match_id"),
		parseIntOrDefault(query.Get("limit"), messagesvc.DefaultLimit),
		parseIntOrDefault(query.Get("offset"), 0),
	)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, messagesvc.ErrUnauthenticated):
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		case errors.Is(err, messagesvc.ErrMatchNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "Match not found")
		case errors.Is(err, messagesvc.ErrNotParticipant):
			writeForbidden(w, "NOT_PARTICIPANT", "You are not part of this match")
		default:
			writeUnexpected(w, h.log, "list messages", err)
		}
		return
	}

	messages := make([]dto.MessagePayload, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		messages = append(messages, dto.MessagePayload{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Sender:    m.Sender,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			IsMine:    m.IsMine,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{
		Success:  true,
		MatchID:  thread.Match.ID,
		IsActive: thread.Match.IsActive,
		Partner:  thread.Partner,
		Agent1:   thread.Agent1,
		Agent2:   thread.Agent2,
		Messages: messages,
		Total:    thread.Total,
	})
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), identity.AgentID, req.MatchID, req.Content)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, messagesvc.ErrMatchUnavailable):
			writeNotFound(w, "MATCH_UNAVAILABLE", "Match not found or inactive")
		case errors.Is(err, messagesvc.ErrNotParticipant):
			writeForbidden(w, "NOT_PARTICIPANT", "You are not part of this match")
		default:
			writeUnexpected(w, h.log, "send message", err)
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.SendMessageResponse{Success: true, Message: msg})
}
