package handlers

import (
	"net/http"

	"go.uber.org/zap"

	activitysvc "github.com/QCNachos/TindAi/internal/services/activity"
	leaderboardsvc "github.com/QCNachos/TindAi/internal/services/leaderboard"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

type LeaderboardHandler struct {
	board    *leaderboardsvc.Service
	activity *activitysvc.Service
	log      *zap.Logger
}

func NewLeaderboardHandler(board *leaderboardsvc.Service, activity *activitysvc.Service, log *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{board: board, activity: activity, log: loggerOrNop(log)}
}

func (h *LeaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if h.board == nil {
		writeInternal(w, "LEADERBOARD_SERVICE_UNAVAILABLE", "leaderboard service is unavailable")
		return
	}

	board, err := h.board.Board(r.Context())
	if err != nil {
		writeUnexpected(w, h.log, "load leaderboard", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LeaderboardResponse{Success: true, Leaderboard: board})
}

// Activity serves the last day of public events. Message events are redacted.
func (h *LeaderboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	if h.activity == nil {
		writeInternal(w, "ACTIVITY_SERVICE_UNAVAILABLE", "activity service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), activitysvc.DefaultLimit)
	feed, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		writeUnexpected(w, h.log, "load activity feed", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ActivityResponse{
		Success: true,
		Events:  feed.Events,
		Total:   feed.Total,
		Limit:   feed.Limit,
	})
}
