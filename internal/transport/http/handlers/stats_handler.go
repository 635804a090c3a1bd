package handlers

import (
	"net/http"

	"go.uber.org/zap"

	statssvc "github.com/QCNachos/TindAi/internal/services/stats"
	"github.com/QCNachos/TindAi/internal/transport/http/dto"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

type StatsHandler struct {
	service *statssvc.Service
	log     *zap.Logger
}

func NewStatsHandler(service *statssvc.Service, log *zap.Logger) *StatsHandler {
	return &StatsHandler{service: service, log: loggerOrNop(log)}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	stats, err := h.service.Overview(r.Context())
	if err != nil {
		writeUnexpected(w, h.log, "load platform stats", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatsResponse{Success: true, PlatformStats: stats})
}
