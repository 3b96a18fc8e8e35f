package rest

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// RefreshHandler triggers on-demand batch refreshes.
type RefreshHandler struct {
	service ports.RefreshService
	logger  *zap.Logger
}

// NewRefreshHandler creates the refresh endpoint handler.
func NewRefreshHandler(service ports.RefreshService, logger *zap.Logger) *RefreshHandler {
	return &RefreshHandler{
		service: service,
		logger:  logger,
	}
}

// Trigger handles POST /refresh. The call blocks until the batch run joins
// and reports the per-location outcome counts.
func (h *RefreshHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RefreshAll(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, summary)
}
