package rest

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// WeatherHandler serves current-weather fetches and stored history.
type WeatherHandler struct {
	service ports.WeatherService
	logger  *zap.Logger
}

// NewWeatherHandler creates the weather endpoint handler.
func NewWeatherHandler(service ports.WeatherService, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: service,
		logger:  logger,
	}
}

// GetCurrent handles GET /weather?q=...&save=bool.
//
// Response codes:
//   - 200: Success with WeatherDto JSON
//   - 400: Missing or empty q, bad save flag, invalid location query
//   - 429: Outbound rate limit exhausted
//   - 503: Provider unavailable after resilience gave up
func (h *WeatherHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, r, h.logger, http.StatusBadRequest,
			domain.ErrCodeValidation, "Query parameter 'q' is required")

		return
	}

	save, err := parseBoolParam(r, "save")
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	dto, err := h.service.FetchCurrent(r.Context(), query, save)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, dto)
}

// GetCurrentForLocation handles GET /locations/{id}/weather.
func (h *WeatherHandler) GetCurrentForLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r, h.logger)
	if !ok {
		return
	}

	save, err := parseBoolParam(r, "save")
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	dto, err := h.service.FetchCurrentForLocation(r.Context(), id, save)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, dto)
}

// History handles GET /locations/{id}/weather/history?from&to&page&pageSize.
// Both range bounds are required and the window is capped.
func (h *WeatherHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r, h.logger)
	if !ok {
		return
	}

	from, err := parseDateParam(r, "from")
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	to, err := parseDateParam(r, "to")
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	if from == nil || to == nil {
		respondWithError(w, r, h.logger, http.StatusBadRequest,
			domain.ErrCodeValidation, "Query parameters 'from' and 'to' are required")

		return
	}

	page, pageSize, err := parsePagination(r)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.service.History(r.Context(), id, *from, *to, page, pageSize)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, result)
}
