package rest

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// defaultForecastDays is the horizon used when the days parameter is absent.
const defaultForecastDays = 3

// ForecastHandler serves forecast fetches and stored forecast records.
type ForecastHandler struct {
	service ports.ForecastService
	logger  *zap.Logger
}

// NewForecastHandler creates the forecast endpoint handler.
func NewForecastHandler(service ports.ForecastService, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{
		service: service,
		logger:  logger,
	}
}

// GetForecast handles GET /forecast?q=...&days=&save=.
//
// Response codes:
//   - 200: Success with a ForecastDto array
//   - 400: Missing q, days out of [1,14], bad save flag
//   - 429: Outbound rate limit exhausted
//   - 503: Provider unavailable after resilience gave up
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, r, h.logger, http.StatusBadRequest,
			domain.ErrCodeValidation, "Query parameter 'q' is required")

		return
	}

	days, err := h.parseDays(r)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	save, err := parseBoolParam(r, "save")
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	dtos, err := h.service.Fetch(r.Context(), query, days, save)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, dtos)
}

// GetForecastForLocation handles GET /locations/{id}/forecast?days=&save=.
func (h *ForecastHandler) GetForecastForLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r, h.logger)
	if !ok {
		return
	}

	days, err := h.parseDays(r)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	save, err := parseBoolParam(r, "save")
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	dtos, err := h.service.FetchForLocation(r.Context(), id, days, save)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, dtos)
}

// QueryRecords handles GET /locations/{id}/forecast/records?from&to&page&pageSize.
// Both range bounds are optional.
func (h *ForecastHandler) QueryRecords(w http.ResponseWriter, r *http.Request) {
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

	page, pageSize, err := parsePagination(r)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.service.Query(r.Context(), id, from, to, page, pageSize)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, result)
}

func (h *ForecastHandler) parseDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultForecastDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("days must be an integer, got %q", raw)
	}

	return days, nil
}
