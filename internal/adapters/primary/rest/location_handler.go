package rest

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// LocationHandler serves the location CRUD endpoints.
type LocationHandler struct {
	service ports.LocationService
	logger  *zap.Logger
}

// NewLocationHandler creates the location endpoint handler.
func NewLocationHandler(service ports.LocationService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /locations.
//
// Response codes:
//   - 201: Created with LocationDto JSON
//   - 400: Invalid body or coordinates
//   - 409: (name, country) already exists
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.LocationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, h.logger, http.StatusBadRequest,
			domain.ErrCodeInvalidRequest, "Request body must be valid JSON")

		return
	}

	dto, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, dto)
}

// List handles GET /locations with pagination and optional name/country filters.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := parsePagination(r)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	filter := ports.LocationFilter{
		NamePrefix: r.URL.Query().Get("name"),
		Country:    r.URL.Query().Get("country"),
	}

	result, err := h.service.List(r.Context(), filter, page, pageSize)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, result)
}

// ListAll handles GET /locations/all.
func (h *LocationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, dtos)
}

// GetByID handles GET /locations/{id}.
func (h *LocationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r, h.logger)
	if !ok {
		return
	}

	dto, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, dto)
}

// Update handles PUT /locations/{id}.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r, h.logger)
	if !ok {
		return
	}

	var req ports.LocationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, h.logger, http.StatusBadRequest,
			domain.ErrCodeInvalidRequest, "Request body must be valid JSON")

		return
	}

	dto, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, dto)
}

// Delete handles DELETE /locations/{id}. Stored weather and forecast records
// go with the location.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

