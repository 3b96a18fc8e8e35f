// Package rest implements the HTTP handlers of the service. It is the
// primary adapter, translating requests into service operations and domain
// errors into status codes with a stable error body.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/middleware"
)

// ErrorResponse is the standardized error body. Error carries the stable
// domain code; clients must match on it, not on Message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

const dateLayout = "2006-01-02"

func respondWithJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func respondWithError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, code, message string) {
	respondWithJSON(w, logger, status, ErrorResponse{
		Error:   code,
		Message: message,
		Path:    r.URL.Path,
	})
}

// handleServiceError maps a domain error to its HTTP status. Unknown errors
// become an opaque 500 so internals never leak to clients.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var e *domain.DomainError

	if !errors.As(err, &e) {
		logger.Error("unexpected error",
			zap.Error(err),
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.String("request_id", middleware.GetRequestID(r.Context())))

		respondWithError(w, r, logger, http.StatusInternalServerError,
			"INTERNAL_ERROR", "An unexpected error occurred")

		return
	}

	switch e.Code {
	case domain.ErrCodeValidation, domain.ErrCodeInvalidRequest:
		respondWithError(w, r, logger, http.StatusBadRequest, e.Code, e.Message)
	case domain.ErrCodeNotFound:
		respondWithError(w, r, logger, http.StatusNotFound, e.Code, e.Message)
	case domain.ErrCodeConflict:
		respondWithError(w, r, logger, http.StatusConflict, e.Code, e.Message)
	case domain.ErrCodeRateLimited:
		respondWithError(w, r, logger, http.StatusTooManyRequests, e.Code, e.Message)
	case domain.ErrCodeServiceUnavailable, domain.ErrCodeUpstreamServer, domain.ErrCodeEmptyResponse:
		respondWithError(w, r, logger, http.StatusServiceUnavailable, e.Code,
			"Weather provider is temporarily unavailable")
	default:
		logger.Error("unmapped domain error",
			zap.String("code", e.Code),
			zap.Error(err))

		respondWithError(w, r, logger, http.StatusInternalServerError, e.Code,
			"An unexpected error occurred")
	}
}

// parseIDVar parses the {id} path variable, writing a 400 when it is not a uuid.
func parseIDVar(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, logger, http.StatusBadRequest,
			domain.ErrCodeInvalidRequest, "Location id must be a valid uuid")

		return uuid.Nil, false
	}

	return id, true
}

// parsePagination reads page and pageSize query parameters with defaults.
// Bounds are enforced by the services; this only rejects non-numeric input.
func parsePagination(r *http.Request) (int, int, error) {
	page := 1
	pageSize := domain.DefaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, domain.NewValidationError("page must be an integer, got %q", raw)
		}

		page = parsed
	}

	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, domain.NewValidationError("pageSize must be an integer, got %q", raw)
		}

		pageSize = parsed
	}

	return page, pageSize, nil
}

// parseDateParam reads an optional yyyy-mm-dd query parameter.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domain.NewValidationError("%s must be formatted as %s, got %q", name, dateLayout, raw)
	}

	return &parsed, nil
}

// parseBoolParam reads an optional boolean query parameter, defaulting to false.
func parseBoolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError("%s must be a boolean, got %q", name, raw)
	}

	return parsed, nil
}
