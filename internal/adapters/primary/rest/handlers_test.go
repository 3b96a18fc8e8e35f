package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// MockLocationService is a mock implementation of the LocationService interface.
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) Create(ctx context.Context, req ports.LocationRequest) (*domain.LocationDto, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.LocationDto), args.Error(1)
}

func (m *MockLocationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LocationDto, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.LocationDto), args.Error(1)
}

func (m *MockLocationService) Update(ctx context.Context, id uuid.UUID, req ports.LocationRequest) (*domain.LocationDto, error) {
	args := m.Called(ctx, id, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.LocationDto), args.Error(1)
}

func (m *MockLocationService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationService) List(ctx context.Context, filter ports.LocationFilter, page, pageSize int) (*domain.Page[domain.LocationDto], error) {
	args := m.Called(ctx, filter, page, pageSize)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Page[domain.LocationDto]), args.Error(1)
}

func (m *MockLocationService) ListAll(ctx context.Context) ([]domain.LocationDto, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.LocationDto), args.Error(1)
}

// MockWeatherService is a mock implementation of the WeatherService interface.
type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) FetchCurrent(ctx context.Context, query string, save bool) (*domain.WeatherDto, error) {
	args := m.Called(ctx, query, save)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.WeatherDto), args.Error(1)
}

func (m *MockWeatherService) FetchCurrentForLocation(ctx context.Context, id uuid.UUID, save bool) (*domain.WeatherDto, error) {
	args := m.Called(ctx, id, save)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.WeatherDto), args.Error(1)
}

func (m *MockWeatherService) History(ctx context.Context, locationID uuid.UUID, from, to time.Time, page, pageSize int) (*domain.Page[domain.WeatherDto], error) {
	args := m.Called(ctx, locationID, from, to, page, pageSize)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Page[domain.WeatherDto]), args.Error(1)
}

// MockForecastService is a mock implementation of the ForecastService interface.
type MockForecastService struct {
	mock.Mock
}

func (m *MockForecastService) Fetch(ctx context.Context, query string, days int, save bool) ([]domain.ForecastDto, error) {
	args := m.Called(ctx, query, days, save)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ForecastDto), args.Error(1)
}

func (m *MockForecastService) FetchForLocation(ctx context.Context, id uuid.UUID, days int, save bool) ([]domain.ForecastDto, error) {
	args := m.Called(ctx, id, days, save)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ForecastDto), args.Error(1)
}

func (m *MockForecastService) Query(ctx context.Context, locationID uuid.UUID, from, to *time.Time, page, pageSize int) (*domain.Page[domain.ForecastDto], error) {
	args := m.Called(ctx, locationID, from, to, page, pageSize)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Page[domain.ForecastDto]), args.Error(1)
}

// MockRefreshService is a mock implementation of the RefreshService interface.
type MockRefreshService struct {
	mock.Mock
}

func (m *MockRefreshService) RefreshAll(ctx context.Context) (ports.RefreshSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.RefreshSummary), args.Error(1)
}

func testRouter(locations *MockLocationService, weather *MockWeatherService, forecasts *MockForecastService, refresh *MockRefreshService) *mux.Router {
	logger := zap.NewNop()
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	if locations != nil {
		h := NewLocationHandler(locations, logger)
		api.HandleFunc("/locations", h.Create).Methods(http.MethodPost)
		api.HandleFunc("/locations", h.List).Methods(http.MethodGet)
		api.HandleFunc("/locations/all", h.ListAll).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}", h.GetByID).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}", h.Update).Methods(http.MethodPut)
		api.HandleFunc("/locations/{id}", h.Delete).Methods(http.MethodDelete)
	}

	if weather != nil {
		h := NewWeatherHandler(weather, logger)
		api.HandleFunc("/weather", h.GetCurrent).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}/weather", h.GetCurrentForLocation).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}/weather/history", h.History).Methods(http.MethodGet)
	}

	if forecasts != nil {
		h := NewForecastHandler(forecasts, logger)
		api.HandleFunc("/forecast", h.GetForecast).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}/forecast", h.GetForecastForLocation).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}/forecast/records", h.QueryRecords).Methods(http.MethodGet)
	}

	if refresh != nil {
		h := NewRefreshHandler(refresh, logger)
		api.HandleFunc("/refresh", h.Trigger).Methods(http.MethodPost)
	}

	return router
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body
}

func TestLocationHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service := new(MockLocationService)
		router := testRouter(service, nil, nil, nil)

		dto := &domain.LocationDto{ID: uuid.New(), Name: "Paris", Country: "France"}
		service.On("Create", mock.Anything, mock.Anything).Return(dto, nil)

		body, _ := json.Marshal(ports.LocationRequest{Name: "Paris", Country: "France", Latitude: 48.85, Longitude: 2.35})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got domain.LocationDto
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, dto.ID, got.ID)
	})

	t.Run("malformed body", func(t *testing.T) {
		service := new(MockLocationService)
		router := testRouter(service, nil, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.ErrCodeInvalidRequest, decodeError(t, rec).Error)
		service.AssertNotCalled(t, "Create")
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		service := new(MockLocationService)
		router := testRouter(service, nil, nil, nil)

		service.On("Create", mock.Anything, mock.Anything).
			Return(nil, &domain.DomainError{Code: domain.ErrCodeConflict, Message: "location Paris, France already exists"})

		body, _ := json.Marshal(ports.LocationRequest{Name: "Paris", Country: "France"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, domain.ErrCodeConflict, decodeError(t, rec).Error)
	})
}

func TestLocationHandler_GetByID(t *testing.T) {
	t.Run("bad uuid", func(t *testing.T) {
		service := new(MockLocationService)
		router := testRouter(service, nil, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/not-a-uuid", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "GetByID")
	})

	t.Run("not found", func(t *testing.T) {
		service := new(MockLocationService)
		router := testRouter(service, nil, nil, nil)

		id := uuid.New()
		service.On("GetByID", mock.Anything, id).
			Return(nil, &domain.DomainError{Code: domain.ErrCodeNotFound, Message: "location not found"})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/"+id.String(), nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, domain.ErrCodeNotFound, body.Error)
		assert.Equal(t, "/api/v1/locations/"+id.String(), body.Path)
	})
}

func TestLocationHandler_Delete(t *testing.T) {
	service := new(MockLocationService)
	router := testRouter(service, nil, nil, nil)

	id := uuid.New()
	service.On("Delete", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/locations/"+id.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestLocationHandler_List(t *testing.T) {
	service := new(MockLocationService)
	router := testRouter(service, nil, nil, nil)

	page := domain.NewPage([]domain.LocationDto{{Name: "Paris"}}, 2, 10, 11)
	service.On("List", mock.Anything, ports.LocationFilter{NamePrefix: "Par", Country: "France"}, 2, 10).
		Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations?name=Par&country=France&page=2&pageSize=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestWeatherHandler_GetCurrent(t *testing.T) {
	t.Run("missing query", func(t *testing.T) {
		service := new(MockWeatherService)
		router := testRouter(nil, service, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.ErrCodeValidation, decodeError(t, rec).Error)
		service.AssertNotCalled(t, "FetchCurrent")
	})

	t.Run("success with save flag", func(t *testing.T) {
		service := new(MockWeatherService)
		router := testRouter(nil, service, nil, nil)

		dto := &domain.WeatherDto{LocationName: "London", Country: "UK", TempC: 15.5, Condition: "Partly cloudy"}
		service.On("FetchCurrent", mock.Anything, "London,UK", true).Return(dto, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?q=London,UK&save=true", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got domain.WeatherDto
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, 15.5, got.TempC)
	})

	t.Run("provider exhaustion maps to 503", func(t *testing.T) {
		service := new(MockWeatherService)
		router := testRouter(nil, service, nil, nil)

		service.On("FetchCurrent", mock.Anything, "London,UK", false).
			Return(nil, &domain.DomainError{
				Code:    domain.ErrCodeServiceUnavailable,
				Message: "weather provider unavailable for current-weather of London,UK",
			})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?q=London,UK", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, domain.ErrCodeServiceUnavailable, decodeError(t, rec).Error)
	})

	t.Run("outbound rate limit maps to 429", func(t *testing.T) {
		service := new(MockWeatherService)
		router := testRouter(nil, service, nil, nil)

		service.On("FetchCurrent", mock.Anything, "London,UK", false).
			Return(nil, &domain.DomainError{Code: domain.ErrCodeRateLimited, Message: "outbound rate limit exceeded"})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?q=London,UK", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestWeatherHandler_History(t *testing.T) {
	t.Run("missing range", func(t *testing.T) {
		service := new(MockWeatherService)
		router := testRouter(nil, service, nil, nil)

		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/"+id.String()+"/weather/history?from=2024-05-01", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "History")
	})

	t.Run("bad date format", func(t *testing.T) {
		service := new(MockWeatherService)
		router := testRouter(nil, service, nil, nil)

		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/"+id.String()+"/weather/history?from=05-01-2024&to=2024-05-08", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success with defaults", func(t *testing.T) {
		service := new(MockWeatherService)
		router := testRouter(nil, service, nil, nil)

		id := uuid.New()
		from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
		page := domain.NewPage([]domain.WeatherDto{{TempC: 15.5}}, 1, domain.DefaultPageSize, 1)

		service.On("History", mock.Anything, id, from, to, 1, domain.DefaultPageSize).Return(page, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/"+id.String()+"/weather/history?from=2024-05-01&to=2024-05-08", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})
}

func TestForecastHandler_GetForecast(t *testing.T) {
	t.Run("default horizon", func(t *testing.T) {
		service := new(MockForecastService)
		router := testRouter(nil, nil, service, nil)

		service.On("Fetch", mock.Anything, "London,UK", defaultForecastDays, false).
			Return([]domain.ForecastDto{{ForecastDate: "2024-05-02"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?q=London,UK", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("non-numeric days", func(t *testing.T) {
		service := new(MockForecastService)
		router := testRouter(nil, nil, service, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?q=London,UK&days=week", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "Fetch")
	})

	t.Run("out-of-range days rejected by service", func(t *testing.T) {
		service := new(MockForecastService)
		router := testRouter(nil, nil, service, nil)

		service.On("Fetch", mock.Anything, "London,UK", 15, false).
			Return(nil, domain.NewValidationError("forecast days must be between 1 and 14, got 15"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?q=London,UK&days=15", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.ErrCodeValidation, decodeError(t, rec).Error)
	})
}

func TestForecastHandler_QueryRecords(t *testing.T) {
	service := new(MockForecastService)
	router := testRouter(nil, nil, service, nil)

	id := uuid.New()
	page := domain.NewPage([]domain.ForecastDto{}, 1, domain.DefaultPageSize, 0)

	service.On("Query", mock.Anything, id, (*time.Time)(nil), (*time.Time)(nil), 1, domain.DefaultPageSize).
		Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/"+id.String()+"/forecast/records", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestRefreshHandler_Trigger(t *testing.T) {
	service := new(MockRefreshService)
	router := testRouter(nil, nil, nil, service)

	service.On("RefreshAll", mock.Anything).
		Return(ports.RefreshSummary{Total: 10, Succeeded: 8, Failed: 2}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var summary ports.RefreshSummary
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 8, summary.Succeeded)
}
