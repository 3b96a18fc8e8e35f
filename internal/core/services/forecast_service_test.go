package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/mapping"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

func newForecastServiceForTest(provider *MockWeatherProvider, locations *MockLocationRepository, forecasts *MockForecastRepository, cache *MockCacheService) ports.ForecastService {
	logger := zap.NewNop()

	var (
		locRepo      ports.LocationRepository
		forecastRepo ports.ForecastRepository
		cacheSvc     ports.CacheService
	)

	if locations != nil {
		locRepo = locations
	}

	if forecasts != nil {
		forecastRepo = forecasts
	}

	if cache != nil {
		cacheSvc = cache
	}

	return NewForecastService(provider, locRepo, forecastRepo, cacheSvc, mapping.NewMapper(logger), nil, 30*time.Minute, logger)
}

func TestForecastService_Fetch(t *testing.T) {
	t.Run("day count bounds rejected before any call", func(t *testing.T) {
		tests := []struct {
			name string
			days int
		}{
			{name: "zero days", days: 0},
			{name: "negative days", days: -1},
			{name: "over the maximum", days: 15},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				provider := new(MockWeatherProvider)
				service := newForecastServiceForTest(provider, nil, nil, nil)

				dtos, err := service.Fetch(context.Background(), "London,UK", tt.days, false)

				assert.Nil(t, dtos)
				assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
				provider.AssertNotCalled(t, "FetchForecast")
			})
		}
	})

	t.Run("successful fetch without save", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		cache := new(MockCacheService)
		service := newForecastServiceForTest(provider, nil, nil, cache)

		cache.On("Get", mock.Anything, "weather:forecast:london,uk:2").
			Return(nil, assert.AnError)
		cache.On("Set", mock.Anything, "weather:forecast:london,uk:2", mock.Anything, 30*time.Minute).
			Return(nil)
		provider.On("FetchForecast", mock.Anything, "London,UK", 2).
			Return(sampleForecastResponse(), nil)

		dtos, err := service.Fetch(context.Background(), "London,UK", 2, false)

		assert.NoError(t, err)
		assert.Len(t, dtos, 2)
		assert.Equal(t, "2024-05-02", dtos[0].ForecastDate)
		assert.Equal(t, 18.0, dtos[0].MaxTempC)
		assert.NotNil(t, dtos[0].Sunrise)
		assert.Equal(t, "05:31 AM", *dtos[0].Sunrise)

		// Second day has no astro block.
		assert.Nil(t, dtos[1].Sunrise)
		assert.Nil(t, dtos[1].Sunset)
		assert.Equal(t, 85, dtos[1].ChanceOfRain)
	})

	t.Run("save upserts one record per day", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		locations := new(MockLocationRepository)
		forecasts := new(MockForecastRepository)
		service := newForecastServiceForTest(provider, locations, forecasts, nil)

		loc, err := domain.NewLocation("London", "UK", "", domain.Coordinates{Latitude: 51.52, Longitude: -0.11})
		assert.NoError(t, err)

		provider.On("FetchForecast", mock.Anything, "London,UK", 2).
			Return(sampleForecastResponse(), nil)
		locations.On("GetByNameAndCountry", mock.Anything, "London", "UK").
			Return(loc, nil)
		forecasts.On("Upsert", mock.Anything, mock.MatchedBy(func(rec *domain.ForecastRecord) bool {
			return rec.LocationID == loc.ID && rec.ID != uuid.Nil
		})).Return(nil).Times(2)

		dtos, err := service.Fetch(context.Background(), "London,UK", 2, true)

		assert.NoError(t, err)
		assert.Len(t, dtos, 2)
		forecasts.AssertExpectations(t)
	})

	t.Run("save without persistence is rejected", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		service := newForecastServiceForTest(provider, nil, nil, nil)

		provider.On("FetchForecast", mock.Anything, "London,UK", 3).
			Return(sampleForecastResponse(), nil)

		dtos, err := service.Fetch(context.Background(), "London,UK", 3, true)

		assert.Nil(t, dtos)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidRequest))
	})
}

func TestForecastService_FetchForLocation(t *testing.T) {
	t.Run("unknown location id", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		locations := new(MockLocationRepository)
		forecasts := new(MockForecastRepository)
		service := newForecastServiceForTest(provider, locations, forecasts, nil)

		id := uuid.New()
		locations.On("GetByID", mock.Anything, id).Return(nil, ports.ErrNotFound)

		dtos, err := service.FetchForLocation(context.Background(), id, 3, false)

		assert.Nil(t, dtos)
		assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
	})

	t.Run("uses stored location query", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		locations := new(MockLocationRepository)
		forecasts := new(MockForecastRepository)
		service := newForecastServiceForTest(provider, locations, forecasts, nil)

		loc, err := domain.NewLocation("London", "UK", "", domain.Coordinates{Latitude: 51.52, Longitude: -0.11})
		assert.NoError(t, err)

		locations.On("GetByID", mock.Anything, loc.ID).Return(loc, nil)
		provider.On("FetchForecast", mock.Anything, "London,UK", 2).
			Return(sampleForecastResponse(), nil)

		dtos, err := service.FetchForLocation(context.Background(), loc.ID, 2, false)

		assert.NoError(t, err)
		assert.Len(t, dtos, 2)
		assert.Equal(t, loc.ID, dtos[0].LocationID)
	})
}

func TestForecastService_Query(t *testing.T) {
	t.Run("requires persistence", func(t *testing.T) {
		service := newForecastServiceForTest(new(MockWeatherProvider), nil, nil, nil)

		page, err := service.Query(context.Background(), uuid.New(), nil, nil, 1, 20)

		assert.Nil(t, page)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidRequest))
	})

	t.Run("open-ended range is allowed", func(t *testing.T) {
		locations := new(MockLocationRepository)
		forecasts := new(MockForecastRepository)
		service := newForecastServiceForTest(new(MockWeatherProvider), locations, forecasts, nil)

		loc, err := domain.NewLocation("London", "UK", "", domain.Coordinates{Latitude: 51.52, Longitude: -0.11})
		assert.NoError(t, err)

		date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
		records := []domain.ForecastRecord{
			{
				ID:           uuid.New(),
				LocationID:   loc.ID,
				Location:     loc,
				ForecastDate: date,
				MaxTempC:     18,
				Condition:    "Sunny",
			},
		}

		locations.On("GetByID", mock.Anything, loc.ID).Return(loc, nil)
		forecasts.On("Query", mock.Anything, loc.ID, (*time.Time)(nil), (*time.Time)(nil), 1, 20).
			Return(records, int64(1), nil)

		page, err := service.Query(context.Background(), loc.ID, nil, nil, 1, 20)

		assert.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, "2024-05-02", page.Items[0].ForecastDate)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		locations := new(MockLocationRepository)
		forecasts := new(MockForecastRepository)
		service := newForecastServiceForTest(new(MockWeatherProvider), locations, forecasts, nil)

		from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, -3)

		page, err := service.Query(context.Background(), uuid.New(), &from, &to, 1, 20)

		assert.Nil(t, page)
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})
}
