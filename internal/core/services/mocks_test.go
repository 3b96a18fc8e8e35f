package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// MockWeatherProvider is a mock implementation of the WeatherProvider interface.
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) FetchCurrent(ctx context.Context, query string) (*ports.CurrentWeatherResponse, error) {
	args := m.Called(ctx, query)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*ports.CurrentWeatherResponse), args.Error(1)
}

func (m *MockWeatherProvider) FetchForecast(ctx context.Context, query string, days int) (*ports.ForecastResponse, error) {
	args := m.Called(ctx, query, days)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*ports.ForecastResponse), args.Error(1)
}

// MockLocationRepository is a mock implementation of the LocationRepository interface.
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, loc *domain.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetByNameAndCountry(ctx context.Context, name, country string) (*domain.Location, error) {
	args := m.Called(ctx, name, country)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, loc *domain.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationRepository) List(ctx context.Context, filter ports.LocationFilter, page, pageSize int) ([]domain.Location, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)

	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}

	return args.Get(0).([]domain.Location), args.Get(1).(int64), args.Error(2)
}

func (m *MockLocationRepository) ListAll(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Location), args.Error(1)
}

// MockWeatherRepository is a mock implementation of the WeatherRepository interface.
type MockWeatherRepository struct {
	mock.Mock
}

func (m *MockWeatherRepository) Save(ctx context.Context, rec *domain.WeatherRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockWeatherRepository) History(ctx context.Context, locationID uuid.UUID, from, to time.Time, page, pageSize int) ([]domain.WeatherRecord, int64, error) {
	args := m.Called(ctx, locationID, from, to, page, pageSize)

	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}

	return args.Get(0).([]domain.WeatherRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockWeatherRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockForecastRepository is a mock implementation of the ForecastRepository interface.
type MockForecastRepository struct {
	mock.Mock
}

func (m *MockForecastRepository) Upsert(ctx context.Context, rec *domain.ForecastRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockForecastRepository) Query(ctx context.Context, locationID uuid.UUID, from, to *time.Time, page, pageSize int) ([]domain.ForecastRecord, int64, error) {
	args := m.Called(ctx, locationID, from, to, page, pageSize)

	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}

	return args.Get(0).([]domain.ForecastRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockForecastRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheService is a mock implementation of the CacheService interface.
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// sampleCurrentResponse builds a provider response for London with the
// conditions used across the fetch tests.
func sampleCurrentResponse() *ports.CurrentWeatherResponse {
	return &ports.CurrentWeatherResponse{
		Location: &ports.ProviderLocation{
			Name:      "London",
			Country:   "UK",
			Region:    "City of London",
			Latitude:  51.52,
			Longitude: -0.11,
		},
		Current: &ports.CurrentConditions{
			TempC:       15.5,
			FeelsLikeC:  14.0,
			Humidity:    72,
			WindKph:     13.0,
			WindDegree:  250,
			Condition:   "Partly cloudy",
			PressureMb:  1012,
			PrecipMm:    0.1,
			Cloud:       50,
			UV:          4,
			LastUpdated: "2024-05-01 12:30",
		},
	}
}

// sampleForecastResponse builds a two-day provider forecast for London.
func sampleForecastResponse() *ports.ForecastResponse {
	return &ports.ForecastResponse{
		Location: &ports.ProviderLocation{
			Name:      "London",
			Country:   "UK",
			Latitude:  51.52,
			Longitude: -0.11,
		},
		Days: []ports.ForecastDay{
			{
				Date:          "2024-05-02",
				MaxTempC:      18,
				MinTempC:      9,
				AvgTempC:      13.5,
				MaxWindKph:    22,
				AvgHumidity:   65,
				Condition:     "Sunny",
				TotalPrecipMm: 0,
				ChanceOfRain:  5,
				UV:            5,
				Astro:         &ports.ForecastAstro{Sunrise: "05:31 AM", Sunset: "08:22 PM"},
			},
			{
				Date:          "2024-05-03",
				MaxTempC:      16,
				MinTempC:      10,
				AvgTempC:      12.8,
				MaxWindKph:    30,
				AvgHumidity:   80,
				Condition:     "Light rain",
				TotalPrecipMm: 4.2,
				ChanceOfRain:  85,
				UV:            3,
			},
		},
	}
}
