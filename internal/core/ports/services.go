package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
)

// LocationRequest carries the writable fields of a location for create and
// update operations.
type LocationRequest struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Region    string  `json:"region,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationService manages the location CRUD surface.
type LocationService interface {
	Create(ctx context.Context, req LocationRequest) (*domain.LocationDto, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LocationDto, error)
	Update(ctx context.Context, id uuid.UUID, req LocationRequest) (*domain.LocationDto, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter LocationFilter, page, pageSize int) (*domain.Page[domain.LocationDto], error)
	ListAll(ctx context.Context) ([]domain.LocationDto, error)
}

// WeatherService fetches current conditions and serves stored history.
type WeatherService interface {
	// FetchCurrent retrieves current conditions for a free-text query.
	// With save set the snapshot is persisted, creating the location
	// implicitly when it is not stored yet.
	FetchCurrent(ctx context.Context, query string, save bool) (*domain.WeatherDto, error)

	// FetchCurrentForLocation retrieves current conditions for a stored location.
	FetchCurrentForLocation(ctx context.Context, id uuid.UUID, save bool) (*domain.WeatherDto, error)

	// History returns persisted snapshots for a location within [from, to].
	History(ctx context.Context, locationID uuid.UUID, from, to time.Time, page, pageSize int) (*domain.Page[domain.WeatherDto], error)
}

// ForecastService fetches daily forecasts and serves stored forecast records.
type ForecastService interface {
	Fetch(ctx context.Context, query string, days int, save bool) ([]domain.ForecastDto, error)
	FetchForLocation(ctx context.Context, id uuid.UUID, days int, save bool) ([]domain.ForecastDto, error)

	// Query returns stored forecast records, optionally bounded by date range.
	Query(ctx context.Context, locationID uuid.UUID, from, to *time.Time, page, pageSize int) (*domain.Page[domain.ForecastDto], error)
}

// RefreshSummary reports the outcome of one batch refresh run.
type RefreshSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RefreshService refreshes stored data for every location in batches.
type RefreshService interface {
	RefreshAll(ctx context.Context) (RefreshSummary, error)
}

// RetentionSummary reports how many rows a retention sweep removed.
type RetentionSummary struct {
	WeatherRemoved  int64 `json:"weatherRemoved"`
	ForecastRemoved int64 `json:"forecastRemoved"`
}

// RetentionService purges aged weather and forecast records.
type RetentionService interface {
	Sweep(ctx context.Context) (RetentionSummary, error)
}
