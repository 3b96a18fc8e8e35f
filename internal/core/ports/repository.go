package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated,
// e.g. the (name, country) pair of locations.
var ErrDuplicate = errors.New("duplicate entry")

// LocationFilter narrows location listings.
type LocationFilter struct {
	// NamePrefix filters by case-insensitive name prefix when non-empty
	NamePrefix string

	// Country filters by exact country when non-empty
	Country string
}

// LocationRepository persists locations.
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	GetByNameAndCountry(ctx context.Context, name, country string) (*domain.Location, error)
	Update(ctx context.Context, loc *domain.Location) error

	// Delete removes the location; dependent weather and forecast records
	// are removed by the schema's cascade rule.
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, filter LocationFilter, page, pageSize int) ([]domain.Location, int64, error)
	ListAll(ctx context.Context) ([]domain.Location, error)
}

// WeatherRepository persists immutable weather snapshots.
type WeatherRepository interface {
	Save(ctx context.Context, rec *domain.WeatherRecord) error

	// History returns records for a location within [from, to], newest first,
	// with the resolved location attached to every record.
	History(ctx context.Context, locationID uuid.UUID, from, to time.Time, page, pageSize int) ([]domain.WeatherRecord, int64, error)

	// PurgeOlderThan removes records recorded before the cutoff and reports
	// how many rows were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ForecastRepository persists daily forecast aggregates.
type ForecastRepository interface {
	// Upsert inserts or replaces the record keyed by (location, forecastDate).
	Upsert(ctx context.Context, rec *domain.ForecastRecord) error

	// Query returns records for a location, optionally bounded by a date
	// range, ordered by forecast date, with the location attached.
	Query(ctx context.Context, locationID uuid.UUID, from, to *time.Time, page, pageSize int) ([]domain.ForecastRecord, int64, error)

	// PurgeBefore removes records whose forecast date precedes the cutoff.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
