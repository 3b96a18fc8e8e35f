package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeatherRecord is a snapshot of current conditions at a point in time for
// one location. Records are immutable after creation and purged by an
// age-based retention sweep.
type WeatherRecord struct {
	// ID uniquely identifies this record; the zero uuid marks an unsaved record
	ID uuid.UUID

	// LocationID references the owning location; the zero uuid marks an
	// unsaved record observed for an ad-hoc query
	LocationID uuid.UUID

	// Location is the resolved owning location. It must be present wherever
	// a record is surfaced as output; absence there is a contract violation.
	Location *Location

	TempC      float64
	FeelsLikeC float64
	Humidity   int
	WindKph    float64
	WindDegree int
	Condition  string
	PressureMb float64
	PrecipMm   float64
	Cloud      int
	UV         float64

	// RecordedAt is the provider's observation time
	RecordedAt time.Time

	// CreatedAt records when the snapshot was stored
	CreatedAt time.Time
}

// ForecastRecord is a predicted daily aggregate for one location.
// Records are unique per (LocationID, ForecastDate) and upserted on refetch.
type ForecastRecord struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Location   *Location

	// ForecastDate is the day the prediction applies to, truncated to date
	ForecastDate time.Time

	MaxTempC      float64
	MinTempC      float64
	AvgTempC      float64
	MaxWindKph    float64
	AvgHumidity   float64
	Condition     string
	TotalPrecipMm float64
	ChanceOfRain  int
	UV            float64

	// Sunrise and Sunset are nil when the provider omits astronomy data
	Sunrise *string
	Sunset  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
