package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationDto is the outward projection of a location.
type LocationDto struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Region    string    `json:"region,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WeatherDto is the denormalized read-only projection of a weather record.
// For unsaved records ID and LocationID hold the zero uuid and the resolved
// location name carries the identity instead.
type WeatherDto struct {
	ID           uuid.UUID `json:"id,omitempty"`
	LocationID   uuid.UUID `json:"locationId,omitempty"`
	LocationName string    `json:"locationName"`
	Country      string    `json:"country"`
	TempC        float64   `json:"tempC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	Humidity     int       `json:"humidity"`
	WindKph      float64   `json:"windKph"`
	WindDegree   int       `json:"windDegree"`
	Condition    string    `json:"condition"`
	PressureMb   float64   `json:"pressureMb"`
	PrecipMm     float64   `json:"precipMm"`
	Cloud        int       `json:"cloud"`
	UV           float64   `json:"uv"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// ForecastDto is the denormalized read-only projection of a forecast record.
type ForecastDto struct {
	ID            uuid.UUID `json:"id,omitempty"`
	LocationID    uuid.UUID `json:"locationId,omitempty"`
	LocationName  string    `json:"locationName"`
	Country       string    `json:"country"`
	ForecastDate  string    `json:"forecastDate"`
	MaxTempC      float64   `json:"maxTempC"`
	MinTempC      float64   `json:"minTempC"`
	AvgTempC      float64   `json:"avgTempC"`
	MaxWindKph    float64   `json:"maxWindKph"`
	AvgHumidity   float64   `json:"avgHumidity"`
	Condition     string    `json:"condition"`
	TotalPrecipMm float64   `json:"totalPrecipMm"`
	ChanceOfRain  int       `json:"chanceOfRain"`
	UV            float64   `json:"uv"`
	Sunrise       *string   `json:"sunrise,omitempty"`
	Sunset        *string   `json:"sunset,omitempty"`
}

// Page is a paginated slice of results together with paging metadata.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a page and derives TotalPages from the item count.
func NewPage[T any](items []T, page, pageSize int, total int64) *Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
