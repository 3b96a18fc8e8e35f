// Package domain contains the core business entities and domain logic for the weather service.
// This package defines the fundamental types and business rules that are independent
// of external frameworks and infrastructure concerns.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Coordinates represent a geographic location using latitude and longitude.
// This follows the standard geographic coordinate system used worldwide.
type Coordinates struct {
	// Latitude specifies the north-south position (-90 to 90 degrees)
	Latitude float64

	// Longitude specifies the east-west position (-180 to 180 degrees)
	Longitude float64
}

// Validate checks if the coordinates are within valid geographic bounds.
// Latitude must be between -90 and 90 degrees (south to north poles).
// Longitude must be between -180 and 180 degrees (international date line).
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %f", c.Latitude)
	}

	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %f", c.Longitude)
	}

	return nil
}

// Location is the root entity of the service. Weather and forecast records
// are owned by exactly one location and are removed with it.
// The (Name, Country) pair is unique across all locations.
type Location struct {
	// ID uniquely identifies the location
	ID uuid.UUID

	// Name is the display name, e.g. a city name
	Name string

	// Country the location belongs to
	Country string

	// Region is an optional administrative area
	Region string

	// Coordinates specify the geographic position
	Coordinates Coordinates

	// CreatedAt records when the location was first stored
	CreatedAt time.Time

	// UpdatedAt records the last modification time
	UpdatedAt time.Time
}

// NewLocation constructs a location with a fresh id and audit timestamps.
// Timestamps are always set here rather than by a persistence hook so the
// auditing contract holds for every construction path.
func NewLocation(name, country, region string, coords Coordinates) (*Location, error) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)

	if name == "" {
		return nil, fmt.Errorf("location name must not be empty")
	}

	if country == "" {
		return nil, fmt.Errorf("location country must not be empty")
	}

	if err := coords.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Location{
		ID:          uuid.New(),
		Name:        name,
		Country:     country,
		Region:      strings.TrimSpace(region),
		Coordinates: coords,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update applies the given fields to the location and bumps UpdatedAt.
// Empty name or country and out-of-bounds coordinates are rejected.
func (l *Location) Update(name, country, region string, coords Coordinates) error {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)

	if name == "" || country == "" {
		return fmt.Errorf("location name and country must not be empty")
	}

	if err := coords.Validate(); err != nil {
		return err
	}

	l.Name = name
	l.Country = country
	l.Region = strings.TrimSpace(region)
	l.Coordinates = coords
	l.UpdatedAt = time.Now().UTC()

	return nil
}

// QueryString returns the free-text query sent to the weather provider
// for this location.
func (l *Location) QueryString() string {
	return l.Name + "," + l.Country
}
