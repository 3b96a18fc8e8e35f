// Package ports defines the interfaces between the service core and its
// adapters. Primary adapters (REST) depend on the service interfaces,
// secondary adapters (provider client, repositories, cache) implement them.
package ports

import "context"

// ProviderLocation is the location metadata block of a provider response.
type ProviderLocation struct {
	Name      string
	Country   string
	Region    string
	Latitude  float64
	Longitude float64
}

// CurrentConditions is the "current" payload of a provider response.
type CurrentConditions struct {
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

	// LastUpdated is the provider-local observation time, "2006-01-02 15:04"
	LastUpdated string
}

// ForecastAstro carries sunrise/sunset strings for one forecast day.
type ForecastAstro struct {
	Sunrise string
	Sunset  string
}

// ForecastDay is one daily aggregate of a provider forecast response.
type ForecastDay struct {
	Date          string
	MaxTempC      float64
	MinTempC      float64
	AvgTempC      float64
	MaxWindKph    float64
	AvgHumidity   float64
	Condition     string
	TotalPrecipMm float64
	ChanceOfRain  int
	UV            float64

	// Astro is nil when the provider omits astronomy data
	Astro *ForecastAstro
}

// CurrentWeatherResponse is a provider current-conditions response.
// Current is nil when the provider returned no payload.
type CurrentWeatherResponse struct {
	Location *ProviderLocation
	Current  *CurrentConditions
}

// ForecastResponse is a provider N-day forecast response.
// Days is nil when the provider returned no forecast payload.
type ForecastResponse struct {
	Location *ProviderLocation
	Days     []ForecastDay
}

// WeatherProvider is the outbound weather data source. Implementations own
// all resilience state (breaker, retry, rate limiter); callers must never
// reach the transport directly.
type WeatherProvider interface {
	// FetchCurrent retrieves current conditions for a free-text location query.
	FetchCurrent(ctx context.Context, query string) (*CurrentWeatherResponse, error)

	// FetchForecast retrieves a days-long daily forecast. days must already
	// be validated to [1,14] by the caller-facing service.
	FetchForecast(ctx context.Context, query string, days int) (*ForecastResponse, error)
}
