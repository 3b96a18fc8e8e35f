// Package weatherapi implements a client for the WeatherAPI.com HTTP API.
// This package serves as a secondary adapter, translating provider JSON into
// the neutral response shapes of the ports package and classifying failures
// by HTTP status band.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// Client issues current-conditions and forecast requests against a
// WeatherAPI.com compatible endpoint. It performs no retries and holds no
// resilience state; that belongs to the wrapper that owns it.
type Client struct {
	// baseURL is the provider endpoint, typically https://api.weatherapi.com/v1
	baseURL string

	// apiKey authenticates every request
	apiKey string

	// httpClient handles HTTP communication with timeouts
	httpClient *http.Client

	// logger records API interactions and errors
	logger *zap.Logger
}

// NewClient creates a provider client.
//
// Parameters:
//   - baseURL: Provider base URL without trailing slash
//   - apiKey: Provider API key
//   - httpClient: HTTP client with timeout configuration
//   - logger: Zap logger for API interaction logging
//
// Returns:
//   - *Client: Configured provider client
func NewClient(baseURL, apiKey string, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// currentResponse mirrors the provider's current-conditions JSON.
type currentResponse struct {
	Location *locationBlock `json:"location"`
	Current  *struct {
		TempC      float64 `json:"temp_c"`
		FeelsLikeC float64 `json:"feelslike_c"`
		Humidity   int     `json:"humidity"`
		WindKph    float64 `json:"wind_kph"`
		WindDegree int     `json:"wind_degree"`
		PressureMb float64 `json:"pressure_mb"`
		PrecipMm   float64 `json:"precip_mm"`
		Cloud      int     `json:"cloud"`
		UV         float64 `json:"uv"`
		Condition  struct {
			Text string `json:"text"`
			Code int    `json:"code"`
		} `json:"condition"`
		LastUpdated string `json:"last_updated"`
	} `json:"current"`
}

// forecastResponse mirrors the provider's N-day forecast JSON.
type forecastResponse struct {
	Location *locationBlock `json:"location"`
	Forecast *struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC          float64 `json:"maxtemp_c"`
				MinTempC          float64 `json:"mintemp_c"`
				AvgTempC          float64 `json:"avgtemp_c"`
				MaxWindKph        float64 `json:"maxwind_kph"`
				AvgHumidity       float64 `json:"avghumidity"`
				TotalPrecipMm     float64 `json:"totalprecip_mm"`
				DailyChanceOfRain int     `json:"daily_chance_of_rain"`
				UV                float64 `json:"uv"`
				Condition         struct {
					Text string `json:"text"`
					Code int    `json:"code"`
				} `json:"condition"`
			} `json:"day"`
			Astro *struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// locationBlock mirrors the provider's location metadata.
type locationBlock struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// FetchCurrent retrieves current conditions for a free-text location query.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - query: Free-text location, e.g. "London,United Kingdom"
//
// Returns:
//   - *ports.CurrentWeatherResponse: Provider response in neutral shape
//   - error: DomainError classified by status band, or transport failure
//     wrapped with its cause
func (c *Client) FetchCurrent(ctx context.Context, query string) (*ports.CurrentWeatherResponse, error) {
	body, err := c.get(ctx, "/current.json", url.Values{"q": {query}})

	if err != nil {
		return nil, err
	}

	var resp currentResponse

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeUpstreamServer,
			Message: "failed to decode current weather response",
			Cause:   err,
		}
	}

	out := &ports.CurrentWeatherResponse{Location: mapLocation(resp.Location)}

	if resp.Current != nil {
		out.Current = &ports.CurrentConditions{
			TempC:       resp.Current.TempC,
			FeelsLikeC:  resp.Current.FeelsLikeC,
			Humidity:    resp.Current.Humidity,
			WindKph:     resp.Current.WindKph,
			WindDegree:  resp.Current.WindDegree,
			Condition:   resp.Current.Condition.Text,
			PressureMb:  resp.Current.PressureMb,
			PrecipMm:    resp.Current.PrecipMm,
			Cloud:       resp.Current.Cloud,
			UV:          resp.Current.UV,
			LastUpdated: resp.Current.LastUpdated,
		}
	}

	return out, nil
}

// FetchForecast retrieves a daily forecast for the given number of days.
// The day count is validated before any network attempt.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - query: Free-text location query
//   - days: Forecast length in days, must lie in [1,14]
//
// Returns:
//   - *ports.ForecastResponse: Provider response in neutral shape
//   - error: Validation error, or DomainError classified by status band
func (c *Client) FetchForecast(ctx context.Context, query string, days int) (*ports.ForecastResponse, error) {
	if err := domain.ValidateForecastDays(days); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/forecast.json", url.Values{
		"q":    {query},
		"days": {fmt.Sprintf("%d", days)},
	})

	if err != nil {
		return nil, err
	}

	var resp forecastResponse

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeUpstreamServer,
			Message: "failed to decode forecast response",
			Cause:   err,
		}
	}

	out := &ports.ForecastResponse{Location: mapLocation(resp.Location)}

	if resp.Forecast != nil {
		out.Days = make([]ports.ForecastDay, 0, len(resp.Forecast.ForecastDay))

		for _, fd := range resp.Forecast.ForecastDay {
			day := ports.ForecastDay{
				Date:          fd.Date,
				MaxTempC:      fd.Day.MaxTempC,
				MinTempC:      fd.Day.MinTempC,
				AvgTempC:      fd.Day.AvgTempC,
				MaxWindKph:    fd.Day.MaxWindKph,
				AvgHumidity:   fd.Day.AvgHumidity,
				Condition:     fd.Day.Condition.Text,
				TotalPrecipMm: fd.Day.TotalPrecipMm,
				ChanceOfRain:  fd.Day.DailyChanceOfRain,
				UV:            fd.Day.UV,
			}

			if fd.Astro != nil {
				day.Astro = &ports.ForecastAstro{
					Sunrise: fd.Astro.Sunrise,
					Sunset:  fd.Astro.Sunset,
				}
			}

			out.Days = append(out.Days, day)
		}
	}

	return out, nil
}

// get issues one GET request and classifies the response by status band.
// 4xx means the request itself was bad and must not be retried; 5xx and
// transport failures are transient; an empty body on success is its own
// failure class so the caller can retry it.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)

	if err != nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeUpstreamServer,
			Message: "failed to build provider request",
			Cause:   err,
		}
	}

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeUpstreamServer,
			Message: "provider request failed",
			Cause:   err,
		}
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error("failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeUpstreamServer,
			Message: "failed to read provider response",
			Cause:   err,
		}
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.logger.Warn("provider rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))

		return nil, &domain.DomainError{
			Code:    domain.ErrCodeInvalidRequest,
			Message: fmt.Sprintf("provider rejected request with status %d", resp.StatusCode),
		}

	case resp.StatusCode >= 500:
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeUpstreamServer,
			Message: fmt.Sprintf("provider returned status %d", resp.StatusCode),
		}
	}

	if len(body) == 0 {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeEmptyResponse,
			Message: "provider returned an empty body on a successful status",
		}
	}

	return body, nil
}

// mapLocation converts the provider location block, tolerating its absence.
func mapLocation(loc *locationBlock) *ports.ProviderLocation {
	if loc == nil {
		return nil
	}

	return &ports.ProviderLocation{
		Name:      loc.Name,
		Country:   loc.Country,
		Region:    loc.Region,
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
	}
}
