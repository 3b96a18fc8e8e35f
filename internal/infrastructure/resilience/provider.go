package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// Operation names for the two provider calls. Each owns an independent
// policy instance.
const (
	OpCurrentWeather = "current-weather"
	OpForecast       = "forecast"
)

// CallMetrics receives per-call measurements. Implemented by the
// observability layer; a nil CallMetrics is a no-op.
type CallMetrics interface {
	RecordProviderCall(ctx context.Context, operation string, duration time.Duration, err error)
}

// Provider decorates a raw weather provider with per-operation resilience
// policies. It is the only path service code takes to the network.
type Provider struct {
	inner    ports.WeatherProvider
	current  *Policy
	forecast *Policy
	metrics  CallMetrics
	logger   *zap.Logger
}

// NewProvider wraps inner with the given per-operation policies.
//
// Parameters:
//   - inner: Raw provider client
//   - current: Policy guarding current-weather fetches
//   - forecast: Policy guarding forecast fetches
//   - metrics: Sink for call measurements, may be nil
//   - logger: Zap logger
//
// Returns:
//   - *Provider: Resilience-wrapped provider
func NewProvider(inner ports.WeatherProvider, current, forecast *Policy, metrics CallMetrics, logger *zap.Logger) *Provider {
	return &Provider{
		inner:    inner,
		current:  current,
		forecast: forecast,
		metrics:  metrics,
		logger:   logger,
	}
}

// FetchCurrent retrieves current conditions under the current-weather policy.
func (p *Provider) FetchCurrent(ctx context.Context, query string) (*ports.CurrentWeatherResponse, error) {
	var resp *ports.CurrentWeatherResponse

	start := time.Now()

	err := p.current.Execute(ctx, query, func(ctx context.Context) error {
		var callErr error
		resp, callErr = p.inner.FetchCurrent(ctx, query)

		return callErr
	})

	if p.metrics != nil {
		p.metrics.RecordProviderCall(ctx, OpCurrentWeather, time.Since(start), err)
	}

	if err != nil {
		return nil, err
	}

	return resp, nil
}

// FetchForecast retrieves a daily forecast under the forecast policy.
func (p *Provider) FetchForecast(ctx context.Context, query string, days int) (*ports.ForecastResponse, error) {
	var resp *ports.ForecastResponse

	start := time.Now()

	err := p.forecast.Execute(ctx, query, func(ctx context.Context) error {
		var callErr error
		resp, callErr = p.inner.FetchForecast(ctx, query, days)

		return callErr
	})

	if p.metrics != nil {
		p.metrics.RecordProviderCall(ctx, OpForecast, time.Since(start), err)
	}

	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Stats exposes breaker counters per operation for the stats endpoint.
func (p *Provider) Stats() map[string]interface{} {
	return map[string]interface{}{
		OpCurrentWeather: p.current.BreakerStats(),
		OpForecast:       p.forecast.BreakerStats(),
	}
}
