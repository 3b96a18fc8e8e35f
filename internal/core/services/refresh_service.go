package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/batch"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// RefreshConfig tunes the batch refresh of stored locations.
type RefreshConfig struct {
	// ChunkSize shapes the aggregator fan-out; defaults to batch.DefaultChunkSize
	ChunkSize int

	// ForecastDays is the horizon refreshed alongside current conditions;
	// zero skips forecast refresh
	ForecastDays int

	// Interval is the period of the background refresh loop
	Interval time.Duration
}

type refreshService struct {
	locations  ports.LocationRepository
	weather    ports.WeatherService
	forecasts  ports.ForecastService
	aggregator *batch.Aggregator[domain.Location, string]
	cfg        RefreshConfig
	logger     *zap.Logger
}

// NewRefreshService creates the batch refresh service. Each refreshed
// location runs the full fetch-and-persist pipeline for current conditions
// and, when configured, the forecast horizon.
func NewRefreshService(
	locations ports.LocationRepository,
	weather ports.WeatherService,
	forecasts ports.ForecastService,
	metrics batch.Metrics,
	cfg RefreshConfig,
	logger *zap.Logger,
) (ports.RefreshService, error) {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = batch.DefaultChunkSize
	}

	aggregator, err := batch.NewAggregator[domain.Location, string](chunkSize, metrics, logger)
	if err != nil {
		return nil, err
	}

	return &refreshService{
		locations:  locations,
		weather:    weather,
		forecasts:  forecasts,
		aggregator: aggregator,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// RefreshAll refetches and persists data for every stored location.
// Per-location failures are swallowed by the aggregator and only counted.
func (s *refreshService) RefreshAll(ctx context.Context) (ports.RefreshSummary, error) {
	locations, err := s.locations.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list locations for refresh", zap.Error(err))
		return ports.RefreshSummary{}, err
	}

	refreshed := s.aggregator.Aggregate(ctx, locations, func(ctx context.Context, loc domain.Location) (string, error) {
		if _, err := s.weather.FetchCurrentForLocation(ctx, loc.ID, true); err != nil {
			return "", err
		}

		if s.cfg.ForecastDays > 0 {
			if _, err := s.forecasts.FetchForLocation(ctx, loc.ID, s.cfg.ForecastDays, true); err != nil {
				return "", err
			}
		}

		return loc.ID.String(), nil
	})

	summary := ports.RefreshSummary{
		Total:     len(locations),
		Succeeded: len(refreshed),
		Failed:    len(locations) - len(refreshed),
	}

	s.logger.Info("refresh run completed",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

// RunRefreshLoop triggers RefreshAll every interval until ctx is cancelled.
// Intended to run in its own goroutine.
func RunRefreshLoop(ctx context.Context, svc ports.RefreshService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("refresh loop stopped")
			return
		case <-ticker.C:
			if _, err := svc.RefreshAll(ctx); err != nil {
				logger.Error("scheduled refresh failed", zap.Error(err))
			}
		}
	}
}
