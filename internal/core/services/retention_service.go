package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// RetentionConfig tunes the age-based purging of stored records.
type RetentionConfig struct {
	// WeatherMaxAge removes weather records recorded longer ago than this
	WeatherMaxAge time.Duration

	// ForecastKeepDays removes forecast records dated earlier than
	// today minus this many days
	ForecastKeepDays int

	// SweepInterval is the period of the background sweep loop
	SweepInterval time.Duration
}

type retentionService struct {
	weather   ports.WeatherRepository
	forecasts ports.ForecastRepository
	cfg       RetentionConfig
	logger    *zap.Logger
}

// NewRetentionService creates the retention sweep service.
func NewRetentionService(
	weather ports.WeatherRepository,
	forecasts ports.ForecastRepository,
	cfg RetentionConfig,
	logger *zap.Logger,
) ports.RetentionService {
	return &retentionService{
		weather:   weather,
		forecasts: forecasts,
		cfg:       cfg,
		logger:    logger,
	}
}

// Sweep removes weather records past their maximum age and forecast records
// dated before the keep window. Either purge failing aborts the sweep.
func (s *retentionService) Sweep(ctx context.Context) (ports.RetentionSummary, error) {
	var summary ports.RetentionSummary

	now := time.Now().UTC()

	if s.cfg.WeatherMaxAge > 0 {
		removed, err := s.weather.PurgeOlderThan(ctx, now.Add(-s.cfg.WeatherMaxAge))
		if err != nil {
			s.logger.Error("weather retention purge failed", zap.Error(err))
			return summary, err
		}

		summary.WeatherRemoved = removed
	}

	if s.cfg.ForecastKeepDays > 0 {
		cutoff := now.Truncate(24 * time.Hour).AddDate(0, 0, -s.cfg.ForecastKeepDays)

		removed, err := s.forecasts.PurgeBefore(ctx, cutoff)
		if err != nil {
			s.logger.Error("forecast retention purge failed", zap.Error(err))
			return summary, err
		}

		summary.ForecastRemoved = removed
	}

	s.logger.Info("retention sweep completed",
		zap.Int64("weather_removed", summary.WeatherRemoved),
		zap.Int64("forecast_removed", summary.ForecastRemoved))

	return summary, nil
}

// RunRetentionLoop triggers Sweep every interval until ctx is cancelled.
// Intended to run in its own goroutine.
func RunRetentionLoop(ctx context.Context, svc ports.RetentionService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("retention loop stopped")
			return
		case <-ticker.C:
			if _, err := svc.Sweep(ctx); err != nil {
				logger.Error("scheduled retention sweep failed", zap.Error(err))
			}
		}
	}
}
