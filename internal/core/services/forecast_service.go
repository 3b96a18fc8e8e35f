package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/mapping"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

type forecastService struct {
	provider  ports.WeatherProvider
	locations ports.LocationRepository
	forecasts ports.ForecastRepository
	cache     ports.CacheService
	mapper    *mapping.Mapper
	metrics   Metrics
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewForecastService creates the forecast service. locations and forecasts
// may be nil when persistence is disabled.
func NewForecastService(
	provider ports.WeatherProvider,
	locations ports.LocationRepository,
	forecasts ports.ForecastRepository,
	cache ports.CacheService,
	mapper *mapping.Mapper,
	metrics Metrics,
	cacheTTL time.Duration,
	logger *zap.Logger,
) ports.ForecastService {
	return &forecastService{
		provider:  provider,
		locations: locations,
		forecasts: forecasts,
		cache:     cache,
		mapper:    mapper,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (s *forecastService) Fetch(ctx context.Context, query string, days int, save bool) ([]domain.ForecastDto, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query must not be empty")
	}

	return s.fetch(ctx, query, days, save, nil)
}

func (s *forecastService) FetchForLocation(ctx context.Context, id uuid.UUID, days int, save bool) ([]domain.ForecastDto, error) {
	if s.locations == nil {
		return nil, errPersistenceDisabled("location lookup")
	}

	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, locationNotFoundOr(err, id, s.logger)
	}

	return s.fetch(ctx, loc.QueryString(), days, save, loc)
}

func (s *forecastService) fetch(ctx context.Context, query string, days int, save bool, known *domain.Location) ([]domain.ForecastDto, error) {
	if err := domain.ValidateForecastDays(days); err != nil {
		return nil, err
	}

	key := forecastCacheKey(query, days)

	if !save {
		if dtos := s.cached(ctx, key); dtos != nil {
			return dtos, nil
		}
	}

	resp, err := s.provider.FetchForecast(ctx, query, days)
	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeEmptyResponse,
			Message: "provider returned no forecast for " + query,
		}
	}

	records := s.mapper.ForecastRecordsFromResponse(resp)

	loc := known
	if loc == nil {
		if loc, err = s.resolveForecastLocation(ctx, resp.Location, save); err != nil {
			return nil, err
		}
	}

	if save {
		if s.forecasts == nil || s.locations == nil {
			return nil, errPersistenceDisabled("saving forecast records")
		}

		for i := range records {
			records[i].ID = uuid.New()
			records[i].LocationID = loc.ID
			records[i].Location = loc

			if err := s.forecasts.Upsert(ctx, &records[i]); err != nil {
				s.logger.Error("failed to upsert forecast record",
					zap.String("location_id", loc.ID.String()),
					zap.Time("forecast_date", records[i].ForecastDate),
					zap.Error(err))

				return nil, err
			}
		}

		if s.metrics != nil {
			s.metrics.RecordRecordsSaved(ctx, "forecast", len(records))
		}
	} else {
		for i := range records {
			records[i].LocationID = loc.ID
			records[i].Location = loc
		}
	}

	dtos := make([]domain.ForecastDto, 0, len(records))

	for i := range records {
		dto, err := s.mapper.ForecastDto(&records[i])
		if err != nil {
			return nil, err
		}

		dtos = append(dtos, *dto)
	}

	s.cacheSet(ctx, key, dtos)

	return dtos, nil
}

func (s *forecastService) Query(ctx context.Context, locationID uuid.UUID, from, to *time.Time, page, pageSize int) (*domain.Page[domain.ForecastDto], error) {
	if s.forecasts == nil || s.locations == nil {
		return nil, errPersistenceDisabled("forecast queries")
	}

	if from != nil && to != nil {
		if err := domain.ValidateDateRange(*from, *to); err != nil {
			return nil, err
		}
	}

	if err := domain.ValidatePagination(page, pageSize); err != nil {
		return nil, err
	}

	if _, err := s.locations.GetByID(ctx, locationID); err != nil {
		return nil, locationNotFoundOr(err, locationID, s.logger)
	}

	records, total, err := s.forecasts.Query(ctx, locationID, from, to, page, pageSize)
	if err != nil {
		s.logger.Error("failed to query forecast records",
			zap.String("location_id", locationID.String()),
			zap.Error(err))

		return nil, err
	}

	dtos := make([]domain.ForecastDto, 0, len(records))

	for i := range records {
		dto, err := s.mapper.ForecastDto(&records[i])
		if err != nil {
			return nil, err
		}

		dtos = append(dtos, *dto)
	}

	return domain.NewPage(dtos, page, pageSize, total), nil
}

// resolveForecastLocation resolves the location for an ad-hoc forecast query.
// Without save the provider metadata becomes a transient entity; with save
// the location is looked up or created like the weather path does.
func (s *forecastService) resolveForecastLocation(ctx context.Context, meta *ports.ProviderLocation, save bool) (*domain.Location, error) {
	if !save || s.locations == nil {
		return s.mapper.LocationFromProvider(meta)
	}

	return resolveOrCreateLocation(ctx, s.locations, s.mapper, meta, s.logger)
}

func (s *forecastService) cached(ctx context.Context, key string) []domain.ForecastDto {
	if s.cache == nil {
		return nil
	}

	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordCacheMiss(ctx, key)
		}

		return nil
	}

	var dtos []domain.ForecastDto
	if err := json.Unmarshal(payload, &dtos); err != nil {
		s.logger.Warn("discarding undecodable cached forecast",
			zap.String("key", key),
			zap.Error(err))

		return nil
	}

	if s.metrics != nil {
		s.metrics.RecordCacheHit(ctx, key)
	}

	return dtos
}

func (s *forecastService) cacheSet(ctx context.Context, key string, dtos []domain.ForecastDto) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(dtos)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache forecast response",
			zap.String("key", key),
			zap.Error(err))
	}
}
