package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/mapping"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

type weatherService struct {
	provider  ports.WeatherProvider
	locations ports.LocationRepository
	weather   ports.WeatherRepository
	cache     ports.CacheService
	mapper    *mapping.Mapper
	metrics   Metrics
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewWeatherService creates the current-weather service. locations and
// weather may be nil when persistence is disabled; save requests are then
// rejected and history queries are unavailable.
func NewWeatherService(
	provider ports.WeatherProvider,
	locations ports.LocationRepository,
	weather ports.WeatherRepository,
	cache ports.CacheService,
	mapper *mapping.Mapper,
	metrics Metrics,
	cacheTTL time.Duration,
	logger *zap.Logger,
) ports.WeatherService {
	return &weatherService{
		provider:  provider,
		locations: locations,
		weather:   weather,
		cache:     cache,
		mapper:    mapper,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (s *weatherService) FetchCurrent(ctx context.Context, query string, save bool) (*domain.WeatherDto, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query must not be empty")
	}

	return s.fetch(ctx, query, save, nil)
}

func (s *weatherService) FetchCurrentForLocation(ctx context.Context, id uuid.UUID, save bool) (*domain.WeatherDto, error) {
	if s.locations == nil {
		return nil, errPersistenceDisabled("location lookup")
	}

	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, locationNotFoundOr(err, id, s.logger)
	}

	return s.fetch(ctx, loc.QueryString(), save, loc)
}

// fetch runs the cache, provider, mapping and optional persistence pipeline.
// known is the already-resolved location for stored-location fetches; for
// ad-hoc queries it is nil and the provider's location metadata is used.
func (s *weatherService) fetch(ctx context.Context, query string, save bool, known *domain.Location) (*domain.WeatherDto, error) {
	key := currentCacheKey(query)

	// A save request must hit the provider; serving it from cache would
	// skip persistence.
	if !save {
		if dto := s.cached(ctx, key); dto != nil {
			return dto, nil
		}
	}

	resp, err := s.provider.FetchCurrent(ctx, query)
	if err != nil {
		return nil, err
	}

	rec := s.mapper.WeatherRecordFromResponse(resp)
	if rec == nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeEmptyResponse,
			Message: "provider returned no current conditions for " + query,
		}
	}

	if save {
		if s.weather == nil || s.locations == nil {
			return nil, errPersistenceDisabled("saving weather records")
		}

		loc := known
		if loc == nil {
			if loc, err = resolveOrCreateLocation(ctx, s.locations, s.mapper, resp.Location, s.logger); err != nil {
				return nil, err
			}
		}

		rec.ID = uuid.New()
		rec.LocationID = loc.ID
		rec.Location = loc

		if err := s.weather.Save(ctx, rec); err != nil {
			s.logger.Error("failed to save weather record",
				zap.String("location_id", loc.ID.String()),
				zap.Error(err))

			return nil, err
		}

		if s.metrics != nil {
			s.metrics.RecordRecordsSaved(ctx, "weather", 1)
		}
	} else if known != nil {
		rec.LocationID = known.ID
		rec.Location = known
	} else {
		if rec.Location, err = s.mapper.LocationFromProvider(resp.Location); err != nil {
			return nil, err
		}
	}

	dto, err := s.mapper.WeatherDto(rec)
	if err != nil {
		return nil, err
	}

	// Cache only after the record is durably stored.
	s.cacheSet(ctx, key, dto)

	return dto, nil
}

func (s *weatherService) History(ctx context.Context, locationID uuid.UUID, from, to time.Time, page, pageSize int) (*domain.Page[domain.WeatherDto], error) {
	if s.weather == nil || s.locations == nil {
		return nil, errPersistenceDisabled("weather history")
	}

	if err := domain.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	if err := domain.ValidatePagination(page, pageSize); err != nil {
		return nil, err
	}

	if _, err := s.locations.GetByID(ctx, locationID); err != nil {
		return nil, locationNotFoundOr(err, locationID, s.logger)
	}

	records, total, err := s.weather.History(ctx, locationID, from, to, page, pageSize)
	if err != nil {
		s.logger.Error("failed to query weather history",
			zap.String("location_id", locationID.String()),
			zap.Error(err))

		return nil, err
	}

	dtos := make([]domain.WeatherDto, 0, len(records))

	for i := range records {
		dto, err := s.mapper.WeatherDto(&records[i])
		if err != nil {
			return nil, err
		}

		dtos = append(dtos, *dto)
	}

	return domain.NewPage(dtos, page, pageSize, total), nil
}

// resolveOrCreateLocation finds the stored location matching the provider
// metadata, creating it when it is not stored yet.
func resolveOrCreateLocation(ctx context.Context, repo ports.LocationRepository, mapper *mapping.Mapper, meta *ports.ProviderLocation, logger *zap.Logger) (*domain.Location, error) {
	loc, err := mapper.LocationFromProvider(meta)
	if err != nil {
		return nil, err
	}

	existing, err := repo.GetByNameAndCountry(ctx, loc.Name, loc.Country)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}

	if err := repo.Create(ctx, loc); err != nil {
		// A concurrent fetch may have created it between lookup and insert.
		if errors.Is(err, ports.ErrDuplicate) {
			return repo.GetByNameAndCountry(ctx, loc.Name, loc.Country)
		}

		return nil, err
	}

	logger.Info("location created implicitly",
		zap.String("id", loc.ID.String()),
		zap.String("name", loc.Name),
		zap.String("country", loc.Country))

	return loc, nil
}

func (s *weatherService) cached(ctx context.Context, key string) *domain.WeatherDto {
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

	var dto domain.WeatherDto
	if err := json.Unmarshal(payload, &dto); err != nil {
		s.logger.Warn("discarding undecodable cached weather",
			zap.String("key", key),
			zap.Error(err))

		return nil
	}

	if s.metrics != nil {
		s.metrics.RecordCacheHit(ctx, key)
	}

	return &dto
}

func (s *weatherService) cacheSet(ctx context.Context, key string, dto *domain.WeatherDto) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(dto)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache weather response",
			zap.String("key", key),
			zap.Error(err))
	}
}

func errPersistenceDisabled(op string) error {
	return &domain.DomainError{
		Code:    domain.ErrCodeInvalidRequest,
		Message: op + " requires persistence, which is disabled",
	}
}

func locationNotFoundOr(err error, id uuid.UUID, logger *zap.Logger) error {
	if errors.Is(err, ports.ErrNotFound) {
		return &domain.DomainError{
			Code:    domain.ErrCodeNotFound,
			Message: "location " + id.String() + " not found",
			Cause:   err,
		}
	}

	logger.Error("location lookup failure",
		zap.String("id", id.String()),
		zap.Error(err))

	return err
}
