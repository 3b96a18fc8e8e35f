// Package services implements the application's use cases on top of the
// ports interfaces. Services validate input, orchestrate repositories, the
// weather provider and the cache, and translate infrastructure failures into
// domain errors with stable codes.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/mapping"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

type locationService struct {
	repo   ports.LocationRepository
	mapper *mapping.Mapper
	logger *zap.Logger
}

// NewLocationService creates the location CRUD service.
func NewLocationService(repo ports.LocationRepository, mapper *mapping.Mapper, logger *zap.Logger) ports.LocationService {
	return &locationService{
		repo:   repo,
		mapper: mapper,
		logger: logger,
	}
}

func (s *locationService) Create(ctx context.Context, req ports.LocationRequest) (*domain.LocationDto, error) {
	loc, err := domain.NewLocation(req.Name, req.Country, req.Region, domain.Coordinates{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return nil, domain.NewValidationError("invalid location: %v", err)
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, &domain.DomainError{
				Code:    domain.ErrCodeConflict,
				Message: "location " + loc.Name + ", " + loc.Country + " already exists",
				Cause:   err,
			}
		}

		s.logger.Error("failed to create location",
			zap.String("name", loc.Name),
			zap.String("country", loc.Country),
			zap.Error(err))

		return nil, err
	}

	s.logger.Info("location created",
		zap.String("id", loc.ID.String()),
		zap.String("name", loc.Name),
		zap.String("country", loc.Country))

	dto := s.mapper.LocationDto(loc)

	return &dto, nil
}

func (s *locationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LocationDto, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, id)
	}

	dto := s.mapper.LocationDto(loc)

	return &dto, nil
}

func (s *locationService) Update(ctx context.Context, id uuid.UUID, req ports.LocationRequest) (*domain.LocationDto, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, id)
	}

	if err := loc.Update(req.Name, req.Country, req.Region, domain.Coordinates{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}); err != nil {
		return nil, domain.NewValidationError("invalid location update: %v", err)
	}

	if err := s.repo.Update(ctx, loc); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, &domain.DomainError{
				Code:    domain.ErrCodeConflict,
				Message: "location " + loc.Name + ", " + loc.Country + " already exists",
				Cause:   err,
			}
		}

		return nil, s.notFoundOr(err, id)
	}

	s.logger.Info("location updated", zap.String("id", id.String()))

	dto := s.mapper.LocationDto(loc)

	return &dto, nil
}

func (s *locationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.notFoundOr(err, id)
	}

	// Dependent weather and forecast rows are removed by the cascade rule.
	s.logger.Info("location deleted", zap.String("id", id.String()))

	return nil
}

func (s *locationService) List(ctx context.Context, filter ports.LocationFilter, page, pageSize int) (*domain.Page[domain.LocationDto], error) {
	if err := domain.ValidatePagination(page, pageSize); err != nil {
		return nil, err
	}

	locations, total, err := s.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list locations", zap.Error(err))
		return nil, err
	}

	dtos := make([]domain.LocationDto, 0, len(locations))

	for i := range locations {
		dtos = append(dtos, s.mapper.LocationDto(&locations[i]))
	}

	return domain.NewPage(dtos, page, pageSize, total), nil
}

func (s *locationService) ListAll(ctx context.Context) ([]domain.LocationDto, error) {
	locations, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all locations", zap.Error(err))
		return nil, err
	}

	dtos := make([]domain.LocationDto, 0, len(locations))

	for i := range locations {
		dtos = append(dtos, s.mapper.LocationDto(&locations[i]))
	}

	return dtos, nil
}

func (s *locationService) notFoundOr(err error, id uuid.UUID) error {
	if errors.Is(err, ports.ErrNotFound) {
		return &domain.DomainError{
			Code:    domain.ErrCodeNotFound,
			Message: "location " + id.String() + " not found",
			Cause:   err,
		}
	}

	s.logger.Error("location repository failure",
		zap.String("id", id.String()),
		zap.Error(err))

	return err
}
