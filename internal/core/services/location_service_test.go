package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/mapping"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

func newLocationServiceForTest(repo *MockLocationRepository) ports.LocationService {
	logger := zap.NewNop()
	return NewLocationService(repo, mapping.NewMapper(logger), logger)
}

func validLocationRequest() ports.LocationRequest {
	return ports.LocationRequest{
		Name:      "Paris",
		Country:   "France",
		Region:    "Ile-de-France",
		Latitude:  48.8566,
		Longitude: 2.3522,
	}
}

func TestLocationService_Create(t *testing.T) {
	t.Run("successful create", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(loc *domain.Location) bool {
			return loc.ID != uuid.Nil && !loc.CreatedAt.IsZero() && loc.CreatedAt.Equal(loc.UpdatedAt)
		})).Return(nil)

		dto, err := service.Create(context.Background(), validLocationRequest())

		assert.NoError(t, err)
		assert.Equal(t, "Paris", dto.Name)
		assert.Equal(t, "France", dto.Country)
		assert.NotEqual(t, uuid.Nil, dto.ID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name and country conflicts", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		repo.On("Create", mock.Anything, mock.Anything).Return(ports.ErrDuplicate)

		dto, err := service.Create(context.Background(), validLocationRequest())

		assert.Nil(t, dto)
		assert.True(t, domain.IsCode(err, domain.ErrCodeConflict))
	})

	t.Run("validation failures never reach the repository", func(t *testing.T) {
		tests := []struct {
			name string
			req  ports.LocationRequest
		}{
			{
				name: "empty name",
				req:  ports.LocationRequest{Country: "France", Latitude: 48.85, Longitude: 2.35},
			},
			{
				name: "empty country",
				req:  ports.LocationRequest{Name: "Paris", Latitude: 48.85, Longitude: 2.35},
			},
			{
				name: "latitude out of bounds",
				req:  ports.LocationRequest{Name: "Paris", Country: "France", Latitude: 91},
			},
			{
				name: "longitude out of bounds",
				req:  ports.LocationRequest{Name: "Paris", Country: "France", Longitude: -181},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := new(MockLocationRepository)
				service := newLocationServiceForTest(repo)

				dto, err := service.Create(context.Background(), tt.req)

				assert.Nil(t, dto)
				assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
				repo.AssertNotCalled(t, "Create")
			})
		}
	})
}

func TestLocationService_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		loc, err := domain.NewLocation("Paris", "France", "", domain.Coordinates{Latitude: 48.85, Longitude: 2.35})
		assert.NoError(t, err)

		repo.On("GetByID", mock.Anything, loc.ID).Return(loc, nil)

		dto, err := service.GetByID(context.Background(), loc.ID)

		assert.NoError(t, err)
		assert.Equal(t, loc.ID, dto.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, ports.ErrNotFound)

		dto, err := service.GetByID(context.Background(), id)

		assert.Nil(t, dto)
		assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
	})

	t.Run("repository failure passes through", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, errors.New("connection refused"))

		dto, err := service.GetByID(context.Background(), id)

		assert.Nil(t, dto)
		assert.Error(t, err)
		assert.False(t, domain.IsCode(err, domain.ErrCodeNotFound))
	})
}

func TestLocationService_Update(t *testing.T) {
	t.Run("successful update bumps timestamp", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		loc, err := domain.NewLocation("Paris", "France", "", domain.Coordinates{Latitude: 48.85, Longitude: 2.35})
		assert.NoError(t, err)

		created := loc.CreatedAt

		repo.On("GetByID", mock.Anything, loc.ID).Return(loc, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(updated *domain.Location) bool {
			return updated.Name == "Lyon" && !updated.UpdatedAt.Before(created)
		})).Return(nil)

		req := validLocationRequest()
		req.Name = "Lyon"

		dto, err := service.Update(context.Background(), loc.ID, req)

		assert.NoError(t, err)
		assert.Equal(t, "Lyon", dto.Name)
		repo.AssertExpectations(t)
	})

	t.Run("update to an existing pair conflicts", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		loc, err := domain.NewLocation("Paris", "France", "", domain.Coordinates{Latitude: 48.85, Longitude: 2.35})
		assert.NoError(t, err)

		repo.On("GetByID", mock.Anything, loc.ID).Return(loc, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(ports.ErrDuplicate)

		dto, err := service.Update(context.Background(), loc.ID, validLocationRequest())

		assert.Nil(t, dto)
		assert.True(t, domain.IsCode(err, domain.ErrCodeConflict))
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, ports.ErrNotFound)

		dto, err := service.Update(context.Background(), id, validLocationRequest())

		assert.Nil(t, dto)
		assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
	})
}

func TestLocationService_Delete(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		id := uuid.New()
		repo.On("Delete", mock.Anything, id).Return(nil)

		assert.NoError(t, service.Delete(context.Background(), id))
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		id := uuid.New()
		repo.On("Delete", mock.Anything, id).Return(ports.ErrNotFound)

		err := service.Delete(context.Background(), id)

		assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
	})
}

func TestLocationService_List(t *testing.T) {
	t.Run("invalid pagination", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		tests := []struct {
			name     string
			page     int
			pageSize int
		}{
			{name: "zero page", page: 0, pageSize: 20},
			{name: "zero page size", page: 1, pageSize: 0},
			{name: "page size over limit", page: 1, pageSize: domain.MaxPageSize + 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				page, err := service.List(context.Background(), ports.LocationFilter{}, tt.page, tt.pageSize)

				assert.Nil(t, page)
				assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
			})
		}

		repo.AssertNotCalled(t, "List")
	})

	t.Run("returns filtered page", func(t *testing.T) {
		repo := new(MockLocationRepository)
		service := newLocationServiceForTest(repo)

		loc, err := domain.NewLocation("Paris", "France", "", domain.Coordinates{Latitude: 48.85, Longitude: 2.35})
		assert.NoError(t, err)

		filter := ports.LocationFilter{Country: "France"}
		repo.On("List", mock.Anything, filter, 2, 10).
			Return([]domain.Location{*loc}, int64(11), nil)

		page, err := service.List(context.Background(), filter, 2, 10)

		assert.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, int64(11), page.TotalItems)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestLocationService_ListAll(t *testing.T) {
	repo := new(MockLocationRepository)
	service := newLocationServiceForTest(repo)

	locA, err := domain.NewLocation("Paris", "France", "", domain.Coordinates{Latitude: 48.85, Longitude: 2.35})
	assert.NoError(t, err)
	locB, err := domain.NewLocation("Lyon", "France", "", domain.Coordinates{Latitude: 45.76, Longitude: 4.83})
	assert.NoError(t, err)

	repo.On("ListAll", mock.Anything).Return([]domain.Location{*locA, *locB}, nil)

	dtos, err := service.ListAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, dtos, 2)
}
