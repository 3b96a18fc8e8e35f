package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// LocationRepository implements ports.LocationRepository on Postgres.
type LocationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLocationRepository creates the repository.
func NewLocationRepository(pg *PostgresDB) *LocationRepository {
	return &LocationRepository{db: pg.db, logger: pg.logger}
}

func (r *LocationRepository) Create(ctx context.Context, loc *domain.Location) error {
	tracer := otel.Tracer("database")
	ctx, span := tracer.Start(ctx, "LocationRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("location.id", loc.ID.String()))

	query := `
		INSERT INTO locations (id, name, country, region, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		loc.ID, loc.Name, loc.Country, nullableString(loc.Region),
		loc.Coordinates.Latitude, loc.Coordinates.Longitude,
		loc.CreatedAt, loc.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ports.ErrDuplicate
		}

		span.RecordError(err)

		return fmt.Errorf("postgres: failed to create location: %w", err)
	}

	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	query := selectLocation + ` WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *LocationRepository) GetByNameAndCountry(ctx context.Context, name, country string) (*domain.Location, error) {
	query := selectLocation + ` WHERE LOWER(name) = LOWER($1) AND LOWER(country) = LOWER($2)`

	return r.scanOne(r.db.QueryRowContext(ctx, query, name, country))
}

func (r *LocationRepository) Update(ctx context.Context, loc *domain.Location) error {
	query := `
		UPDATE locations
		SET name = $2, country = $3, region = $4, latitude = $5, longitude = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		loc.ID, loc.Name, loc.Country, nullableString(loc.Region),
		loc.Coordinates.Latitude, loc.Coordinates.Longitude, loc.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ports.ErrDuplicate
		}

		return fmt.Errorf("postgres: failed to update location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: failed to read affected rows: %w", err)
	}

	if rows == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Weather and forecast rows fall with the location via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)

	if err != nil {
		return fmt.Errorf("postgres: failed to delete location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: failed to read affected rows: %w", err)
	}

	if rows == 0 {
		return ports.ErrNotFound
	}

	r.logger.Info("location deleted", zap.String("id", id.String()))

	return nil
}

func (r *LocationRepository) List(ctx context.Context, filter ports.LocationFilter, page, pageSize int) ([]domain.Location, int64, error) {
	where := ` WHERE ($1 = '' OR LOWER(name) LIKE LOWER($1) || '%')
		AND ($2 = '' OR LOWER(country) = LOWER($2))`

	var total int64
	countQuery := `SELECT COUNT(*) FROM locations` + where

	if err := r.db.QueryRowContext(ctx, countQuery, filter.NamePrefix, filter.Country).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to count locations: %w", err)
	}

	query := selectLocation + where + ` ORDER BY name, country LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query,
		filter.NamePrefix, filter.Country, pageSize, (page-1)*pageSize)

	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list locations: %w", err)
	}

	defer rows.Close()

	locations, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}

	return locations, total, nil
}

func (r *LocationRepository) ListAll(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, selectLocation+` ORDER BY name, country`)

	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list locations: %w", err)
	}

	defer rows.Close()

	return r.scanMany(rows)
}

const selectLocation = `
	SELECT id, name, country, COALESCE(region, ''), latitude, longitude, created_at, updated_at
	FROM locations`

func (r *LocationRepository) scanOne(row *sql.Row) (*domain.Location, error) {
	var loc domain.Location

	err := row.Scan(&loc.ID, &loc.Name, &loc.Country, &loc.Region,
		&loc.Coordinates.Latitude, &loc.Coordinates.Longitude,
		&loc.CreatedAt, &loc.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan location: %w", err)
	}

	return &loc, nil
}

func (r *LocationRepository) scanMany(rows *sql.Rows) ([]domain.Location, error) {
	var locations []domain.Location

	for rows.Next() {
		var loc domain.Location

		err := rows.Scan(&loc.ID, &loc.Name, &loc.Country, &loc.Region,
			&loc.Coordinates.Latitude, &loc.Coordinates.Longitude,
			&loc.CreatedAt, &loc.UpdatedAt)

		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan location row: %w", err)
		}

		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: location row iteration failed: %w", err)
	}

	return locations, nil
}

// nullableString stores empty strings as NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// timeOrNil converts an optional time for range-bounded queries.
func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}

	return *t
}
