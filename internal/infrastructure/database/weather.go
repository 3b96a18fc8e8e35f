package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
)

// WeatherRepository implements ports.WeatherRepository on Postgres.
type WeatherRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWeatherRepository creates the repository.
func NewWeatherRepository(pg *PostgresDB) *WeatherRepository {
	return &WeatherRepository{db: pg.db, logger: pg.logger}
}

func (r *WeatherRepository) Save(ctx context.Context, rec *domain.WeatherRecord) error {
	tracer := otel.Tracer("database")
	ctx, span := tracer.Start(ctx, "WeatherRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("record.id", rec.ID.String()),
		attribute.String("location.id", rec.LocationID.String()),
	)

	query := `
		INSERT INTO weather_records (
			id, location_id, temp_c, feels_like_c, humidity, wind_kph, wind_degree,
			condition, pressure_mb, precip_mm, cloud, uv, recorded_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.LocationID, rec.TempC, rec.FeelsLikeC, rec.Humidity,
		rec.WindKph, rec.WindDegree, rec.Condition, rec.PressureMb,
		rec.PrecipMm, rec.Cloud, rec.UV, rec.RecordedAt, rec.CreatedAt,
	)

	if err != nil {
		span.RecordError(err)

		r.logger.Error("failed to save weather record",
			zap.String("location_id", rec.LocationID.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))

		return fmt.Errorf("postgres: failed to save weather record: %w", err)
	}

	return nil
}

func (r *WeatherRepository) History(ctx context.Context, locationID uuid.UUID, from, to time.Time, page, pageSize int) ([]domain.WeatherRecord, int64, error) {
	var total int64

	countQuery := `
		SELECT COUNT(*) FROM weather_records
		WHERE location_id = $1 AND recorded_at BETWEEN $2 AND $3
	`

	if err := r.db.QueryRowContext(ctx, countQuery, locationID, from, to).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to count weather history: %w", err)
	}

	query := `
		SELECT w.id, w.location_id, w.temp_c, w.feels_like_c, w.humidity, w.wind_kph,
			w.wind_degree, w.condition, w.pressure_mb, w.precip_mm, w.cloud, w.uv,
			w.recorded_at, w.created_at,
			l.id, l.name, l.country, COALESCE(l.region, ''), l.latitude, l.longitude,
			l.created_at, l.updated_at
		FROM weather_records w
		JOIN locations l ON l.id = w.location_id
		WHERE w.location_id = $1 AND w.recorded_at BETWEEN $2 AND $3
		ORDER BY w.recorded_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.QueryContext(ctx, query, locationID, from, to, pageSize, (page-1)*pageSize)

	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to query weather history: %w", err)
	}

	defer rows.Close()

	var records []domain.WeatherRecord

	for rows.Next() {
		var (
			rec domain.WeatherRecord
			loc domain.Location
		)

		err := rows.Scan(
			&rec.ID, &rec.LocationID, &rec.TempC, &rec.FeelsLikeC, &rec.Humidity,
			&rec.WindKph, &rec.WindDegree, &rec.Condition, &rec.PressureMb,
			&rec.PrecipMm, &rec.Cloud, &rec.UV, &rec.RecordedAt, &rec.CreatedAt,
			&loc.ID, &loc.Name, &loc.Country, &loc.Region,
			&loc.Coordinates.Latitude, &loc.Coordinates.Longitude,
			&loc.CreatedAt, &loc.UpdatedAt,
		)

		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan weather row: %w", err)
		}

		rec.Location = &loc
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: weather row iteration failed: %w", err)
	}

	return records, total, nil
}

func (r *WeatherRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM weather_records WHERE recorded_at < $1`, cutoff)

	if err != nil {
		return 0, fmt.Errorf("postgres: failed to purge weather records: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to read purge count: %w", err)
	}

	if removed > 0 {
		r.logger.Info("purged weather records",
			zap.Int64("removed", removed),
			zap.Time("cutoff", cutoff))
	}

	return removed, nil
}
