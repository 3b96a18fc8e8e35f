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

// ForecastRepository implements ports.ForecastRepository on Postgres.
type ForecastRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewForecastRepository creates the repository.
func NewForecastRepository(pg *PostgresDB) *ForecastRepository {
	return &ForecastRepository{db: pg.db, logger: pg.logger}
}

func (r *ForecastRepository) Upsert(ctx context.Context, rec *domain.ForecastRecord) error {
	tracer := otel.Tracer("database")
	ctx, span := tracer.Start(ctx, "ForecastRepository.Upsert")
	defer span.End()

	span.SetAttributes(
		attribute.String("location.id", rec.LocationID.String()),
		attribute.String("forecast.date", rec.ForecastDate.Format("2006-01-02")),
	)

	query := `
		INSERT INTO forecast_records (
			id, location_id, forecast_date, max_temp_c, min_temp_c, avg_temp_c,
			max_wind_kph, avg_humidity, condition, total_precip_mm, chance_of_rain,
			uv, sunrise, sunset, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (location_id, forecast_date) DO UPDATE SET
			max_temp_c = EXCLUDED.max_temp_c,
			min_temp_c = EXCLUDED.min_temp_c,
			avg_temp_c = EXCLUDED.avg_temp_c,
			max_wind_kph = EXCLUDED.max_wind_kph,
			avg_humidity = EXCLUDED.avg_humidity,
			condition = EXCLUDED.condition,
			total_precip_mm = EXCLUDED.total_precip_mm,
			chance_of_rain = EXCLUDED.chance_of_rain,
			uv = EXCLUDED.uv,
			sunrise = EXCLUDED.sunrise,
			sunset = EXCLUDED.sunset,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.LocationID, rec.ForecastDate, rec.MaxTempC, rec.MinTempC,
		rec.AvgTempC, rec.MaxWindKph, rec.AvgHumidity, rec.Condition,
		rec.TotalPrecipMm, rec.ChanceOfRain, rec.UV, rec.Sunrise, rec.Sunset,
		rec.CreatedAt, rec.UpdatedAt,
	)

	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("postgres: failed to upsert forecast record: %w", err)
	}

	return nil
}

func (r *ForecastRepository) Query(ctx context.Context, locationID uuid.UUID, from, to *time.Time, page, pageSize int) ([]domain.ForecastRecord, int64, error) {
	where := `
		WHERE f.location_id = $1
		AND ($2::date IS NULL OR f.forecast_date >= $2)
		AND ($3::date IS NULL OR f.forecast_date <= $3)`

	var total int64
	countQuery := `SELECT COUNT(*) FROM forecast_records f` + where

	err := r.db.QueryRowContext(ctx, countQuery,
		locationID, timeOrNil(from), timeOrNil(to)).Scan(&total)

	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to count forecast records: %w", err)
	}

	query := `
		SELECT f.id, f.location_id, f.forecast_date, f.max_temp_c, f.min_temp_c,
			f.avg_temp_c, f.max_wind_kph, f.avg_humidity, f.condition,
			f.total_precip_mm, f.chance_of_rain, f.uv, f.sunrise, f.sunset,
			f.created_at, f.updated_at,
			l.id, l.name, l.country, COALESCE(l.region, ''), l.latitude, l.longitude,
			l.created_at, l.updated_at
		FROM forecast_records f
		JOIN locations l ON l.id = f.location_id` + where + `
		ORDER BY f.forecast_date
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.QueryContext(ctx, query,
		locationID, timeOrNil(from), timeOrNil(to), pageSize, (page-1)*pageSize)

	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to query forecast records: %w", err)
	}

	defer rows.Close()

	var records []domain.ForecastRecord

	for rows.Next() {
		var (
			rec             domain.ForecastRecord
			loc             domain.Location
			sunrise, sunset sql.NullString
		)

		err := rows.Scan(
			&rec.ID, &rec.LocationID, &rec.ForecastDate, &rec.MaxTempC, &rec.MinTempC,
			&rec.AvgTempC, &rec.MaxWindKph, &rec.AvgHumidity, &rec.Condition,
			&rec.TotalPrecipMm, &rec.ChanceOfRain, &rec.UV, &sunrise, &sunset,
			&rec.CreatedAt, &rec.UpdatedAt,
			&loc.ID, &loc.Name, &loc.Country, &loc.Region,
			&loc.Coordinates.Latitude, &loc.Coordinates.Longitude,
			&loc.CreatedAt, &loc.UpdatedAt,
		)

		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan forecast row: %w", err)
		}

		if sunrise.Valid {
			rec.Sunrise = &sunrise.String
		}

		if sunset.Valid {
			rec.Sunset = &sunset.String
		}

		rec.Location = &loc
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: forecast row iteration failed: %w", err)
	}

	return records, total, nil
}

func (r *ForecastRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM forecast_records WHERE forecast_date < $1`, cutoff)

	if err != nil {
		return 0, fmt.Errorf("postgres: failed to purge forecast records: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to read purge count: %w", err)
	}

	if removed > 0 {
		r.logger.Info("purged forecast records",
			zap.Int64("removed", removed),
			zap.Time("cutoff", cutoff))
	}

	return removed, nil
}
