// Package mapping converts between provider responses, persisted records and
// outward DTOs. All conversions are pure; the only side effect is a warn log
// when a provider timestamp fails to parse.
package mapping

import (
	"time"

	"go.uber.org/zap"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/domain"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
)

// providerTimeLayout is the provider's local-time format for observation times.
const providerTimeLayout = "2006-01-02 15:04"

// forecastDateLayout is the provider's date format for forecast days.
const forecastDateLayout = "2006-01-02"

// Mapper performs record and DTO conversions.
type Mapper struct {
	logger *zap.Logger
}

// NewMapper creates a mapper.
func NewMapper(logger *zap.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// WeatherRecordFromResponse maps a provider current-conditions response into
// a record shape. A nil response or absent current payload is the normal
// no-data case and yields nil, not an error.
func (m *Mapper) WeatherRecordFromResponse(resp *ports.CurrentWeatherResponse) *domain.WeatherRecord {
	if resp == nil || resp.Current == nil {
		return nil
	}

	cur := resp.Current

	return &domain.WeatherRecord{
		TempC:      cur.TempC,
		FeelsLikeC: cur.FeelsLikeC,
		Humidity:   cur.Humidity,
		WindKph:    cur.WindKph,
		WindDegree: cur.WindDegree,
		Condition:  cur.Condition,
		PressureMb: cur.PressureMb,
		PrecipMm:   cur.PrecipMm,
		Cloud:      cur.Cloud,
		UV:         cur.UV,
		RecordedAt: m.parseProviderTime(cur.LastUpdated),
		CreatedAt:  time.Now().UTC(),
	}
}

// ForecastRecordsFromResponse maps a provider forecast response into record
// shapes. A nil response or absent forecast payload yields an empty result.
// A day with an absent astro block still converts, with nil sunrise/sunset.
func (m *Mapper) ForecastRecordsFromResponse(resp *ports.ForecastResponse) []domain.ForecastRecord {
	if resp == nil || resp.Days == nil {
		return nil
	}

	now := time.Now().UTC()
	records := make([]domain.ForecastRecord, 0, len(resp.Days))

	for _, day := range resp.Days {
		date, err := time.Parse(forecastDateLayout, day.Date)

		if err != nil {
			m.logger.Warn("unparseable forecast date, substituting today",
				zap.String("date", day.Date),
				zap.Error(err))

			date = now.Truncate(24 * time.Hour)
		}

		rec := domain.ForecastRecord{
			ForecastDate:  date,
			MaxTempC:      day.MaxTempC,
			MinTempC:      day.MinTempC,
			AvgTempC:      day.AvgTempC,
			MaxWindKph:    day.MaxWindKph,
			AvgHumidity:   day.AvgHumidity,
			Condition:     day.Condition,
			TotalPrecipMm: day.TotalPrecipMm,
			ChanceOfRain:  day.ChanceOfRain,
			UV:            day.UV,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if day.Astro != nil {
			sunrise, sunset := day.Astro.Sunrise, day.Astro.Sunset
			rec.Sunrise = &sunrise
			rec.Sunset = &sunset
		}

		records = append(records, rec)
	}

	return records
}

// LocationFromProvider builds a location entity from provider metadata, used
// when a fetch requests persistence for a location not yet stored.
func (m *Mapper) LocationFromProvider(loc *ports.ProviderLocation) (*domain.Location, error) {
	if loc == nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeEmptyResponse,
			Message: "provider response carries no location metadata",
		}
	}

	return domain.NewLocation(loc.Name, loc.Country, loc.Region, domain.Coordinates{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	})
}

// WeatherDto projects a weather record outward. The location association is
// required: a record surfaced without one is a programming-contract
// violation and fails loudly rather than returning partial data.
func (m *Mapper) WeatherDto(rec *domain.WeatherRecord) (*domain.WeatherDto, error) {
	if rec == nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeInconsistentState,
			Message: "cannot map nil weather record",
		}
	}

	if rec.Location == nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeInconsistentState,
			Message: "weather record has no resolved location association",
		}
	}

	return &domain.WeatherDto{
		ID:           rec.ID,
		LocationID:   rec.LocationID,
		LocationName: rec.Location.Name,
		Country:      rec.Location.Country,
		TempC:        rec.TempC,
		FeelsLikeC:   rec.FeelsLikeC,
		Humidity:     rec.Humidity,
		WindKph:      rec.WindKph,
		WindDegree:   rec.WindDegree,
		Condition:    rec.Condition,
		PressureMb:   rec.PressureMb,
		PrecipMm:     rec.PrecipMm,
		Cloud:        rec.Cloud,
		UV:           rec.UV,
		RecordedAt:   rec.RecordedAt,
	}, nil
}

// ForecastDto projects a forecast record outward under the same association
// contract as WeatherDto.
func (m *Mapper) ForecastDto(rec *domain.ForecastRecord) (*domain.ForecastDto, error) {
	if rec == nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeInconsistentState,
			Message: "cannot map nil forecast record",
		}
	}

	if rec.Location == nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeInconsistentState,
			Message: "forecast record has no resolved location association",
		}
	}

	return &domain.ForecastDto{
		ID:            rec.ID,
		LocationID:    rec.LocationID,
		LocationName:  rec.Location.Name,
		Country:       rec.Location.Country,
		ForecastDate:  rec.ForecastDate.Format(forecastDateLayout),
		MaxTempC:      rec.MaxTempC,
		MinTempC:      rec.MinTempC,
		AvgTempC:      rec.AvgTempC,
		MaxWindKph:    rec.MaxWindKph,
		AvgHumidity:   rec.AvgHumidity,
		Condition:     rec.Condition,
		TotalPrecipMm: rec.TotalPrecipMm,
		ChanceOfRain:  rec.ChanceOfRain,
		UV:            rec.UV,
		Sunrise:       rec.Sunrise,
		Sunset:        rec.Sunset,
	}, nil
}

// LocationDto projects a location outward.
func (m *Mapper) LocationDto(loc *domain.Location) domain.LocationDto {
	return domain.LocationDto{
		ID:        loc.ID,
		Name:      loc.Name,
		Country:   loc.Country,
		Region:    loc.Region,
		Latitude:  loc.Coordinates.Latitude,
		Longitude: loc.Coordinates.Longitude,
		CreatedAt: loc.CreatedAt,
		UpdatedAt: loc.UpdatedAt,
	}
}

// parseProviderTime parses the provider's local-time string. Parse failure
// substitutes the current instant so the rest of the record survives.
func (m *Mapper) parseProviderTime(value string) time.Time {
	t, err := time.Parse(providerTimeLayout, value)

	if err != nil {
		m.logger.Warn("unparseable provider timestamp, substituting now",
			zap.String("value", value),
			zap.Error(err))

		return time.Now().UTC()
	}

	return t
}
