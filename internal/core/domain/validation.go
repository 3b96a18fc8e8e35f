package domain

import "time"

const (
	// MinForecastDays and MaxForecastDays bound the provider's day-count parameter.
	MinForecastDays = 1
	MaxForecastDays = 14

	// MaxHistoryRangeDays bounds history/forecast date-range queries.
	MaxHistoryRangeDays = 31

	// DefaultPageSize and MaxPageSize bound paginated queries.
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ValidateForecastDays checks the day count before any network attempt is made.
func ValidateForecastDays(days int) error {
	if days < MinForecastDays || days > MaxForecastDays {
		return NewValidationError("forecast days must be between %d and %d, got %d",
			MinForecastDays, MaxForecastDays, days)
	}

	return nil
}

// ValidateDateRange checks that from precedes to and the span is not wider
// than MaxHistoryRangeDays.
func ValidateDateRange(from, to time.Time) error {
	if to.Before(from) {
		return NewValidationError("date range end %s precedes start %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	if to.Sub(from) > MaxHistoryRangeDays*24*time.Hour {
		return NewValidationError("date range must not exceed %d days", MaxHistoryRangeDays)
	}

	return nil
}

// ValidatePagination checks page and pageSize bounds.
func ValidatePagination(page, pageSize int) error {
	if page < 1 {
		return NewValidationError("page must be at least 1, got %d", page)
	}

	if pageSize < 1 || pageSize > MaxPageSize {
		return NewValidationError("pageSize must be between 1 and %d, got %d", MaxPageSize, pageSize)
	}

	return nil
}
