package services

import (
	"fmt"
	"strings"
)

// Cache key prefixes keep current conditions and forecasts in separate
// namespaces so they can expire independently.
const (
	currentKeyPrefix  = "weather:current"
	forecastKeyPrefix = "weather:forecast"
)

// currentCacheKey builds the cache key for current conditions of a location
// query. Queries are normalized so "London,UK" and "london, uk" share an entry.
func currentCacheKey(query string) string {
	return fmt.Sprintf("%s:%s", currentKeyPrefix, normalizeQuery(query))
}

// forecastCacheKey builds the cache key for a forecast query. The day count is
// part of the key because the provider returns different payloads per horizon.
func forecastCacheKey(query string, days int) string {
	return fmt.Sprintf("%s:%s:%d", forecastKeyPrefix, normalizeQuery(query), days)
}

func normalizeQuery(query string) string {
	parts := strings.Split(query, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	return strings.ToLower(strings.Join(parts, ","))
}
