// Package config provides centralized configuration management for the weather service.
// It loads configuration from environment variables with sensible defaults,
// supporting different deployment environments (development, staging, production).
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration settings for the weather service.
// It aggregates configuration for all service components including
// HTTP server, databases, external APIs, and observability tools.
type Config struct {
	Server        ServerConfig
	Redis         RedisConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig
	WeatherAPI    WeatherAPIConfig
	Resilience    ResilienceConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
	Refresh       RefreshConfig
	Retention     RetentionConfig
}

// ServerConfig contains HTTP server settings and timeouts.
// These settings control how the service handles incoming requests.
type ServerConfig struct {
	Port         string
	MetricsPort  string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RedisConfig contains settings for Redis cache and rate limiting.
// Redis is used for distributed caching and rate limiting across instances.
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig contains PostgreSQL database connection settings.
// Persistence is optional: with Enabled false the service runs in
// fetch-and-cache mode without storing records.
type DatabaseConfig struct {
	Enabled               bool
	Host                  string
	Port                  int
	User                  string
	Password              string
	Database              string
	SSLMode               string
	MaxConnections        int
	MaxIdleConnections    int
	ConnectionMaxLifetime time.Duration
}

// ObservabilityConfig contains settings for distributed tracing and metrics.
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	SampleRate     float64
}

// WeatherAPIConfig contains settings for the upstream weather provider.
type WeatherAPIConfig struct {
	BaseURL     string
	APIKey      string
	HTTPTimeout time.Duration
}

// ResilienceConfig controls the retry, circuit breaker and outbound
// rate-limit behaviour wrapped around provider calls.
type ResilienceConfig struct {
	CurrentMaxRetries  int
	ForecastMaxRetries int
	InitialBackoff     time.Duration
	MaxBackoff         time.Duration
	BreakerTimeout     time.Duration
	BreakerInterval    time.Duration
	FailureRatio       float64
	MinimumRequests    uint32
	OutboundRate       float64
	OutboundBurst      int
	RateWait           time.Duration
}

// CacheConfig contains TTLs for cached provider responses.
type CacheConfig struct {
	CurrentTTL      time.Duration
	ForecastTTL     time.Duration
	CleanupInterval time.Duration
}

// RateLimitConfig contains inbound rate limiting settings.
type RateLimitConfig struct {
	RPS    int
	Window time.Duration
}

// RefreshConfig controls the background refresh of stored locations.
type RefreshConfig struct {
	Enabled      bool
	Interval     time.Duration
	ChunkSize    int
	ForecastDays int
}

// RetentionConfig controls purging of aged records.
type RetentionConfig struct {
	Enabled          bool
	WeatherMaxAge    time.Duration
	ForecastKeepDays int
	SweepInterval    time.Duration
}

// Load reads configuration from environment variables and returns a Config instance.
//
// Returns:
//   - *Config: Configuration with values from environment or defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			Enabled:               getEnvAsBool("DATABASE_ENABLED", false),
			Host:                  getEnv("DB_HOST", "localhost"),
			Port:                  getEnvAsInt("DB_PORT", 5432),
			User:                  getEnv("DB_USER", "weather"),
			Password:              getEnv("DB_PASSWORD", ""),
			Database:              getEnv("DB_NAME", "weather_service"),
			SSLMode:               getEnv("DB_SSLMODE", "disable"),
			MaxConnections:        25,
			MaxIdleConnections:    5,
			ConnectionMaxLifetime: 5 * time.Minute,
		},
		Observability: ObservabilityConfig{
			ServiceName:    "weather-microservice",
			ServiceVersion: getEnv("VERSION", "1.0.0"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:     getEnvAsFloat("OTEL_SAMPLE_RATE", 0.1),
		},
		WeatherAPI: WeatherAPIConfig{
			BaseURL:     getEnv("WEATHER_API_BASE_URL", "https://api.weatherapi.com/v1"),
			APIKey:      getEnv("WEATHER_API_KEY", ""),
			HTTPTimeout: getEnvAsDuration("WEATHER_API_TIMEOUT", 10*time.Second),
		},
		Resilience: ResilienceConfig{
			CurrentMaxRetries:  getEnvAsInt("RESILIENCE_CURRENT_RETRIES", 3),
			ForecastMaxRetries: getEnvAsInt("RESILIENCE_FORECAST_RETRIES", 2),
			InitialBackoff:     getEnvAsDuration("RESILIENCE_INITIAL_BACKOFF", 200*time.Millisecond),
			MaxBackoff:         getEnvAsDuration("RESILIENCE_MAX_BACKOFF", 5*time.Second),
			BreakerTimeout:     getEnvAsDuration("BREAKER_TIMEOUT", 30*time.Second),
			BreakerInterval:    getEnvAsDuration("BREAKER_INTERVAL", time.Minute),
			FailureRatio:       getEnvAsFloat("BREAKER_FAILURE_RATIO", 0.5),
			MinimumRequests:    uint32(getEnvAsInt("BREAKER_MINIMUM_REQUESTS", 4)),
			OutboundRate:       getEnvAsFloat("OUTBOUND_RATE", 10),
			OutboundBurst:      getEnvAsInt("OUTBOUND_BURST", 5),
			RateWait:           getEnvAsDuration("OUTBOUND_RATE_WAIT", time.Second),
		},
		Cache: CacheConfig{
			CurrentTTL:      getEnvAsDuration("CACHE_CURRENT_TTL", 5*time.Minute),
			ForecastTTL:     getEnvAsDuration("CACHE_FORECAST_TTL", 30*time.Minute),
			CleanupInterval: getEnvAsDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RPS:    getEnvAsInt("RATE_LIMIT_RPS", 100),
			Window: time.Minute,
		},
		Refresh: RefreshConfig{
			Enabled:      getEnvAsBool("REFRESH_ENABLED", false),
			Interval:     getEnvAsDuration("REFRESH_INTERVAL", time.Hour),
			ChunkSize:    getEnvAsInt("REFRESH_CHUNK_SIZE", 50),
			ForecastDays: getEnvAsInt("REFRESH_FORECAST_DAYS", 3),
		},
		Retention: RetentionConfig{
			Enabled:          getEnvAsBool("RETENTION_ENABLED", false),
			WeatherMaxAge:    getEnvAsDuration("RETENTION_WEATHER_MAX_AGE", 90*24*time.Hour),
			ForecastKeepDays: getEnvAsInt("RETENTION_FORECAST_KEEP_DAYS", 7),
			SweepInterval:    getEnvAsDuration("RETENTION_SWEEP_INTERVAL", 24*time.Hour),
		},
	}
}

// getEnv retrieves an environment variable value with a fallback default.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Value to use if variable is not set
//
// Returns:
//   - string: Environment value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer with a fallback default.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Value to use if variable is not set or invalid
//
// Returns:
//   - int: Parsed integer value or default
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean with a fallback default.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Value to use if variable is not set or invalid
//
// Returns:
//   - bool: Parsed boolean value or default
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float64 with a fallback default.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}

	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration with a fallback default.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}

	return defaultValue
}
