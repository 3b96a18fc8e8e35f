// Package app provides application-level coordination and dependency injection.
// It orchestrates the initialization of all service components, manages their lifecycles,
// and provides a clean application structure following dependency inversion principles.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/adapters/primary/rest"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/adapters/secondary/weatherapi"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/config"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/batch"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/mapping"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/ports"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/core/services"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/infrastructure/cache"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/infrastructure/circuitbreaker"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/infrastructure/database"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/infrastructure/ratelimit"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/infrastructure/resilience"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/middleware"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/observability"
	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/version"
)

// handlers groups the REST handlers the router mounts. Persistence-dependent
// handlers are nil when the database is disabled and their routes are not
// registered.
type handlers struct {
	locations *rest.LocationHandler
	weather   *rest.WeatherHandler
	forecasts *rest.ForecastHandler
	refresh   *rest.RefreshHandler
}

// App manages the application lifecycle and dependencies.
type App struct {
	cfg       *config.Config
	server    *http.Server
	logger    *zap.Logger
	telemetry *observability.Telemetry
	db        *database.PostgresDB
	provider  *resilience.Provider

	// loopCancel stops the background refresh and retention loops
	loopCancel context.CancelFunc
}

// New creates a new application instance.
//
// Returns:
//   - *App: Configured application instance
//   - error: Logger initialization error
func New() (*App, error) {
	logger, err := zap.NewProduction()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg := config.Load()

	return &App{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start initializes and starts all application components.
//
// Parameters:
//   - ctx: Context for initialization
//
// Returns:
//   - error: Component initialization or server start error
func (a *App) Start(ctx context.Context) error {
	if err := a.initTelemetry(ctx); err != nil {
		a.logger.Warn("failed to initialize telemetry, continuing without it", zap.Error(err))
	}

	cacheService, rateLimitService := a.initRedisServices(ctx)

	if err := a.initDatabase(); err != nil {
		a.logger.Warn("failed to connect to database, continuing without persistence", zap.Error(err))
	}

	provider := a.initProvider()
	mapper := mapping.NewMapper(a.logger)

	var (
		locationRepo ports.LocationRepository
		weatherRepo  ports.WeatherRepository
		forecastRepo ports.ForecastRepository
	)

	if a.db != nil {
		locationRepo = database.NewLocationRepository(a.db)
		weatherRepo = database.NewWeatherRepository(a.db)
		forecastRepo = database.NewForecastRepository(a.db)
	}

	var svcMetrics services.Metrics
	if a.telemetry != nil {
		svcMetrics = a.telemetry
	}

	weatherService := services.NewWeatherService(provider, locationRepo, weatherRepo,
		cacheService, mapper, svcMetrics, a.cfg.Cache.CurrentTTL, a.logger)
	forecastService := services.NewForecastService(provider, locationRepo, forecastRepo,
		cacheService, mapper, svcMetrics, a.cfg.Cache.ForecastTTL, a.logger)

	h := handlers{
		weather:   rest.NewWeatherHandler(weatherService, a.logger),
		forecasts: rest.NewForecastHandler(forecastService, a.logger),
	}

	if a.db != nil {
		locationService := services.NewLocationService(locationRepo, mapper, a.logger)
		h.locations = rest.NewLocationHandler(locationService, a.logger)

		refreshService, err := a.initBackgroundServices(
			locationRepo, weatherRepo, forecastRepo, weatherService, forecastService)
		if err != nil {
			return fmt.Errorf("failed to initialize background services: %w", err)
		}

		h.refresh = rest.NewRefreshHandler(refreshService, a.logger)
	}

	rateLimitMiddleware := middleware.NewRateLimitMiddleware(
		rateLimitService,
		a.cfg.RateLimit.RPS,
		a.cfg.RateLimit.Window,
		a.logger,
	)

	router := a.setupRouter(h, rateLimitMiddleware)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	go func() {
		a.logger.Info("starting HTTP server", zap.String("port", a.cfg.Server.Port))

		if err := a.server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				a.logger.Fatal("failed to start server", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down all application components.
func (a *App) Stop() {
	a.logger.Info("shutting down application...")

	if a.loopCancel != nil {
		a.loopCancel()
	}

	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to shutdown server gracefully", zap.Error(err))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database connection", zap.Error(err))
		}
	}

	if a.telemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.telemetry.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to shutdown telemetry", zap.Error(err))
		}
	}

	if err := a.logger.Sync(); err != nil {
		// Sync can fail on some platforms, ignore the error
		_ = err
	}
}

// WaitForShutdown blocks until the server receives a shutdown signal.
func (a *App) WaitForShutdown() {
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	a.logger.Info("shutdown signal received")
}

// initTelemetry initializes OpenTelemetry providers.
func (a *App) initTelemetry(ctx context.Context) error {
	telemetryConfig := observability.Config{
		ServiceName:    a.cfg.Observability.ServiceName,
		ServiceVersion: a.cfg.Observability.ServiceVersion,
		Environment:    a.cfg.Observability.Environment,
		OTLPEndpoint:   a.cfg.Observability.OTLPEndpoint,
		SampleRate:     a.cfg.Observability.SampleRate,
	}

	var err error
	a.telemetry, err = observability.InitTelemetry(ctx, telemetryConfig, a.logger)

	return err
}

// initRedisServices initializes Redis-based or memory-based cache and rate limiting.
//
// Parameters:
//   - ctx: Context for Redis connection testing
//
// Returns:
//   - ports.CacheService: Cache implementation (Redis or memory)
//   - ports.RateLimitService: Rate limiter implementation (Redis or memory)
func (a *App) initRedisServices(ctx context.Context) (ports.CacheService, ports.RateLimitService) {
	if !a.cfg.Redis.Enabled {
		a.logger.Info("Redis disabled, using memory-based services")
		return a.memoryServices()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         a.cfg.Redis.Addr,
		Password:     a.cfg.Redis.Password,
		DB:           a.cfg.Redis.DB,
		PoolSize:     a.cfg.Redis.PoolSize,
		MinIdleConns: a.cfg.Redis.MinIdleConns,
		MaxRetries:   a.cfg.Redis.MaxRetries,
		DialTimeout:  a.cfg.Redis.DialTimeout,
		ReadTimeout:  a.cfg.Redis.ReadTimeout,
		WriteTimeout: a.cfg.Redis.WriteTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		a.logger.Warn("Redis connection failed, falling back to memory-based services", zap.Error(err))
		return a.memoryServices()
	}

	a.logger.Info("Redis connected successfully")

	redisCfg := cache.Config{
		Addr:         a.cfg.Redis.Addr,
		Password:     a.cfg.Redis.Password,
		DB:           a.cfg.Redis.DB,
		PoolSize:     a.cfg.Redis.PoolSize,
		MinIdleConns: a.cfg.Redis.MinIdleConns,
		MaxRetries:   a.cfg.Redis.MaxRetries,
		DialTimeout:  a.cfg.Redis.DialTimeout,
		ReadTimeout:  a.cfg.Redis.ReadTimeout,
		WriteTimeout: a.cfg.Redis.WriteTimeout,
	}

	cacheService, _ := cache.NewRedisCache(redisCfg, a.logger)
	rateLimitService := ratelimit.NewRedisRateLimiter(redisClient, a.logger)

	return cacheService, rateLimitService
}

func (a *App) memoryServices() (ports.CacheService, ports.RateLimitService) {
	memCache := cache.NewMemoryCache(a.cfg.Cache.CurrentTTL, a.cfg.Cache.CleanupInterval, a.logger)
	memRateLimit := middleware.NewMemoryRateLimiter(a.logger)

	return memCache, memRateLimit
}

// initDatabase initializes the PostgreSQL connection and applies pending
// schema migrations. A disabled database is not an error; the service then
// runs in fetch-and-cache mode.
func (a *App) initDatabase() error {
	if !a.cfg.Database.Enabled {
		return nil
	}

	dbConfig := database.Config{
		Host:                  a.cfg.Database.Host,
		Port:                  a.cfg.Database.Port,
		User:                  a.cfg.Database.User,
		Password:              a.cfg.Database.Password,
		Database:              a.cfg.Database.Database,
		SSLMode:               a.cfg.Database.SSLMode,
		MaxConnections:        a.cfg.Database.MaxConnections,
		MaxIdleConnections:    a.cfg.Database.MaxIdleConnections,
		ConnectionMaxLifetime: a.cfg.Database.ConnectionMaxLifetime,
	}

	db, err := database.NewPostgresDB(dbConfig, a.logger)
	if err != nil {
		return err
	}

	if err := database.RunMigrations(db.DB(), a.logger); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a.db = db

	return nil
}

// initProvider builds the upstream client and wraps it with the per-operation
// resilience policies. Current-weather and forecast calls each get their own
// retry budget, circuit breaker and outbound rate limiter.
func (a *App) initProvider() ports.WeatherProvider {
	httpClient := &http.Client{
		Timeout: a.cfg.WeatherAPI.HTTPTimeout,
	}

	client := weatherapi.NewClient(a.cfg.WeatherAPI.BaseURL, a.cfg.WeatherAPI.APIKey, httpClient, a.logger)

	res := a.cfg.Resilience

	breaker := circuitbreaker.Config{
		Interval:        res.BreakerInterval,
		Timeout:         res.BreakerTimeout,
		FailureRatio:    res.FailureRatio,
		MinimumRequests: res.MinimumRequests,
	}

	currentPolicy := resilience.NewPolicy(resilience.Config{
		Operation:      resilience.OpCurrentWeather,
		MaxRetries:     uint64(res.CurrentMaxRetries),
		InitialBackoff: res.InitialBackoff,
		MaxBackoff:     res.MaxBackoff,
		Rate:           rate.Limit(res.OutboundRate),
		Burst:          res.OutboundBurst,
		RateWait:       res.RateWait,
		Breaker:        breaker,
	}, a.logger)

	forecastPolicy := resilience.NewPolicy(resilience.Config{
		Operation:      resilience.OpForecast,
		MaxRetries:     uint64(res.ForecastMaxRetries),
		InitialBackoff: res.InitialBackoff,
		MaxBackoff:     res.MaxBackoff,
		Rate:           rate.Limit(res.OutboundRate),
		Burst:          res.OutboundBurst,
		RateWait:       res.RateWait,
		Breaker:        breaker,
	}, a.logger)

	var callMetrics resilience.CallMetrics
	if a.telemetry != nil {
		callMetrics = a.telemetry
	}

	a.provider = resilience.NewProvider(client, currentPolicy, forecastPolicy, callMetrics, a.logger)

	return a.provider
}

// initBackgroundServices creates the refresh and retention services and
// starts their loops when enabled. The returned refresh service also backs
// the manual refresh endpoint.
func (a *App) initBackgroundServices(
	locationRepo ports.LocationRepository,
	weatherRepo ports.WeatherRepository,
	forecastRepo ports.ForecastRepository,
	weatherService ports.WeatherService,
	forecastService ports.ForecastService,
) (ports.RefreshService, error) {
	var batchMetrics batch.Metrics
	if a.telemetry != nil {
		batchMetrics = a.telemetry
	}

	refreshService, err := services.NewRefreshService(locationRepo, weatherService, forecastService,
		batchMetrics, services.RefreshConfig{
			ChunkSize:    a.cfg.Refresh.ChunkSize,
			ForecastDays: a.cfg.Refresh.ForecastDays,
			Interval:     a.cfg.Refresh.Interval,
		}, a.logger)
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	a.loopCancel = cancel

	if a.cfg.Refresh.Enabled {
		go services.RunRefreshLoop(loopCtx, refreshService, a.cfg.Refresh.Interval, a.logger)
	}

	if a.cfg.Retention.Enabled {
		retentionService := services.NewRetentionService(weatherRepo, forecastRepo,
			services.RetentionConfig{
				WeatherMaxAge:    a.cfg.Retention.WeatherMaxAge,
				ForecastKeepDays: a.cfg.Retention.ForecastKeepDays,
				SweepInterval:    a.cfg.Retention.SweepInterval,
			}, a.logger)

		go services.RunRetentionLoop(loopCtx, retentionService, a.cfg.Retention.SweepInterval, a.logger)
	}

	return refreshService, nil
}

// setupRouter creates and configures the HTTP router with all middleware.
func (a *App) setupRouter(h handlers, rateLimitMiddleware *middleware.RateLimitMiddleware) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", a.healthHandler).Methods(http.MethodGet)

	// Version endpoint
	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(version.Get()); err != nil {
			a.logger.Error("failed to encode version info", zap.Error(err))
		}
	}).Methods(http.MethodGet)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Resilience stats endpoint
	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(a.provider.Stats()); err != nil {
			a.logger.Error("failed to encode provider stats", zap.Error(err))
		}
	}).Methods(http.MethodGet)

	// Apply observability middleware if telemetry is available
	if a.telemetry != nil {
		obsMiddleware := middleware.NewObservabilityMiddleware(a.telemetry, a.logger)
		router.Use(obsMiddleware.TracingMiddleware)
		router.Use(obsMiddleware.MetricsMiddleware)
		router.Use(obsMiddleware.LoggingMiddleware)
	}

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Apply rate limiting to API routes
	if rateLimitMiddleware != nil {
		api.Use(rateLimitMiddleware.Middleware)
	}

	// Ad-hoc fetch endpoints
	api.HandleFunc("/weather", h.weather.GetCurrent).Methods(http.MethodGet)
	api.HandleFunc("/forecast", h.forecasts.GetForecast).Methods(http.MethodGet)

	// Persistence-backed endpoints
	if h.locations != nil {
		api.HandleFunc("/locations", h.locations.Create).Methods(http.MethodPost)
		api.HandleFunc("/locations", h.locations.List).Methods(http.MethodGet)
		api.HandleFunc("/locations/all", h.locations.ListAll).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}", h.locations.GetByID).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}", h.locations.Update).Methods(http.MethodPut)
		api.HandleFunc("/locations/{id}", h.locations.Delete).Methods(http.MethodDelete)

		api.HandleFunc("/locations/{id}/weather", h.weather.GetCurrentForLocation).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}/weather/history", h.weather.History).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}/forecast", h.forecasts.GetForecastForLocation).Methods(http.MethodGet)
		api.HandleFunc("/locations/{id}/forecast/records", h.forecasts.QueryRecords).Methods(http.MethodGet)
	}

	if h.refresh != nil {
		api.HandleFunc("/refresh", h.refresh.Trigger).Methods(http.MethodPost)
	}

	return router
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}

	if a.db != nil {
		if err := a.db.Ping(); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if status["status"] == "ok" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		a.logger.Error("failed to encode health status", zap.Error(err))
	}
}
