package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	logger         *zap.Logger

	// HTTP metrics
	RequestCounter  metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ErrorCounter    metric.Int64Counter

	// Storage and cache metrics
	DBQueryDuration     metric.Float64Histogram
	RecordsSavedCounter metric.Int64Counter
	CacheHitCounter     metric.Int64Counter
	CacheMissCounter    metric.Int64Counter

	// Provider call metrics
	ProviderCallCounter metric.Int64Counter
	ProviderLatency     metric.Float64Histogram

	// Batch aggregation metrics
	BatchDuration       metric.Float64Histogram
	BatchSizeGauge      metric.Int64Gauge
	BatchSuccessCounter metric.Int64Counter
	BatchFailureCounter metric.Int64Counter
}

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	SampleRate     float64
}

func InitTelemetry(ctx context.Context, cfg Config, logger *zap.Logger) (*Telemetry, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tracerProvider, err := initTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracer provider: %w", err)
	}

	meterProvider, err := initMeterProvider(res)
	if err != nil {
		return nil, fmt.Errorf("failed to init meter provider: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	meter := meterProvider.Meter(cfg.ServiceName)

	t := &Telemetry{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Tracer:         tracerProvider.Tracer(cfg.ServiceName),
		Meter:          meter,
		logger:         logger,
	}

	if err := t.initInstruments(meter); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Telemetry) initInstruments(meter metric.Meter) error {
	var err error

	if t.RequestCounter, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.RequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if t.ErrorCounter, err = meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.DBQueryDuration, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Database query duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if t.RecordsSavedCounter, err = meter.Int64Counter(
		"records_saved_total",
		metric.WithDescription("Total number of weather and forecast records persisted"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.CacheHitCounter, err = meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.CacheMissCounter, err = meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.ProviderCallCounter, err = meter.Int64Counter(
		"provider_calls_total",
		metric.WithDescription("Total number of weather provider calls"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.ProviderLatency, err = meter.Float64Histogram(
		"provider_response_seconds",
		metric.WithDescription("Weather provider response latency in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if t.BatchDuration, err = meter.Float64Histogram(
		"batch_duration_seconds",
		metric.WithDescription("Whole-batch aggregation duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if t.BatchSizeGauge, err = meter.Int64Gauge(
		"batch_size",
		metric.WithDescription("Size of the most recent batch"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.BatchSuccessCounter, err = meter.Int64Counter(
		"batch_items_succeeded_total",
		metric.WithDescription("Total batch items that produced a result"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	if t.BatchFailureCounter, err = meter.Int64Counter(
		"batch_items_failed_total",
		metric.WithDescription("Total batch items whose operation failed"),
		metric.WithUnit("1"),
	); err != nil {
		return err
	}

	return nil
}

func initTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptrace.New(
		ctx,
		otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRate)),
	)

	return tp, nil
}

func initMeterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	return mp, nil
}

func (t *Telemetry) RecordRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status_code", statusCode),
	}

	t.RequestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	t.RequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if statusCode >= 400 {
		t.ErrorCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func (t *Telemetry) RecordDBQuery(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("error", err != nil),
	}

	t.DBQueryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if err != nil {
		t.ErrorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", "database"),
			attribute.String("operation", operation),
		))
	}
}

// RecordProviderCall tracks one outbound weather provider call.
func (t *Telemetry) RecordProviderCall(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("error", err != nil),
	}

	t.ProviderCallCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	t.ProviderLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBatch implements the batch.Metrics sink: whole-batch duration, a
// size gauge, and success/failure tallies.
func (t *Telemetry) RecordBatch(ctx context.Context, size, successes, failures int, duration time.Duration) {
	t.BatchDuration.Record(ctx, duration.Seconds())
	t.BatchSizeGauge.Record(ctx, int64(size))
	t.BatchSuccessCounter.Add(ctx, int64(successes))
	t.BatchFailureCounter.Add(ctx, int64(failures))
}

// RecordRecordsSaved counts persisted weather or forecast records by kind.
func (t *Telemetry) RecordRecordsSaved(ctx context.Context, kind string, n int) {
	t.RecordsSavedCounter.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (t *Telemetry) RecordCacheHit(ctx context.Context, key string) {
	t.CacheHitCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
	))
}

func (t *Telemetry) RecordCacheMiss(ctx context.Context, key string) {
	t.CacheMissCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
	))
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}

	return nil
}
