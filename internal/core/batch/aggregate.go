package batch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics receives measurements for a completed batch run. Implemented by
// the observability layer; a nil Metrics is a no-op.
type Metrics interface {
	RecordBatch(ctx context.Context, size, successes, failures int, duration time.Duration)
}

// Aggregator runs a per-item operation over a sequence in fixed-size chunks,
// keeping successful results and swallowing per-item failures. Failure
// identity is not preserved beyond the aggregate count; each swallowed
// failure is logged at warn.
type Aggregator[T, R any] struct {
	chunkSize int
	metrics   Metrics
	logger    *zap.Logger
}

// NewAggregator creates an aggregator with the given chunk size.
//
// Parameters:
//   - chunkSize: Items per chunk; must be within ValidateChunkSize bounds
//   - metrics: Sink for batch measurements, may be nil
//   - logger: Zap logger for swallowed item failures
//
// Returns:
//   - *Aggregator[T, R]: Configured aggregator
//   - error: Chunk size out of range
func NewAggregator[T, R any](chunkSize int, metrics Metrics, logger *zap.Logger) (*Aggregator[T, R], error) {
	if err := ValidateChunkSize(chunkSize); err != nil {
		return nil, err
	}

	return &Aggregator[T, R]{
		chunkSize: chunkSize,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Aggregate applies fn to every item concurrently and returns the successful
// results. All chunks' work is started together; the fixed chunk size shapes
// the fan-out rather than a strict admission gate. Result order carries no
// relation to input order beyond each result tracing back to exactly one
// item. A failed item resolves to an absent result; siblings are not
// cancelled. The call blocks until the whole batch is done.
//
// Empty input returns an empty slice immediately with zero-valued metrics.
func (a *Aggregator[T, R]) Aggregate(ctx context.Context, items []T, fn func(context.Context, T) (R, error)) []R {
	start := time.Now()

	if len(items) == 0 {
		if a.metrics != nil {
			a.metrics.RecordBatch(ctx, 0, 0, 0, time.Since(start))
		}

		return []R{}
	}

	chunks, err := Chunk(items, a.chunkSize)
	if err != nil {
		// chunkSize was validated at construction, so this cannot happen
		a.logger.Error("chunking failed", zap.Error(err))
		return []R{}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]R, 0, len(items))
	)

	for _, chunk := range chunks {
		for _, item := range chunk {
			wg.Add(1)

			go func(item T) {
				defer wg.Done()

				result, err := fn(ctx, item)

				if err != nil {
					a.logger.Warn("batch item failed",
						zap.Any("item", item),
						zap.Error(err))

					return
				}

				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}(item)
		}
	}

	wg.Wait()

	duration := time.Since(start)
	failures := len(items) - len(results)

	if a.metrics != nil {
		a.metrics.RecordBatch(ctx, len(items), len(results), failures, duration)
	}

	a.logger.Info("batch aggregation completed",
		zap.Int("size", len(items)),
		zap.Int("successes", len(results)),
		zap.Int("failures", failures),
		zap.Duration("duration", duration))

	return results
}
