package services

import "context"

// Metrics receives cache and persistence measurements from the services.
// Implemented by the observability layer; a nil Metrics is a no-op.
type Metrics interface {
	RecordCacheHit(ctx context.Context, key string)
	RecordCacheMiss(ctx context.Context, key string)
	RecordRecordsSaved(ctx context.Context, kind string, n int)
}
