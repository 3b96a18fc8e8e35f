// Package batch provides partitioning and concurrent aggregation helpers for
// running per-item operations over large sequences without an unbounded
// in-flight burst.
package batch

import "fmt"

const (
	// DefaultChunkSize balances outbound rate-limit headroom, memory footprint
	// and batch-insert efficiency.
	DefaultChunkSize = 50

	// MaxChunkSize is a hard upper bound; larger requests fail, never clamp.
	MaxChunkSize = 100
)

// ValidateChunkSize rejects sizes below 1 or above MaxChunkSize.
func ValidateChunkSize(size int) error {
	if size < 1 {
		return fmt.Errorf("chunk size must be at least 1, got %d", size)
	}

	if size > MaxChunkSize {
		return fmt.Errorf("chunk size must not exceed %d, got %d", MaxChunkSize, size)
	}

	return nil
}

// Chunk partitions items into contiguous chunks of the given size.
// Chunk order matches input order, chunks do not overlap, the final chunk
// holds the remainder, and the concatenation of all chunks reconstructs the
// input exactly. The returned chunks share the input's backing array.
func Chunk[T any](items []T, size int) ([][]T, error) {
	if err := ValidateChunkSize(size); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, nil
	}

	chunks := make([][]T, 0, ChunkCount(len(items), size))

	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		chunks = append(chunks, items[start:end])
	}

	return chunks, nil
}

// ChunkCount returns ceil(n/size). It assumes size >= 1.
func ChunkCount(n, size int) int {
	return (n + size - 1) / size
}
