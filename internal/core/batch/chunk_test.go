// Package batch contains unit tests for the chunking helpers.
package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestChunk tests partitioning across sizes and lengths.
func TestChunk(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		size       int
		wantChunks int
		wantLast   int
	}{
		{name: "exact multiple", n: 10, size: 5, wantChunks: 2, wantLast: 5},
		{name: "remainder", n: 11, size: 5, wantChunks: 3, wantLast: 1},
		{name: "single chunk", n: 3, size: 50, wantChunks: 1, wantLast: 3},
		{name: "size one", n: 4, size: 1, wantChunks: 4, wantLast: 1},
		{name: "default size", n: 120, size: DefaultChunkSize, wantChunks: 3, wantLast: 20},
		{name: "max size", n: 250, size: MaxChunkSize, wantChunks: 3, wantLast: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.n)
			for i := range items {
				items[i] = i
			}

			chunks, err := Chunk(items, tt.size)

			assert.NoError(t, err)
			assert.Len(t, chunks, tt.wantChunks)
			assert.Equal(t, tt.wantChunks, ChunkCount(tt.n, tt.size))
			assert.Len(t, chunks[len(chunks)-1], tt.wantLast)

			// All chunks except the last hold exactly size items, and the
			// concatenation reconstructs the input in order.
			var flat []int

			for i, chunk := range chunks {
				if i < len(chunks)-1 {
					assert.Len(t, chunk, tt.size)
				}

				flat = append(flat, chunk...)
			}

			assert.Equal(t, items, flat)
		})
	}
}

// TestChunk_EmptyInput tests that an empty sequence yields no chunks.
func TestChunk_EmptyInput(t *testing.T) {
	chunks, err := Chunk([]string{}, 10)

	assert.NoError(t, err)
	assert.Empty(t, chunks)
}

// TestChunk_InvalidSize tests the fail-fast bounds on chunk size.
func TestChunk_InvalidSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "zero", size: 0},
		{name: "negative", size: -3},
		{name: "above maximum", size: MaxChunkSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Chunk([]int{1, 2, 3}, tt.size)

			assert.Error(t, err)
			assert.Nil(t, chunks)
		})
	}
}
