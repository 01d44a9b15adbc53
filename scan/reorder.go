package scan

import (
	"fmt"
	"sort"

	"github.com/paragrep-io/paragrep/types"
)

// ReorderBuffer holds out-of-order chunks until their predecessors have been
// processed, releasing them in strictly ascending file-offset order. Between
// pops it holds at most one chunk per in-flight worker beyond the expected
// one, so the map stays tiny.
type ReorderBuffer struct {
	chunks map[int64]*types.Chunk
}

// NewReorderBuffer creates an empty reorder buffer.
func NewReorderBuffer() *ReorderBuffer {
	return &ReorderBuffer{chunks: make(map[int64]*types.Chunk)}
}

// Insert places a chunk into the buffer keyed by its offset.
// Duplicate offsets violate the cover invariant and are rejected.
func (b *ReorderBuffer) Insert(chunk *types.Chunk) error {
	if _, exists := b.chunks[chunk.Offset]; exists {
		return fmt.Errorf("reorder: duplicate chunk at offset %d", chunk.Offset)
	}
	b.chunks[chunk.Offset] = chunk
	return nil
}

// PopExpected removes and returns the chunk at exactly the expected offset,
// or nil when it has not arrived yet.
func (b *ReorderBuffer) PopExpected(expected int64) *types.Chunk {
	chunk, ok := b.chunks[expected]
	if !ok {
		return nil
	}
	delete(b.chunks, expected)
	return chunk
}

// Len is the number of chunks currently held.
func (b *ReorderBuffer) Len() int {
	return len(b.chunks)
}

// Offsets returns the held offsets in ascending order, for diagnostics.
func (b *ReorderBuffer) Offsets() []int64 {
	offsets := make([]int64, 0, len(b.chunks))
	for off := range b.chunks {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}
