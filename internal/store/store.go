// Package store provides the vector index contract and its chromem-go
// implementation.
package store

import (
	"context"

	"github.com/memoria-dev/memoria/internal/embedding"
	"github.com/memoria-dev/memoria/internal/model"
)

// Entry is what the index holds for one memory item: its id, embedding
// vector, and the item fields as metadata.
type Entry struct {
	ID     string
	Vector embedding.Vector
	Item   model.MemoryItem
}

// Hit is one ranked nearest-neighbor result. Score is cosine
// similarity, higher is more relevant.
type Hit struct {
	Item  model.MemoryItem
	Score float64
}

// VectorStore is the durable id -> (vector, metadata) map with
// nearest-neighbor query. The index is a cache: it can be wiped and
// rebuilt entirely from source files and the journal log.
type VectorStore interface {
	// Upsert writes one entry, overwriting any entry with the same id.
	Upsert(ctx context.Context, e Entry) error

	// UpsertBatch writes many entries in one call.
	UpsertBatch(ctx context.Context, entries []Entry) error

	// Delete removes entries by id. Unknown ids are ignored.
	Delete(ctx context.Context, ids ...string) error

	// Get returns the entry with the given id, or nil when absent.
	Get(ctx context.Context, id string) (*Hit, error)

	// Query returns up to k nearest neighbors ranked by similarity.
	// An empty index yields an empty result, not an error.
	Query(ctx context.Context, vector embedding.Vector, k int) ([]Hit, error)

	// Count returns the number of indexed entries.
	Count() int

	// Reset wipes every entry, keeping the store usable.
	Reset() error

	// Close releases store resources.
	Close() error
}
