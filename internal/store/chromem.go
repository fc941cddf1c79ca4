package store

import (
	"context"
	"fmt"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/memoria-dev/memoria/internal/embedding"
	"github.com/memoria-dev/memoria/internal/model"
)

const collectionName = "memory"

// ChromemStore implements VectorStore on chromem-go, an embedded pure-Go
// vector database persisting to an opaque directory it owns entirely.
type ChromemStore struct {
	db   *chromem.DB
	col  *chromem.Collection
	path string
}

// NewChromemStore opens (or creates) the index directory at path.
func NewChromemStore(path string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	// Embeddings are always supplied by the caller, so the collection's
	// own embedding func is never invoked.
	col, err := db.GetOrCreateCollection(collectionName, nil, noEmbed)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	return &ChromemStore{db: db, col: col, path: path}, nil
}

func noEmbed(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("store does not embed; supply vectors explicitly")
}

func (s *ChromemStore) Upsert(ctx context.Context, e Entry) error {
	// AddDocument replaces any document with the same id.
	if err := s.col.AddDocument(ctx, toDocument(e)); err != nil {
		return fmt.Errorf("upsert %s: %w", e.ID, err)
	}
	return nil
}

func (s *ChromemStore) UpsertBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = toDocument(e)
	}
	if err := s.col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

func (s *ChromemStore) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *ChromemStore) Get(ctx context.Context, id string) (*Hit, error) {
	doc, err := s.col.GetByID(ctx, id)
	if err != nil {
		// chromem reports an unknown id as an error; a missing entry is
		// an expected outcome for lookups.
		if strings.Contains(err.Error(), "not found") {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return &Hit{Item: itemFromMeta(doc.ID, doc.Content, doc.Metadata), Score: 1}, nil
}

func (s *ChromemStore) Query(ctx context.Context, vector embedding.Vector, k int) ([]Hit, error) {
	// chromem rejects nResults above the collection size.
	if n := s.col.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.col.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{Item: itemFromMeta(r.ID, r.Content, r.Metadata), Score: float64(r.Similarity)}
	}
	return hits, nil
}

func (s *ChromemStore) Count() int {
	return s.col.Count()
}

// Reset drops and recreates the backing collection, wiping every entry.
func (s *ChromemStore) Reset() error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, noEmbed)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.col = col
	return nil
}

func (s *ChromemStore) Close() error {
	// chromem persists on write; nothing to flush.
	return nil
}

// toDocument flattens a memory item into the id/content/metadata shape
// the store holds. Stores cannot hold nested structures, so item fields
// become flat string metadata.
func toDocument(e Entry) chromem.Document {
	meta := map[string]string{
		"type":   string(e.Item.Type),
		"source": e.Item.Source,
	}
	if e.Item.Section != "" {
		meta["section"] = e.Item.Section
	}
	if e.Item.Timestamp != "" {
		meta["timestamp"] = e.Item.Timestamp
	}
	return chromem.Document{
		ID:        e.ID,
		Content:   e.Item.Content,
		Embedding: e.Vector,
		Metadata:  meta,
	}
}

// itemFromMeta rebuilds a memory item from its stored projection.
func itemFromMeta(id, content string, meta map[string]string) model.MemoryItem {
	return model.MemoryItem{
		ID:        id,
		Type:      model.ItemType(meta["type"]),
		Content:   content,
		Source:    meta["source"],
		Section:   meta["section"],
		Timestamp: meta["timestamp"],
	}
}
