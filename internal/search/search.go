// Package search executes similarity queries with post-hoc filtering
// and associative relatedness expansion.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/memoria-dev/memoria/internal/embedding"
	"github.com/memoria-dev/memoria/internal/model"
	"github.com/memoria-dev/memoria/internal/store"
)

const (
	// DefaultLimit caps primary results when the caller gives none.
	DefaultLimit = 5

	// relatedFanout is how many neighbor candidates each result pulls.
	relatedFanout = 8

	// relatedFloor is the similarity a neighbor must exceed to count.
	relatedFloor = 0.4

	// relatedCap is the most related items attached to one result.
	relatedCap = 3

	// snippetLen is the content prefix length of a related item.
	snippetLen = 160
)

// Options controls a search.
type Options struct {
	Limit          int
	Type           model.ItemType // filter to one type when set
	Since          time.Time      // timestamp lower bound when set
	IncludeRelated bool
}

// Engine answers similarity queries against the vector store.
type Engine struct {
	store    store.VectorStore
	embedder embedding.Embedder
}

// New creates a search engine over the given store and embedder.
func New(st store.VectorStore, emb embedding.Embedder) *Engine {
	return &Engine{store: st, embedder: emb}
}

// Search embeds the query, retrieves nearest neighbors, applies type
// and since filters in memory, and truncates to the limit. Results are
// ordered purely by similarity score descending; ties stay in
// store-defined order. An empty index yields an empty list.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]model.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Over-fetch to survive post-filtering; the store may not support
	// rich predicates natively and result sets are personal-scale.
	hits, err := e.store.Query(ctx, vec, limit*2)
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, limit)
	for _, h := range hits {
		if !matches(h.Item, opts) {
			continue
		}
		results = append(results, model.SearchResult{MemoryItem: h.Item, Score: h.Score})
		if len(results) == limit {
			break
		}
	}

	if opts.IncludeRelated {
		exclude := make(map[string]bool, len(results))
		for _, r := range results {
			exclude[r.ID] = true
		}
		for i := range results {
			related, err := e.expand(ctx, results[i].MemoryItem, exclude)
			if err != nil {
				return nil, err
			}
			results[i].Related = related
		}
	}

	return results, nil
}

// GetEntryWithRelated looks an item up by id and expands its
// neighborhood. An unknown id returns (nil, nil): not found is an
// expected outcome for a lookup, not an error.
func (e *Engine) GetEntryWithRelated(ctx context.Context, id string) (*model.SearchResult, error) {
	hit, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return nil, nil
	}

	result := &model.SearchResult{MemoryItem: hit.Item, Score: hit.Score}
	related, err := e.expand(ctx, hit.Item, map[string]bool{id: true})
	if err != nil {
		return nil, err
	}
	result.Related = related
	return result, nil
}

// expand surfaces associative context for one item: the item's own
// content is re-embedded and queried, so the "graph" is implicit,
// recomputed from embedding proximity with no stored edges.
func (e *Engine) expand(ctx context.Context, item model.MemoryItem, exclude map[string]bool) ([]model.RelatedItem, error) {
	vec, err := e.embedder.Embed(ctx, item.Content)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", item.ID, err)
	}

	hits, err := e.store.Query(ctx, vec, relatedFanout)
	if err != nil {
		return nil, err
	}

	var related []model.RelatedItem
	for _, h := range hits {
		if exclude[h.Item.ID] || h.Score <= relatedFloor {
			continue
		}
		related = append(related, model.RelatedItem{
			ID:      h.Item.ID,
			Type:    h.Item.Type,
			Source:  h.Item.Source,
			Snippet: snippet(h.Item.Content),
			Score:   h.Score,
		})
		if len(related) == relatedCap {
			break
		}
	}
	return related, nil
}

func matches(item model.MemoryItem, opts Options) bool {
	if opts.Type != "" && item.Type != opts.Type {
		return false
	}
	if !opts.Since.IsZero() {
		ts, err := time.Parse(time.RFC3339Nano, item.Timestamp)
		if err != nil || ts.Before(opts.Since) {
			return false
		}
	}
	return true
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLen {
		return content
	}
	return string(runes[:snippetLen])
}
