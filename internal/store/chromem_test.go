package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/memoria-dev/memoria/internal/embedding"
	"github.com/memoria-dev/memoria/internal/model"
)

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	s, err := NewChromemStore(filepath.Join(t.TempDir(), "index"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry(t *testing.T, id, content string, typ model.ItemType) Entry {
	t.Helper()
	vec, err := embedding.NewMockEmbedder().Embed(context.Background(), content)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	return Entry{
		ID:     id,
		Vector: vec,
		Item:   model.MemoryItem{ID: id, Type: typ, Content: content, Source: "test.md"},
	}
}

func TestUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Upsert(ctx, testEntry(t, "project:a:0", "first version", model.TypeProject)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(ctx, testEntry(t, "project:a:0", "second version", model.TypeProject)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if s.Count() != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", s.Count())
	}

	hit, err := s.Get(ctx, "project:a:0")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit == nil || hit.Item.Content != "second version" {
		t.Errorf("expected overwritten content, got %+v", hit)
	}
}

func TestGet_Unknown(t *testing.T) {
	s := newTestStore(t)
	hit, err := s.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit != nil {
		t.Errorf("expected nil for unknown id, got %+v", hit)
	}
}

func TestQueryRanking(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	emb := embedding.NewMockEmbedder()

	entries := []Entry{
		testEntry(t, "a", "release shipped today", model.TypeJournal),
		testEntry(t, "b", "garden watering schedule", model.TypeTopic),
		testEntry(t, "c", "shipped the new release build", model.TypeJournal),
	}
	if err := s.UpsertBatch(ctx, entries); err != nil {
		t.Fatalf("upsert batch: %v", err)
	}

	q, _ := emb.Embed(ctx, "release shipped")
	hits, err := s.Query(ctx, q, 3)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not ranked by score: %f before %f", hits[i-1].Score, hits[i].Score)
		}
	}
	if hits[len(hits)-1].Item.ID != "b" {
		t.Errorf("expected unrelated entry ranked last, got %q", hits[len(hits)-1].Item.ID)
	}
}

func TestQuery_EmptyStore(t *testing.T) {
	s := newTestStore(t)
	q, _ := embedding.NewMockEmbedder().Embed(context.Background(), "anything")
	hits, err := s.Query(context.Background(), q, 5)
	if err != nil {
		t.Fatalf("query on empty store: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestQuery_ClampsOverfetch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Upsert(ctx, testEntry(t, "only", "a single entry", model.TypeState))

	q, _ := embedding.NewMockEmbedder().Embed(ctx, "entry")
	hits, err := s.Query(ctx, q, 10)
	if err != nil {
		t.Fatalf("query with k above count: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("expected 1 hit, got %d", len(hits))
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Upsert(ctx, testEntry(t, "x", "some content", model.TypeState))

	if err := s.Delete(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected empty store, got %d", s.Count())
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Upsert(ctx, testEntry(t, "x", "content one", model.TypeState))
	s.Upsert(ctx, testEntry(t, "y", "content two", model.TypeState))

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected 0 after reset, got %d", s.Count())
	}

	// Store stays usable after a reset.
	if err := s.Upsert(ctx, testEntry(t, "z", "content three", model.TypeState)); err != nil {
		t.Fatalf("upsert after reset: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("expected 1 after re-upsert, got %d", s.Count())
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "index")

	s, err := NewChromemStore(dir)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Upsert(ctx, testEntry(t, "keep", "persisted content", model.TypeTopic))
	s.Close()

	reopened, err := NewChromemStore(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	if reopened.Count() != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", reopened.Count())
	}
	hit, err := reopened.Get(ctx, "keep")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit == nil || hit.Item.Content != "persisted content" {
		t.Errorf("unexpected entry after reopen: %+v", hit)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	item := model.MemoryItem{
		ID:        "journal:2026-03-01T10:00:00Z",
		Type:      model.TypeJournal,
		Content:   "shipped v1",
		Source:    model.JournalSource,
		Section:   "build",
		Timestamp: "2026-03-01T10:00:00Z",
	}
	vec, _ := embedding.NewMockEmbedder().Embed(ctx, item.Content)
	if err := s.Upsert(ctx, Entry{ID: item.ID, Vector: vec, Item: item}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hit, err := s.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit.Item != item {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", hit.Item, item)
	}
}
