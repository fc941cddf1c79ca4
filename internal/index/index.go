// Package index implements the indexing pipeline: it discovers source
// content, drives the chunker and embedder, and upserts the results
// into the vector store.
package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/memoria-dev/memoria/internal/chunker"
	"github.com/memoria-dev/memoria/internal/config"
	"github.com/memoria-dev/memoria/internal/embedding"
	"github.com/memoria-dev/memoria/internal/model"
	"github.com/memoria-dev/memoria/internal/store"
)

// Index drives indexing against one memory root. It owns no hidden
// state: construct one per root and pass it where it is needed.
type Index struct {
	cfg      config.Config
	store    store.VectorStore
	embedder embedding.Embedder
}

// New creates an indexing pipeline over the given store and embedder.
func New(cfg config.Config, st store.VectorStore, emb embedding.Embedder) *Index {
	return &Index{cfg: cfg, store: st, embedder: emb}
}

// Stats holds index statistics.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// Stats returns the total number of indexed items.
func (ix *Index) Stats() Stats {
	return Stats{ItemCount: ix.store.Count()}
}

// IndexItem embeds and upserts a single memory item.
func (ix *Index) IndexItem(ctx context.Context, item model.MemoryItem) error {
	vec, err := ix.embedder.Embed(ctx, item.Content)
	if err != nil {
		return fmt.Errorf("embed %s: %w", item.ID, err)
	}
	return ix.store.Upsert(ctx, store.Entry{ID: item.ID, Vector: vec, Item: item})
}

// IndexItems batch-embeds and upserts many items in one call. Batching
// is a throughput optimization at the embedding-service boundary.
func (ix *Index) IndexItems(ctx context.Context, items []model.MemoryItem) error {
	if len(items) == 0 {
		return nil
	}
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Content
	}
	vecs, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	entries := make([]store.Entry, len(items))
	for i, it := range items {
		entries[i] = store.Entry{ID: it.ID, Vector: vecs[i], Item: it}
	}
	return ix.store.UpsertBatch(ctx, entries)
}

// FileItems derives the memory items for one source file. Ids are a
// deterministic function of (type, source, section position), so
// re-deriving the same file replaces its previous items.
func FileItems(source, content string, typ model.ItemType) []model.MemoryItem {
	sections := chunker.Chunk(content, typ)
	items := make([]model.MemoryItem, 0, len(sections))
	sub := 0
	for i, sec := range sections {
		var slot string
		if i == 0 && sec.Title == "" && typ != model.TypeTopic {
			slot = model.PreambleSlot
		} else {
			slot = model.SectionSlot(sub)
			sub++
		}
		items = append(items, model.MemoryItem{
			ID:      model.FileItemID(typ, source, slot),
			Type:    typ,
			Content: strings.TrimSpace(sec.Body),
			Source:  source,
			Section: sec.Title,
		})
	}
	return items
}

// IndexFile incrementally re-indexes one source file from its new
// content. Section ids replace previously indexed sections at the same
// position; if the file shrank, ids for removed sections stay in the
// store until the next full rebuild.
func (ix *Index) IndexFile(ctx context.Context, path, content string, typ model.ItemType) (int, error) {
	if !model.ValidTypes[typ] || typ == model.TypeJournal {
		return 0, fmt.Errorf("cannot index file as type %q", typ)
	}
	items := FileItems(ix.sourceName(path), content, typ)
	if err := ix.IndexItems(ctx, items); err != nil {
		return 0, err
	}
	if typ == model.TypeTopic {
		if err := ix.RegenerateTopicsList(); err != nil {
			return len(items), err
		}
	}
	return len(items), nil
}

// IndexJournalEntry indexes one journal entry through the single-item
// path.
func (ix *Index) IndexJournalEntry(ctx context.Context, e model.JournalEntry) error {
	return ix.IndexItem(ctx, e.Item())
}

// Log appends an entry to the journal and indexes it. The log line is
// durable before the index write, so a failed embed loses nothing: the
// next rebuild picks the entry up from the log.
func (ix *Index) Log(ctx context.Context, topic, content, intent string) (model.JournalEntry, error) {
	entry := model.NewJournalEntry(topic, content, intent)
	if err := AppendJournal(ix.cfg.JournalPath, entry); err != nil {
		return entry, err
	}
	if err := ix.IndexJournalEntry(ctx, entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// Rebuild wipes the store and re-derives every item from current source
// files and the journal log. Slow by design (embedding latency times
// item count) and explicitly user-triggered. Returns the total item
// count indexed.
func (ix *Index) Rebuild(ctx context.Context) (int, error) {
	if err := ix.store.Reset(); err != nil {
		return 0, err
	}

	items, err := ix.collectFileItems()
	if err != nil {
		return 0, err
	}
	if err := ix.IndexItems(ctx, items); err != nil {
		return 0, err
	}
	total := len(items)

	// Journal entries go through the single-item path so rebuild and
	// incremental indexing share one code path.
	entries, _, err := ReadJournal(ix.cfg.JournalPath)
	if err != nil {
		return total, err
	}
	for _, e := range entries {
		if err := ix.IndexJournalEntry(ctx, e); err != nil {
			return total, err
		}
		total++
	}

	if err := ix.RegenerateTopicsList(); err != nil {
		return total, err
	}
	return total, nil
}

// collectFileItems derives items for every tracked source file in a
// fixed order: state, then projects, people, meetings, topics, each in
// lexical file order.
func (ix *Index) collectFileItems() ([]model.MemoryItem, error) {
	var items []model.MemoryItem

	if content, ok := readOptional(ix.cfg.StatePath); ok {
		items = append(items, FileItems(ix.sourceName(ix.cfg.StatePath), content, model.TypeState)...)
	}

	for _, typ := range []model.ItemType{model.TypeProject, model.TypePerson, model.TypeMeeting, model.TypeTopic} {
		dir, _ := ix.cfg.SourceDir(typ)
		files, err := listMarkdown(dir)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			content, ok := readOptional(path)
			if !ok {
				continue
			}
			items = append(items, FileItems(ix.sourceName(path), content, typ)...)
		}
	}

	return items, nil
}

// sourceName normalizes a file path to its root-relative form so the
// rebuild and incremental paths derive identical ids.
func (ix *Index) sourceName(path string) string {
	if rel, err := filepath.Rel(ix.cfg.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// readOptional reads a file, treating a missing file as absent rather
// than an error.
func readOptional(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// listMarkdown returns the .md files under dir in lexical order. A
// missing directory is empty, not an error.
func listMarkdown(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
