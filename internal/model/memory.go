// Package model defines the core memory data types and id scheme.
package model

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ItemType classifies an indexed memory item. The set is closed.
type ItemType string

const (
	TypeJournal ItemType = "journal"
	TypeState   ItemType = "state"
	TypeProject ItemType = "project"
	TypePerson  ItemType = "person"
	TypeMeeting ItemType = "meeting"
	TypeTopic   ItemType = "topic"
)

// ValidTypes are the allowed item types.
var ValidTypes = map[ItemType]bool{
	TypeJournal: true,
	TypeState:   true,
	TypeProject: true,
	TypePerson:  true,
	TypeMeeting: true,
	TypeTopic:   true,
}

// JournalSource is the source identifier for journal-derived items.
const JournalSource = "journal-log"

// MemoryItem is the atomic indexed unit: one embeddable piece of content
// with a deterministic identity, so re-indexing the same logical unit
// overwrites instead of duplicating.
type MemoryItem struct {
	ID        string   `json:"id"`
	Type      ItemType `json:"type"`
	Content   string   `json:"content"`
	Source    string   `json:"source"`
	Section   string   `json:"section,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// JournalEntry is one append-only journal log record. The log is the
// source of truth; the index is a derived cache over it.
type JournalEntry struct {
	Timestamp string `json:"timestamp"`
	Topic     string `json:"topic"`
	Content   string `json:"content"`
	Intent    string `json:"intent,omitempty"`
}

// SearchResult is a memory item with its similarity score and optional
// associative neighbors.
type SearchResult struct {
	MemoryItem
	Score   float64       `json:"score"`
	Related []RelatedItem `json:"related,omitempty"`
}

// RelatedItem is a compact reference to a semantically near item.
type RelatedItem struct {
	ID      string   `json:"id"`
	Type    ItemType `json:"type"`
	Source  string   `json:"source"`
	Snippet string   `json:"snippet"`
	Score   float64  `json:"score"`
}

// PreambleSlot is the section slot for text before the first heading.
const PreambleSlot = "preamble"

// FileItemID derives the id for a file-derived item from its type,
// source name, and section slot (a section index or PreambleSlot).
// The source component is escaped so names containing the id separator
// cannot collide with another (source, slot) pair.
func FileItemID(typ ItemType, source, slot string) string {
	return string(typ) + ":" + url.QueryEscape(source) + ":" + slot
}

// SectionSlot converts a section position into an id slot.
func SectionSlot(i int) string {
	return strconv.Itoa(i)
}

// JournalItemID derives the id for a journal item from its timestamp.
// Two log lines with the same timestamp map to the same id, so the
// later one overwrites the earlier in the index.
func JournalItemID(timestamp string) string {
	return string(TypeJournal) + ":" + timestamp
}

// NewJournalEntry builds an entry stamped with the current UTC time.
func NewJournalEntry(topic, content, intent string) JournalEntry {
	return JournalEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Topic:     topic,
		Content:   content,
		Intent:    intent,
	}
}

// Item converts a journal entry into its indexed form. The topic rides
// in the section field, mirroring how file items carry their heading.
func (e JournalEntry) Item() MemoryItem {
	return MemoryItem{
		ID:        JournalItemID(e.Timestamp),
		Type:      TypeJournal,
		Content:   e.Content,
		Source:    JournalSource,
		Section:   e.Topic,
		Timestamp: e.Timestamp,
	}
}

// ParseJournalLine parses one JSONL journal line. Lines missing a
// timestamp or content are rejected so rebuild can count and skip them.
func ParseJournalLine(line []byte) (JournalEntry, error) {
	var e JournalEntry
	if err := json.Unmarshal(line, &e); err != nil {
		return JournalEntry{}, err
	}
	if e.Timestamp == "" {
		return JournalEntry{}, fmt.Errorf("journal line missing timestamp")
	}
	if e.Content == "" {
		return JournalEntry{}, fmt.Errorf("journal line missing content")
	}
	return e, nil
}
