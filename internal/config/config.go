// Package config resolves the on-disk layout of a memory root.
package config

import (
	"os"
	"path/filepath"

	"github.com/memoria-dev/memoria/internal/model"
)

// Config describes where a memory root keeps its sources, journal log,
// vector index, and derived files.
type Config struct {
	Root        string
	JournalPath string // append-only JSONL log
	StatePath   string // single state document
	ProjectsDir string
	PeopleDir   string
	MeetingsDir string
	TopicsDir   string
	TopicsList  string // derived listing, regenerated, never hand-edited
	IndexDir    string // opaque, owned by the vector store
}

// New builds the layout under the given root directory.
func New(root string) Config {
	return Config{
		Root:        root,
		JournalPath: filepath.Join(root, "journal.jsonl"),
		StatePath:   filepath.Join(root, "state.md"),
		ProjectsDir: filepath.Join(root, "projects"),
		PeopleDir:   filepath.Join(root, "people"),
		MeetingsDir: filepath.Join(root, "meetings"),
		TopicsDir:   filepath.Join(root, "topics"),
		TopicsList:  filepath.Join(root, "topics.md"),
		IndexDir:    filepath.Join(root, "index"),
	}
}

// FromEnv resolves the root from MEMORIA_ROOT, falling back to
// ~/.memoria.
func FromEnv() Config {
	root := os.Getenv("MEMORIA_ROOT")
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".memoria")
	}
	return New(root)
}

// SourceDir returns the directory holding files of the given type, or
// false for types that are not directory-backed (state, journal).
func (c Config) SourceDir(typ model.ItemType) (string, bool) {
	switch typ {
	case model.TypeProject:
		return c.ProjectsDir, true
	case model.TypePerson:
		return c.PeopleDir, true
	case model.TypeMeeting:
		return c.MeetingsDir, true
	case model.TypeTopic:
		return c.TopicsDir, true
	default:
		return "", false
	}
}
