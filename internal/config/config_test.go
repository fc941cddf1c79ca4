package config

import (
	"path/filepath"
	"testing"

	"github.com/memoria-dev/memoria/internal/model"
)

func TestNewLayout(t *testing.T) {
	cfg := New("/mem")

	if cfg.JournalPath != filepath.Join("/mem", "journal.jsonl") {
		t.Errorf("unexpected journal path %q", cfg.JournalPath)
	}
	if cfg.IndexDir != filepath.Join("/mem", "index") {
		t.Errorf("unexpected index dir %q", cfg.IndexDir)
	}
	if cfg.TopicsList != filepath.Join("/mem", "topics.md") {
		t.Errorf("unexpected listing path %q", cfg.TopicsList)
	}
}

func TestSourceDir(t *testing.T) {
	cfg := New("/mem")

	dir, ok := cfg.SourceDir(model.TypeProject)
	if !ok || dir != cfg.ProjectsDir {
		t.Errorf("unexpected project dir %q", dir)
	}
	if _, ok := cfg.SourceDir(model.TypeJournal); ok {
		t.Error("journal is not directory-backed")
	}
	if _, ok := cfg.SourceDir(model.TypeState); ok {
		t.Error("state is a single file, not a directory")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MEMORIA_ROOT", "/custom/root")
	cfg := FromEnv()
	if cfg.Root != "/custom/root" {
		t.Errorf("unexpected root %q", cfg.Root)
	}
}
