package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RegenerateTopicsList rewrites the derived listing of topic notes: one
// "- filename - title" line per topic file, sorted by title. The
// listing is a pure projection with no state of its own, so it is
// regenerated unconditionally on every topic write.
func (ix *Index) RegenerateTopicsList() error {
	files, err := listMarkdown(ix.cfg.TopicsDir)
	if err != nil {
		return err
	}

	type topic struct {
		name  string
		title string
	}
	topics := make([]topic, 0, len(files))
	for _, path := range files {
		content, ok := readOptional(path)
		if !ok {
			continue
		}
		name := filepath.Base(path)
		topics = append(topics, topic{name: name, title: topicTitle(content, name)})
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].title != topics[j].title {
			return topics[i].title < topics[j].title
		}
		return topics[i].name < topics[j].name
	})

	var b strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s - %s\n", t.name, t.title)
	}

	if err := os.MkdirAll(filepath.Dir(ix.cfg.TopicsList), 0o755); err != nil {
		return fmt.Errorf("create listing dir: %w", err)
	}
	if err := os.WriteFile(ix.cfg.TopicsList, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write topic listing: %w", err)
	}
	return nil
}

// topicTitle extracts the first level-1 heading as the human title,
// falling back to the filename.
func topicTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			if t := strings.TrimSpace(strings.TrimPrefix(line, "# ")); t != "" {
				return t
			}
		}
	}
	return fallback
}
