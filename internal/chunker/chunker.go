// Package chunker splits markdown documents into addressable sections
// for search indexing.
package chunker

import (
	"strings"

	"github.com/memoria-dev/memoria/internal/model"
)

// Section is one addressable unit of a document: the heading it was
// extracted from (empty for the preamble and for whole-file items) and
// its body text.
type Section struct {
	Title string
	Body  string
}

const headingMarker = "## "

// Chunk splits markdown content into an ordered list of sections.
//
// The text before the first level-2 heading becomes the preamble
// section when it has non-whitespace content. Each `## ` line starts a
// new section titled by the rest of that line; sections with empty
// bodies are dropped. Topic notes are meant to stay compact and
// self-contained, so for model.TypeTopic the whole document is returned
// as a single section regardless of internal headings.
//
// Pure function: no I/O, deterministic for any input.
func Chunk(content string, typ model.ItemType) []Section {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	if typ == model.TypeTopic {
		return []Section{{Body: content}}
	}

	lines := strings.Split(content, "\n")
	var sections []Section

	var title string
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		body = nil
		if text == "" {
			return
		}
		sections = append(sections, Section{Title: title, Body: text})
	}

	for _, line := range lines {
		if strings.HasPrefix(line, headingMarker) {
			flush()
			title = strings.TrimSpace(strings.TrimPrefix(line, headingMarker))
			continue
		}
		body = append(body, line)
	}
	flush()

	return sections
}
