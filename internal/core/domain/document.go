package domain

import "strings"

// Document is one text file of a corpus.
// Documents live for a single pipeline run and are read-only once loaded.
type Document struct {
	// ID is the file name, used in progress reporting.
	ID string

	// Path is the location the document was read from.
	Path string

	// Content is the raw text.
	Content string
}

// IsBlank reports whether the content is empty after trimming whitespace.
// Blank documents are skipped rather than sent to an AI adapter.
func (d Document) IsBlank() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Stem returns the file name without its extension.
func (d Document) Stem() string {
	if i := strings.LastIndex(d.ID, "."); i > 0 {
		return d.ID[:i]
	}
	return d.ID
}
