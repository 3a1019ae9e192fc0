// Package filesystem reads a corpus of text documents from a local directory
// and watches it for changes.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.CorpusReader = (*Reader)(nil)

// DefaultPattern selects plain text files.
const DefaultPattern = "*.txt"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NormaliserLookup finds the normaliser for a file path. A nil result means
// the file is read as plain text.
type NormaliserLookup interface {
	For(path string) driven.Normaliser
}

// Reader loads the files of one directory whose names match any of a set of
// glob patterns. Subdirectories and hidden files are ignored.
type Reader struct {
	pattern     string
	patterns    []string
	normalisers NormaliserLookup
}

// NewReader creates a reader for a comma-separated list of file patterns,
// e.g. "*.txt,*.md". An empty pattern uses DefaultPattern.
func NewReader(pattern string) (*Reader, error) {
	patterns := parsePatterns(pattern)
	if len(patterns) == 0 {
		pattern = DefaultPattern
		patterns = []string{DefaultPattern}
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("%w: file pattern %q: %w", domain.ErrInvalidInput, p, err)
		}
	}
	return &Reader{pattern: pattern, patterns: patterns}, nil
}

// WithNormalisers converts matching files through lookup before they are
// returned.
func (r *Reader) WithNormalisers(lookup NormaliserLookup) *Reader {
	r.normalisers = lookup
	return r
}

func parsePatterns(s string) []string {
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}

// Pattern returns the file pattern.
func (r *Reader) Pattern() string {
	return r.pattern
}

// Read returns the matching documents sorted by file name.
func (r *Reader) Read(ctx context.Context, dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: corpus directory %s", domain.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("%w: read directory %s: %w", domain.ErrInvalidInput, dir, err)
	}

	// os.ReadDir sorts by file name
	var docs []domain.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !r.matches(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := r.readDocument(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// matches reports whether a file name is part of the corpus.
func (r *Reader) matches(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, p := range r.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func (r *Reader) readDocument(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	var content string
	if n := r.lookup(path); n != nil {
		content, err = n.Normalise(data)
		if err != nil {
			return domain.Document{}, fmt.Errorf("normalise %s: %w", path, err)
		}
	} else {
		content = string(bytes.TrimPrefix(data, utf8BOM))
	}
	if !utf8.ValidString(content) {
		return domain.Document{}, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrInvalidInput, path)
	}

	return domain.Document{
		ID:      filepath.Base(path),
		Path:    path,
		Content: content,
	}, nil
}

func (r *Reader) lookup(path string) driven.Normaliser {
	if r.normalisers == nil {
		return nil
	}
	return r.normalisers.For(path)
}
