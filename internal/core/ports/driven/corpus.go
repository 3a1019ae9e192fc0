package driven

import (
	"context"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// CorpusReader loads text documents from a directory.
type CorpusReader interface {
	// Read returns the documents in dir matching the reader's file pattern,
	// in a stable order. A directory with no matching files yields no documents.
	Read(ctx context.Context, dir string) ([]domain.Document, error)
}

// Pacer spaces consecutive AI calls by a minimum interval.
type Pacer interface {
	// Wait blocks until the next call may proceed or ctx is done.
	Wait(ctx context.Context) error
}

// Normaliser converts a corpus file saved in a markup or document format
// into plain text.
type Normaliser interface {
	// Extensions lists the lower-case file extensions handled, dot included.
	Extensions() []string

	// Normalise extracts the readable text of data.
	// Undecodable input returns domain.ErrInvalidInput.
	Normalise(data []byte) (string, error)
}
