package normalisers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/normalisers/docx"
	"github.com/custodia-labs/quill-cli/internal/normalisers/html"
	"github.com/custodia-labs/quill-cli/internal/normalisers/markdown"
)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry holding ns.
func NewRegistry(ns ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range ns {
		r.Register(n)
	}
	return r
}

// Default returns a registry with the HTML, Markdown and DOCX normalisers.
func Default() *Registry {
	return NewRegistry(html.New(), markdown.New(), docx.New())
}

// Register adds n for each of its extensions. A later registration for the
// same extension replaces the earlier one.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// For returns the normaliser for the file at path, or nil when the file is
// read as plain text.
func (r *Registry) For(path string) driven.Normaliser {
	if r == nil {
		return nil
	}
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
