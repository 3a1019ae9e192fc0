package mcp

import (
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Manuscripts generates and lists manuscripts.
	Manuscripts driving.ManuscriptService

	// Categorizer routes keywords. Optional; categorize_keyword reports an
	// error when it is missing.
	Categorizer driving.Categorizer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Manuscripts == nil {
		return ErrMissingManuscriptService
	}
	return nil
}
