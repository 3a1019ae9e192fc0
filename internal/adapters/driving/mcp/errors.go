// Package mcp provides an MCP (Model Context Protocol) server adapter for Quill.
// It lets AI assistants categorise keywords, generate manuscripts from stored
// analysis datasets and browse previously generated manuscripts.
package mcp

import "errors"

// ErrMissingManuscriptService is returned when the manuscript service is not provided.
var ErrMissingManuscriptService = errors.New("mcp: manuscript service is required")
