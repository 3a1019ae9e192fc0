package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Quill resources.
	uriScheme = "quill://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "The routing categories a keyword can be mapped to",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "datasets/{category}",
		Name:        "dataset-summary",
		Description: "Size of the analysis dataset stored under a routing category",
		MIMEType:    "application/json",
	}, s.handleDatasetResource)
}

// handleCategoriesResource returns the closed routing set.
func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := domain.RoutingCategories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return jsonResult(req.Params.URI, names)
}

// datasetSummary counts the parts of a stored dataset.
type datasetSummary struct {
	Category    string   `json:"category"`
	UniqueWords int      `json:"unique_words"`
	Sentences   int      `json:"sentences"`
	Expressions int      `json:"expression_categories"`
	Parameters  int      `json:"parameter_categories"`
	Missing     []string `json:"missing,omitempty"`
}

// handleDatasetResource summarises the dataset of one category.
func (s *Server) handleDatasetResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	label := extractCategory(req.Params.URI)
	category, ok := domain.ParseRoutingCategory(label)
	if label == "" || !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	dataset, err := s.ports.Manuscripts.Dataset(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	return jsonResult(req.Params.URI, datasetSummary{
		Category:    category.String(),
		UniqueWords: dataset.UniqueWords.Len(),
		Sentences:   len(dataset.Sentences),
		Expressions: dataset.Expressions.Len(),
		Parameters:  dataset.Parameters.Len(),
		Missing:     dataset.MissingFields(),
	})
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCategory extracts the category from a URI like quill://datasets/{category}.
func extractCategory(uri string) string {
	const prefix = uriScheme + "datasets/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
