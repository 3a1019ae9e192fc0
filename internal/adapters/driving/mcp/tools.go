package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// CategorizeInput is the input schema for the categorize_keyword tool.
type CategorizeInput struct {
	Keyword string `json:"keyword" jsonschema:"the marketing keyword to categorise, e.g. 강남 피부과"`
}

// CategorizeOutput is the output schema for the categorize_keyword tool.
type CategorizeOutput struct {
	Category string `json:"category"`
}

// GenerateInput is the input schema for the generate_manuscript tool.
type GenerateInput struct {
	Keyword  string `json:"keyword" jsonschema:"keyword or instructions for the blog post"`
	Category string `json:"category,omitempty" jsonschema:"routing category whose dataset to use; categorised from the keyword when empty"`
}

// ManuscriptOutput is a stored manuscript.
type ManuscriptOutput struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Keyword   string `json:"keyword,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ListInput is the input schema for the list_manuscripts tool.
type ListInput struct {
	Category string `json:"category" jsonschema:"routing category to list manuscripts from"`
}

// ListOutput is the output schema for the list_manuscripts tool.
type ListOutput struct {
	Manuscripts []ManuscriptOutput `json:"manuscripts"`
	Count       int                `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "categorize_keyword",
		Description: "Map a marketing keyword to one of Quill's routing categories",
	}, s.handleCategorize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_manuscript",
		Description: "Generate and store a blog manuscript from a category's analysis dataset",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_manuscripts",
		Description: "List manuscripts stored under a routing category",
	}, s.handleList)
}

// handleCategorize handles the categorize_keyword tool invocation.
func (s *Server) handleCategorize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CategorizeInput,
) (*mcp.CallToolResult, CategorizeOutput, error) {
	if s.ports.Categorizer == nil {
		return nil, CategorizeOutput{}, errors.New("keyword categorisation is not configured")
	}

	category, err := s.ports.Categorizer.Categorize(ctx, input.Keyword)
	if err != nil {
		return nil, CategorizeOutput{}, err
	}
	return nil, CategorizeOutput{Category: category.String()}, nil
}

// handleGenerate handles the generate_manuscript tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, ManuscriptOutput, error) {
	var (
		m   *domain.Manuscript
		err error
	)
	if strings.TrimSpace(input.Category) == "" {
		m, err = s.ports.Manuscripts.GenerateForKeyword(ctx, input.Keyword)
	} else {
		category, perr := parseCategory(input.Category)
		if perr != nil {
			return nil, ManuscriptOutput{}, perr
		}
		m, err = s.ports.Manuscripts.Generate(ctx, category, input.Keyword)
	}
	if err != nil {
		return nil, ManuscriptOutput{}, err
	}
	return nil, toOutput(*m), nil
}

// handleList handles the list_manuscripts tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, ListOutput{}, err
	}

	manuscripts, err := s.ports.Manuscripts.List(ctx, category)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Manuscripts: make([]ManuscriptOutput, len(manuscripts)),
		Count:       len(manuscripts),
	}
	for i := range manuscripts {
		output.Manuscripts[i] = toOutput(manuscripts[i])
	}
	return nil, output, nil
}

// parseCategory accepts only members of the closed routing set.
func parseCategory(label string) (domain.RoutingCategory, error) {
	category, ok := domain.ParseRoutingCategory(label)
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, label)
	}
	return category, nil
}

func toOutput(m domain.Manuscript) ManuscriptOutput {
	return ManuscriptOutput{
		ID:        m.ID,
		Category:  m.Category.String(),
		Keyword:   m.Keyword,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
