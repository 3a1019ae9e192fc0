package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// Ensure KeywordCategorizer implements the interface.
var _ driving.Categorizer = (*KeywordCategorizer)(nil)

const categorizeSystem = "You are a keyword categorisation expert. Answer with the category name only."

// KeywordCategorizer maps keywords to routing categories with one AI call.
type KeywordCategorizer struct {
	ai aiCall
}

// NewKeywordCategorizer creates a categorizer.
func NewKeywordCategorizer(cfg AIConfig) *KeywordCategorizer {
	return &KeywordCategorizer{
		ai: aiCall{
			llm:     cfg.LLM,
			prompts: cfg.Prompts,
			usage:   cfg.Usage,
			model:   cfg.Model,
		},
	}
}

// Categorize returns a member of the closed routing set. Out-of-set answers
// and AI failures fall back to domain.FallbackCategory; configuration
// errors are returned.
func (c *KeywordCategorizer) Categorize(ctx context.Context, keyword string) (domain.RoutingCategory, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", fmt.Errorf("%w: keyword is required", domain.ErrInvalidInput)
	}

	names := make([]string, 0, len(domain.RoutingCategories()))
	for _, cat := range domain.RoutingCategories() {
		names = append(names, cat.String())
	}

	prompt, err := c.ai.render(driven.PromptCategorize, struct {
		Keyword    string
		Categories string
	}{Keyword: keyword, Categories: strings.Join(names, ", ")})
	if err != nil {
		return "", err
	}

	label, err := c.ai.complete(ctx, domain.StageCategorize, categorizeSystem, prompt)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return "", err
		}
		logger.Warn("categorize %q: falling back to %s: %v", keyword, domain.FallbackCategory, err)
		return domain.FallbackCategory, nil
	}

	cat, ok := domain.ParseRoutingCategory(label)
	if !ok {
		logger.Warn("categorize %q: unknown label %q, using %s", keyword, label, cat)
	}
	logger.Debug("categorize %q -> %s", keyword, cat)
	return cat, nil
}
