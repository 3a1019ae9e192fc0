package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// Extractor turns one document's text into a category map.
type Extractor interface {
	// Kind identifies what the extractor pulls out of text.
	Kind() domain.ExtractionKind

	// Extract never returns a nil map on success. Blank text fails with
	// domain.ErrInvalidInput without an AI call.
	Extract(ctx context.Context, text string) domain.ExtractionResult
}

// Ensure CategoryExtractor implements the interface.
var _ Extractor = (*CategoryExtractor)(nil)

//nolint:lll // System prompts are kept on one line.
const (
	expressionSystem = "You are an expert in marketing content analysis. Extract useful expressions from the given text, categorise them into mid-level categories, and return them as a JSON object of \"category\": [\"expression\", ...]."
	parameterSystem  = "You are an expert in named entity recognition. Extract the key entities from the given text, group them semantically under a representative keyword, and return them as a JSON object of \"keyword\": [\"entity\", ...]."
)

// CategoryExtractor asks the AI for a category map and parses it leniently.
// The expression and parameter extractors differ only in prompt and system text.
type CategoryExtractor struct {
	kind   domain.ExtractionKind
	prompt string
	system string
	ai     aiCall
}

// AIConfig holds the collaborators of an extractor.
type AIConfig struct {
	LLM     driven.LLMService
	Prompts driven.PromptStore
	Usage   driven.UsageRecorder // Optional.
	Model   string               // Empty uses the service default.
}

// NewExpressionExtractor creates an extractor for marketing expressions.
func NewExpressionExtractor(cfg AIConfig) *CategoryExtractor {
	return newCategoryExtractor(domain.ExtractionExpression, driven.PromptExpression, expressionSystem, cfg)
}

// NewParameterExtractor creates an extractor for grouped named entities.
func NewParameterExtractor(cfg AIConfig) *CategoryExtractor {
	return newCategoryExtractor(domain.ExtractionParameter, driven.PromptParameter, parameterSystem, cfg)
}

func newCategoryExtractor(kind domain.ExtractionKind, prompt, system string, cfg AIConfig) *CategoryExtractor {
	return &CategoryExtractor{
		kind:   kind,
		prompt: prompt,
		system: system,
		ai: aiCall{
			llm:     cfg.LLM,
			prompts: cfg.Prompts,
			usage:   cfg.Usage,
			model:   cfg.Model,
		},
	}
}

// Kind returns the extraction kind.
func (e *CategoryExtractor) Kind() domain.ExtractionKind {
	return e.kind
}

// Extract sends text to the AI and parses the JSON object it returns.
func (e *CategoryExtractor) Extract(ctx context.Context, text string) domain.ExtractionResult {
	if strings.TrimSpace(text) == "" {
		return domain.Failure(fmt.Errorf("%w: empty text", domain.ErrInvalidInput))
	}

	prompt, err := e.ai.render(e.prompt, struct{ Text string }{Text: text})
	if err != nil {
		return domain.Failure(err)
	}

	raw, err := e.ai.complete(ctx, string(e.kind), e.system, prompt)
	if err != nil {
		return domain.Failure(err)
	}

	m, err := parseCategoryMap(raw)
	if err != nil {
		return domain.Failure(err)
	}
	return domain.Success(m)
}

// parseCategoryMap decodes an AI response into a category map.
// Code fences and prose around the object are tolerated.
func parseCategoryMap(raw string) (*domain.CategoryMap, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrParse)
	}

	var m domain.CategoryMap
	err := json.Unmarshal([]byte(cleaned), &m)
	if err != nil {
		if inner := jsonObject(cleaned); inner != cleaned {
			err = json.Unmarshal([]byte(inner), &m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	return &m, nil
}
