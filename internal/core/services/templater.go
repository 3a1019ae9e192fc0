package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

//nolint:lll // System prompts are kept on one line.
const templateSystem = "You are a text templating assistant. Replace the given values in the text segment with their bracketed category placeholders based on the parameter map. Output only the templated text."

// Templater replaces known entity values in text with category placeholders.
type Templater struct {
	ai    aiCall
	pacer driven.Pacer
}

// NewTemplater creates a templater. A nil pacer disables pacing.
func NewTemplater(cfg AIConfig, pacer driven.Pacer) *Templater {
	return &Templater{
		ai: aiCall{
			llm:     cfg.LLM,
			prompts: cfg.Prompts,
			usage:   cfg.Usage,
			model:   cfg.Model,
		},
		pacer: pacer,
	}
}

// TemplateSegment asks the AI to rewrite segment using known, e.g. a value
// grouped under "제품명" becomes "[제품명]". Returns the trimmed response.
func (t *Templater) TemplateSegment(ctx context.Context, segment string, known *domain.CategoryMap) (string, error) {
	if strings.TrimSpace(segment) == "" {
		return "", fmt.Errorf("%w: empty segment", domain.ErrInvalidInput)
	}

	params, err := json.MarshalIndent(known, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}

	prompt, err := t.ai.render(driven.PromptTemplate, struct {
		Segment    string
		Parameters string
	}{Segment: segment, Parameters: string(params)})
	if err != nil {
		return "", err
	}

	out, err := t.ai.complete(ctx, domain.StageTemplate, templateSystem, prompt)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("%w: empty templating response", domain.ErrExternalService)
	}
	return out, nil
}

// TemplateDocument splits doc into sentences and templates those that
// contain at least one known value. Other sentences pass through, as do
// sentences whose templating call fails. Sentences are joined by one space.
func (t *Templater) TemplateDocument(
	ctx context.Context,
	doc domain.Document,
	known *domain.CategoryMap,
) (driving.TemplatedDocument, error) {
	result := driving.TemplatedDocument{FileName: doc.ID}

	sentences := SplitSentences(doc.Content)
	out := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		if !containsKnownValue(sentence, known) {
			out = append(out, sentence)
			continue
		}

		if t.pacer != nil {
			if err := t.pacer.Wait(ctx); err != nil {
				return result, fmt.Errorf("pace templating: %w", err)
			}
		}

		templated, err := t.TemplateSegment(ctx, sentence, known)
		if err != nil {
			if errors.Is(err, domain.ErrConfiguration) {
				return result, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			logger.Warn("template %s: keeping original sentence: %v", doc.ID, err)
			out = append(out, sentence)
			continue
		}

		out = append(out, templated)
		result.Templated++
	}

	result.Text = strings.Join(out, " ")
	return result, nil
}
