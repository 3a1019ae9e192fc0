package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

//nolint:lll // System prompts are kept on one line.
const generateSystem = "You are a professional blog post writer. Generate a blog post based on the provided analysis data and user instructions."

// ManuscriptGenerator writes a manuscript from a complete analysis dataset.
type ManuscriptGenerator struct {
	ai aiCall
}

// NewManuscriptGenerator creates a generator.
func NewManuscriptGenerator(cfg AIConfig) *ManuscriptGenerator {
	return &ManuscriptGenerator{
		ai: aiCall{
			llm:     cfg.LLM,
			prompts: cfg.Prompts,
			usage:   cfg.Usage,
			model:   cfg.Model,
		},
	}
}

// generatePromptData are the fields available to the generation prompt.
type generatePromptData struct {
	Words        string
	Sentences    string
	Expressions  string
	Parameters   string
	Instructions string
	Reference    string
}

// Generate returns the trimmed manuscript text.
// An incomplete dataset is refused with domain.ErrInsufficientData before
// any AI call is made.
func (g *ManuscriptGenerator) Generate(
	ctx context.Context,
	dataset *domain.AnalysisDataset,
	instructions string,
) (string, error) {
	if missing := dataset.MissingFields(); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", domain.ErrInsufficientData, strings.Join(missing, ", "))
	}

	data, err := g.promptData(dataset, instructions)
	if err != nil {
		return "", err
	}
	prompt, err := g.ai.render(driven.PromptGenerate, data)
	if err != nil {
		return "", err
	}

	logger.Section("Generate")
	logger.Debug("generation prompt: %d bytes", len(prompt))

	text, err := g.ai.complete(ctx, domain.StageGenerate, generateSystem, prompt)
	if err != nil {
		return "", fmt.Errorf("generate manuscript: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty manuscript", domain.ErrExternalService)
	}
	return text, nil
}

func (g *ManuscriptGenerator) promptData(dataset *domain.AnalysisDataset, instructions string) (generatePromptData, error) {
	expressions, err := json.MarshalIndent(dataset.Expressions, "", "  ")
	if err != nil {
		return generatePromptData{}, fmt.Errorf("encode expressions: %w", err)
	}
	parameters, err := json.MarshalIndent(dataset.Parameters, "", "  ")
	if err != nil {
		return generatePromptData{}, fmt.Errorf("encode parameters: %w", err)
	}

	return generatePromptData{
		Words:        strings.Join(dataset.UniqueWords.Slice(), ", "),
		Sentences:    "- " + strings.Join(dataset.Sentences, "\n- "),
		Expressions:  string(expressions),
		Parameters:   string(parameters),
		Instructions: strings.TrimSpace(instructions),
		Reference:    g.reference(),
	}, nil
}

// reference returns the optional reference document, or "" when unset.
func (g *ManuscriptGenerator) reference() string {
	if g.ai.prompts == nil {
		return ""
	}
	ref, err := g.ai.prompts.Load(driven.PromptReference)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(ref)
}
