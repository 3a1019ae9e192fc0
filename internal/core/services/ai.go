package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// errNoLLM is returned when a stage runs without a configured AI provider.
var errNoLLM = fmt.Errorf("%w: no AI provider configured, run 'quill settings set-key'", domain.ErrConfiguration)

// aiCall bundles what every AI-backed stage needs for one completion.
type aiCall struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	usage   driven.UsageRecorder
	model   string
}

// render loads the named prompt and executes it with data.
func (c aiCall) render(name string, data any) (string, error) {
	if c.prompts == nil {
		return "", fmt.Errorf("%w: no prompt store", domain.ErrConfiguration)
	}
	raw, err := c.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("%w: load prompt %q: %w", domain.ErrConfiguration, name, err)
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parse prompt %q: %w", domain.ErrConfiguration, name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: render prompt %q: %w", domain.ErrConfiguration, name, err)
	}
	return b.String(), nil
}

// complete sends one request and records its token usage under operation.
// Errors that are not configuration errors are normalised to ErrExternalService.
func (c aiCall) complete(ctx context.Context, operation, system, prompt string) (string, error) {
	if c.llm == nil {
		return "", errNoLLM
	}

	resp, err := c.llm.Complete(ctx, driven.CompletionRequest{
		System: system,
		Prompt: prompt,
		Model:  c.model,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) || errors.Is(err, domain.ErrExternalService) {
			return "", err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %w", domain.ErrExternalService, err)
	}

	if c.usage != nil {
		c.usage.Record(ctx, resp.Usage(operation, c.llm.Provider()))
	}
	logger.Debug("%s: %d prompt tokens, %d completion tokens", operation, resp.PromptTokens, resp.CompletionTokens)

	return strings.TrimSpace(resp.Text), nil
}

// stripCodeFence removes a Markdown code fence wrapped around a payload.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// jsonObject returns the outermost {...} span of s, or s when there is none.
func jsonObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
