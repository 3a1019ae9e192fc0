package driven

import (
	"context"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// LLMService provides text completion against an AI provider.
//
// Implementations may include:
//   - OpenAI (and OpenAI-compatible APIs such as Upstage Solar)
//   - Anthropic (Claude)
//   - Google Gemini
//   - Ollama (local models)
//
// Transport and provider failures are wrapped with domain.ErrExternalService.
// A missing credential is reported as domain.ErrConfiguration.
type LLMService interface {
	// Complete sends one system instruction and one user prompt and returns
	// the completion text with token usage.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// ModelName returns the default model of the service.
	ModelName() string

	// Provider identifies the AI provider.
	Provider() domain.AIProvider

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionRequest configures a single completion call.
type CompletionRequest struct {
	// System is the system instruction. May be empty.
	System string

	// Prompt is the user message.
	Prompt string

	// Model overrides the service's default model when set.
	Model string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = provider default).
	Temperature float64
}

// Completion is the result of a completion call.
type Completion struct {
	// Text is the raw completion text, untrimmed.
	Text string

	// Model is the model that served the request.
	Model string

	// PromptTokens, CompletionTokens and TotalTokens are reported by the provider.
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Usage converts the completion's counters into a domain.TokenUsage.
func (c *Completion) Usage(operation string, provider domain.AIProvider) domain.TokenUsage {
	return domain.TokenUsage{
		Operation:        operation,
		Provider:         provider.String(),
		Model:            c.Model,
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		TotalTokens:      c.TotalTokens,
	}
}

// UsageRecorder receives token accounting for AI calls.
type UsageRecorder interface {
	// Record stores usage for one call.
	Record(ctx context.Context, usage domain.TokenUsage)
}
