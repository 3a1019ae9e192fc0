package domain

// TokenUsage is the token accounting for one AI call.
type TokenUsage struct {
	// Operation names the pipeline stage, e.g. "generate" or "expression".
	Operation string

	// Provider is the AI provider that served the call.
	Provider string

	// Model is the model identifier.
	Model string

	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Add accumulates other into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
