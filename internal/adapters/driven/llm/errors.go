// Package llm holds helpers shared by the LLM provider adapters in its
// subpackages.
package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is quoted.
const maxErrorBody = 512

// StatusError classifies a non-200 provider response. Rejected credentials
// are configuration errors; everything else is an external service error.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s rejected credentials (status %d): %s", domain.ErrConfiguration, provider, status, msg)
	default:
		return fmt.Errorf("%w: %s returned status %d: %s", domain.ErrExternalService, provider, status, msg)
	}
}

// TransportError wraps a failed request or undecodable response.
func TransportError(provider, op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", domain.ErrExternalService, provider, op, err)
}

// MissingKeyError reports a provider constructed without an API key.
func MissingKeyError(provider domain.AIProvider) error {
	if env := provider.APIKeyEnv(); env != "" {
		return fmt.Errorf("%w: %s API key is required (set %s or run 'quill settings set-key')",
			domain.ErrConfiguration, provider, env)
	}
	return fmt.Errorf("%w: %s API key is required", domain.ErrConfiguration, provider)
}
