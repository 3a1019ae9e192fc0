package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(context.Background(), Config{APIKey: "gm-test", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), Config{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestComplete(t *testing.T) {
	var got map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, DefaultModel+":generateContent"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "원고 초안"}]}}],
			"usageMetadata": {"promptTokenCount": 40, "candidatesTokenCount": 12, "totalTokenCount": 52}
		}`))
	})

	out, err := svc.Complete(context.Background(), driven.CompletionRequest{
		System: "write a manuscript",
		Prompt: "keyword: 강남 피부과",
	})
	require.NoError(t, err)

	assert.Contains(t, got, "systemInstruction")
	assert.Contains(t, got, "contents")

	assert.Equal(t, "원고 초안", out.Text)
	assert.Equal(t, DefaultModel, out.Model)
	assert.Equal(t, 40, out.PromptTokens)
	assert.Equal(t, 12, out.CompletionTokens)
	assert.Equal(t, 52, out.TotalTokens)
	assert.Equal(t, domain.AIProviderGemini, svc.Provider())
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			"invalid key",
			http.StatusBadRequest,
			`{"error": {"code": 400, "message": "API key not valid. Please pass a valid API key.", "status": "INVALID_ARGUMENT"}}`,
			domain.ErrConfiguration,
		},
		{
			"permission denied",
			http.StatusForbidden,
			`{"error": {"code": 403, "message": "denied", "status": "PERMISSION_DENIED"}}`,
			domain.ErrConfiguration,
		},
		{
			"quota",
			http.StatusTooManyRequests,
			`{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`,
			domain.ErrExternalService,
		},
		{
			"no candidates",
			http.StatusOK,
			`{"candidates": []}`,
			domain.ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Complete(context.Background(), driven.CompletionRequest{Prompt: "hi"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClassify_Transport(t *testing.T) {
	err := classify(assert.AnError)
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.ErrorIs(t, err, assert.AnError)
}
