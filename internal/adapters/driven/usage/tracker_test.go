package usage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

func call(op, provider, model string, prompt, completion int) domain.TokenUsage {
	return domain.TokenUsage{
		Operation:        op,
		Provider:         provider,
		Model:            model,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

func TestTracker_Record(t *testing.T) {
	tr, err := NewTracker("")
	require.NoError(t, err)

	tr.Record(context.Background(), call(domain.StageExpression, "openai", "gpt-4o", 100, 20))
	tr.Record(context.Background(), call(domain.StageExpression, "openai", "gpt-4o", 50, 10))
	tr.Record(context.Background(), call(domain.StageGenerate, "gemini", "gemini-2.0-flash", 900, 700))

	stats := tr.Stats()
	assert.Equal(t, Counts{Calls: 3, PromptTokens: 1050, CompletionTokens: 730, TotalTokens: 1780}, stats.Total)
	assert.Equal(t, 2, stats.ByProvider["openai"].Calls)
	assert.Equal(t, 1600, stats.ByModel["gemini-2.0-flash"].TotalTokens)
	assert.Equal(t, 180, stats.ByOperation[domain.StageExpression].TotalTokens)
}

func TestTracker_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	tr, err := NewTracker(path)
	require.NoError(t, err)
	tr.Record(context.Background(), call(domain.StageCategorize, "solar", "solar-pro", 30, 2))

	reopened, err := NewTracker(path)
	require.NoError(t, err)

	stats := reopened.Stats()
	assert.Equal(t, 1, stats.Total.Calls)
	assert.Equal(t, 32, stats.ByProvider["solar"].TotalTokens)
	assert.False(t, stats.UpdatedAt.IsZero())
}

func TestTracker_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	tr, err := NewTracker(path)

	require.NoError(t, err)
	assert.Zero(t, tr.Stats().Total.Calls)
}

func TestTracker_StatsIsACopy(t *testing.T) {
	tr, err := NewTracker("")
	require.NoError(t, err)
	tr.Record(context.Background(), call(domain.StageGenerate, "openai", "m", 1, 1))

	stats := tr.Stats()
	stats.ByProvider["openai"] = Counts{}

	assert.Equal(t, 1, tr.Stats().ByProvider["openai"].Calls)
}

func TestTracker_LogsEachCall(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})

	tr, err := NewTracker("")
	require.NoError(t, err)
	tr.Record(context.Background(), call(domain.StageGenerate, "openai", "gpt-4o", 12, 3))

	assert.Contains(t, buf.String(), "tokens [generate] openai/gpt-4o - prompt: 12, completion: 3, total: 15")
}
