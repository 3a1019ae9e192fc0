package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/usage"
	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "quill", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	_, err := execute("--verbose", "version")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestCategorize(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("categorize", "스타트업", "투자")
	require.NoError(t, err)
	assert.Equal(t, "startup\n", out)
}

func TestCategorize_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.categorizer.err = domain.ErrExternalService

	_, err := execute("categorize", "x")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestManuscriptsList(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.manuscripts.manuscripts = []domain.Manuscript{
		{ID: "a1", Content: "첫 원고\n본문", Keyword: "치과", Category: domain.CategoryHospital, CreatedAt: time.Now()},
	}

	out, err := execute("manuscripts", "list", "--category", "hospital")
	require.NoError(t, err)
	assert.Contains(t, out, "Manuscripts for hospital (1)")
	assert.Contains(t, out, "Keyword: 치과")
	assert.Contains(t, out, "첫 원고")
	assert.NotContains(t, out, "본문")
}

func TestManuscriptsList_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("manuscripts", "list", "-c", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "No manuscripts for other.")
}

func TestManuscriptsList_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("manuscripts", "list", "-c", "other", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestManuscriptsList_UnknownCategory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("manuscripts", "list", "-c", "cars")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUsage(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.usage.stats = usage.Stats{
		Total:      usage.Counts{Calls: 2, PromptTokens: 30, CompletionTokens: 12, TotalTokens: 42},
		ByProvider: map[string]usage.Counts{"openai": {Calls: 2, TotalTokens: 42}},
		ByModel:    map[string]usage.Counts{"gpt-4.1-mini": {Calls: 2, TotalTokens: 42}},
		ByOperation: map[string]usage.Counts{
			"generate":   {Calls: 1, TotalTokens: 30},
			"expression": {Calls: 1, TotalTokens: 12},
		},
	}

	out, err := execute("usage")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2 calls, 42 tokens (prompt 30, completion 12)")
	assert.Contains(t, out, "[By operation]")
	assert.Less(t, strings.Index(out, "expression"), strings.Index(out, "generate"))
}

func TestUsage_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("usage")
	require.NoError(t, err)
	assert.Contains(t, out, "No AI calls recorded yet.")
}

func TestUsage_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	usageReporter = nil

	_, err := execute("usage")
	require.Error(t, err)
}

func TestServe_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	manuscriptService = nil

	_, err := execute("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manuscript service not configured")
}

func TestMCPServe_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	manuscriptService = nil

	_, err := execute("mcp", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manuscript service not configured")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestCategoryList(t *testing.T) {
	list := categoryList()
	assert.Contains(t, list, "hospital, legalese")
	assert.Contains(t, list, "other")
}

func TestWriteJSON_Error(t *testing.T) {
	err := writeJSON(new(errWriter), []string{"x"})
	assert.Error(t, err)
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}
