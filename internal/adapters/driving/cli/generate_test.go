package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

func TestGenerateCmd_Use(t *testing.T) {
	assert.Equal(t, "generate [keyword]", generateCmd.Use)
}

func TestGenerate_CategorisesKeyword(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("generate", "강남", "치과")
	require.NoError(t, err)
	assert.Equal(t, "강남 치과", ts.manuscripts.keyword)
	assert.Contains(t, out, "Manuscript ms-1 (hospital")
	assert.Contains(t, out, "생성된 원고입니다.")
}

func TestGenerate_WithCategory(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("generate", "--category", "functional-food", "면역력 이벤트")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryFunctionalFood, ts.manuscripts.category)
	assert.Equal(t, "면역력 이벤트", ts.manuscripts.instructions)
	assert.Empty(t, ts.manuscripts.keyword)
}

func TestGenerate_CategoryWithoutKeyword(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("generate", "-c", "legalese")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryLegalese, ts.manuscripts.category)
	assert.Empty(t, ts.manuscripts.instructions)
}

func TestGenerate_RequiresKeywordOrCategory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("generate")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_UnknownCategory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("generate", "-c", "cars", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_InsufficientDataHint(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.manuscripts.err = domain.ErrInsufficientData

	_, err := execute("generate", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
	assert.Contains(t, err.Error(), "quill analyze run")
}

func TestGenerate_Output(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "post.txt")
	_, err := execute("generate", "-o", path, "x")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "생성된 원고입니다.\n", string(data))
}

func TestGenerate_WithProgress(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	showProgress = true

	out, err := execute("generate", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", ts.manuscripts.keyword)
	assert.Contains(t, out, "생성된 원고입니다.")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "첫 줄", preview("  첫 줄\n둘째 줄"))

	long := ""
	for i := 0; i < 70; i++ {
		long += "가"
	}
	p := preview(long)
	assert.Equal(t, previewRunes+3, len([]rune(p)))
	assert.Contains(t, p, "...")
}
