package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_HomeOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o"))
	require.NoError(t, store.Set("pipeline.retries", 3))
	require.NoError(t, store.Set("server.debug", true))

	assert.Equal(t, "gpt-4o", store.GetString("llm.model"))
	assert.Equal(t, 3, store.GetInt("pipeline.retries"))
	assert.True(t, store.GetBool("server.debug"))

	// Wrong types and missing keys return zero values.
	assert.Empty(t, store.GetString("pipeline.retries"))
	assert.Zero(t, store.GetInt("llm.model"))
	assert.False(t, store.GetBool("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "solar"))
	require.NoError(t, store.Set("llm.model", "solar-pro"))
	require.NoError(t, store.Set("pipeline.call_interval", "1s"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[pipeline]")

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "solar", reopened.GetString("llm.provider"))
	assert.Equal(t, "solar-pro", reopened.GetString("llm.model"))
	assert.Equal(t, "1s", reopened.GetString("pipeline.call_interval"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[llm]
provider = "gemini"

[storage]
backend = "memory"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, "gemini", store.GetString("llm.provider"))
	assert.Equal(t, "memory", store.GetString("storage.backend"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[llm\nprovider ="), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("models.generate", "m")
			_ = store.GetString("models.generate")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, "m", store.GetString("models.generate"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"llm.provider": "openai",
		"llm.model":    "gpt-4o",
		"server.addr":  ":8000",
		"server":       "scalar wins",
		"top":          1,
	})

	assert.Equal(t, map[string]any{"provider": "openai", "model": "gpt-4o"}, nested["llm"])
	assert.Equal(t, "scalar wins", nested["server"])
	assert.Equal(t, 1, nested["top"])
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"llm": map[string]any{"provider": "ollama", "extra": map[string]any{"x": 1}},
		"top": true,
	}, "")

	assert.Equal(t, map[string]any{
		"llm.provider": "ollama",
		"llm.extra.x":  1,
		"top":          true,
	}, flat)
}
