package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{"llm.provider": "gemini"}, map[string]any{"server.addr": ":9000"})

	assert.Equal(t, "gemini", store.GetString("llm.provider"))
	assert.Equal(t, ":9000", store.GetString("server.addr"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("pipeline.call_interval", "2s"))
	require.NoError(t, store.Set("pipeline.call_interval", "3s"))

	val, ok := store.Get("pipeline.call_interval")
	assert.True(t, ok)
	assert.Equal(t, "3s", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"a.int":    42,
		"a.int64":  int64(7),
		"a.float":  3.9,
		"a.bool":   true,
		"a.string": "value",
	})

	assert.Equal(t, 42, store.GetInt("a.int"))
	assert.Equal(t, 7, store.GetInt("a.int64"))
	assert.Equal(t, 3, store.GetInt("a.float"))
	assert.Equal(t, 0, store.GetInt("a.string"))
	assert.True(t, store.GetBool("a.bool"))
	assert.False(t, store.GetBool("a.string"))
	assert.Equal(t, "value", store.GetString("a.string"))
	assert.Empty(t, store.GetString("a.int"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_SaveLoadNoOp(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("llm.model", "m")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("llm.model")
		}()
	}
	wg.Wait()

	assert.Equal(t, "m", store.GetString("llm.model"))
}
