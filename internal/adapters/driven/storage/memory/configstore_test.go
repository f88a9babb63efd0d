package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("loader.cache", "memory"))
	require.NoError(t, store.Set("loader.cache", "none"))

	val, ok := store.Get("loader.cache")
	assert.True(t, ok)
	assert.Equal(t, "none", val)

	_, ok = store.Get("loader.missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("transport.user_agent", "sceneload/test")
	_ = store.Set("loader.workers", 4)

	assert.Equal(t, "sceneload/test", store.GetString("transport.user_agent"))
	assert.Empty(t, store.GetString("loader.workers"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("int", 42)
	_ = store.Set("int64", int64(7))
	_ = store.Set("float", 3.9)
	_ = store.Set("string", "42")

	assert.Equal(t, 42, store.GetInt("int"))
	assert.Equal(t, 7, store.GetInt("int64"))
	assert.Equal(t, 3, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("string"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("float", 2.5)
	_ = store.Set("float32", float32(0.5))
	_ = store.Set("int", 8)
	_ = store.Set("int64", int64(3))
	_ = store.Set("string", "1.5")

	assert.InDelta(t, 2.5, store.GetFloat("float"), 1e-9)
	assert.InDelta(t, 0.5, store.GetFloat("float32"), 1e-9)
	assert.InDelta(t, 8.0, store.GetFloat("int"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("int64"), 1e-9)
	assert.Zero(t, store.GetFloat("string"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("loader.cache_images", true)
	_ = store.Set("history.enabled", "true")

	assert.True(t, store.GetBool("loader.cache_images"))
	assert.False(t, store.GetBool("history.enabled"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("strings", []string{"a", "b"})
	_ = store.Set("mixed", []any{"a", 1, "b"})
	_ = store.Set("scalar", "a")

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("strings"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("mixed"))
	assert.Nil(t, store.GetStringSlice("scalar"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SaveLoad_NoOp(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("loader.workers", 2)

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, 2, store.GetInt("loader.workers"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	numGoroutines := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			key := "key-" + string(rune('A'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		key := "key-" + string(rune('A'+i))
		assert.Equal(t, i, store.GetInt(key))
	}
}
