package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{"mapping.owner": "commerce"}, map[string]any{"log.level": "debug"})

	assert.Equal(t, "commerce", store.GetString("mapping.owner"))
	assert.Equal(t, "debug", store.GetString("log.level"))
	assert.Equal(t, []string{"log.level", "mapping.owner"}, store.Keys())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("mapping.owner", "commerce"))
	require.NoError(t, store.Set("mapping.owner", "catalog"))

	val, ok := store.Get("mapping.owner")
	assert.True(t, ok)
	assert.Equal(t, "catalog", val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Empty(t, store.GetString("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetString_FormatsScalars(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"int":   int64(42),
		"bool":  true,
		"slice": []string{"a"},
		"nil":   nil,
	})

	assert.Equal(t, "42", store.GetString("int"))
	assert.Equal(t, "true", store.GetString("bool"))
	assert.Empty(t, store.GetString("slice"))
	assert.Empty(t, store.GetString("nil"))
}

func TestConfigStore_GetBool_WrongType(t *testing.T) {
	store := NewConfigStore(map[string]any{"flag": "true"})

	assert.False(t, store.GetBool("flag"))
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n)
			_ = store.Set(key, n)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 50)
}
