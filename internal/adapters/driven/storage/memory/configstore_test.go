package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("project.name", "docsync"))

	val, ok := store.Get("project.name")
	require.True(t, ok)
	assert.Equal(t, "docsync", val)
}

func TestConfigStore_Get_Missing(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, store.Set("number", 42))

	assert.Equal(t, "value", store.GetString("key"))
	assert.Equal(t, "", store.GetString("number"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("int", 42))
	require.NoError(t, store.Set("int64", int64(43)))
	require.NoError(t, store.Set("float", 44.0))
	require.NoError(t, store.Set("string", "nope"))

	assert.Equal(t, 42, store.GetInt("int"))
	assert.Equal(t, 43, store.GetInt("int64"))
	assert.Equal(t, 44, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("string"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("flag", true))

	assert.True(t, store.GetBool("flag"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("globs", []string{"*.md", "*.txt"}))
	require.NoError(t, store.Set("mixed", []any{"a", 1, "b"}))

	assert.Equal(t, []string{"*.md", "*.txt"}, store.GetStringSlice("globs"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("mixed"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SaveAndLoad_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
