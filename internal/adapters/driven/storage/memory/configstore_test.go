package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_UpdateAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Update(map[string]any{"brand.name": "Acme Advisory", "output.dir": "/tmp/out"}))
	require.NoError(t, store.Update(map[string]any{"brand.name": "Acme Partners"}))

	val, ok := store.Get("brand.name")
	assert.True(t, ok)
	assert.Equal(t, "Acme Partners", val)
	assert.Equal(t, "/tmp/out", store.GetString("output.dir"))
	assert.Equal(t, 2, store.Updates())

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_UpdateEmptyRemoves(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Update(map[string]any{"recipes.dir": "/srv/recipes", "narrative.rate_per_minute": 0}))

	require.NoError(t, store.Update(map[string]any{"recipes.dir": ""}))

	assert.Equal(t, map[string]any{"narrative.rate_per_minute": 0}, store.Snapshot())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Update(map[string]any{
		"string":         "value",
		"int":            42,
		"int64":          int64(43),
		"float":          3.7,
		"numeric_string": "30",
		"bool":           true,
		"map":            map[string]any{"k": "v"},
	}))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "string", got: store.GetString("string"), want: "value"},
		{name: "int as string", got: store.GetString("int"), want: "42"},
		{name: "map as string", got: store.GetString("map"), want: ""},
		{name: "missing string", got: store.GetString("missing"), want: ""},
		{name: "int", got: store.GetInt("int"), want: 42},
		{name: "int64", got: store.GetInt("int64"), want: 43},
		{name: "float truncates", got: store.GetInt("float"), want: 3},
		{name: "numeric string", got: store.GetInt("numeric_string"), want: 30},
		{name: "non-numeric string", got: store.GetInt("string"), want: 0},
		{name: "bool as int", got: store.GetInt("bool"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Update(map[string]any{fmt.Sprintf("key.%d", n): n})
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key.%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key.%d", i)))
	}
}
