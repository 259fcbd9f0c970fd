package settings

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	t.Run("zero value is usable", func(t *testing.T) {
		t.Parallel()

		var m Memory
		_, ok := m.Get("missing")
		assert.False(t, ok)

		m.Set("a", 1)
		v, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("seeded values", func(t *testing.T) {
		t.Parallel()

		m := NewMemory(map[string]any{"b": "x"}, map[string]any{"a": true})
		assert.Equal(t, []string{"a", "b"}, m.Keys())
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		m := NewMemory(map[string]any{"a": 1})
		m.Delete("a")
		_, ok := m.Get("a")
		assert.False(t, ok)
		assert.Empty(t, m.Keys())
	})
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			m.Set(key, i)
			_, _ = m.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.Keys(), 50)
}
