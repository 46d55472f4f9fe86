package sync

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedMap_GetMissing(t *testing.T) {
	m := NewShardedMap[int]()
	_, ok := m.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestShardedMap_UpdateAndView(t *testing.T) {
	m := NewShardedMap[[]string]()

	m.Update("user-1", func(cur []string, present bool) []string {
		assert.False(t, present)
		return append(cur, "a")
	})
	m.Update("user-1", func(cur []string, present bool) []string {
		assert.True(t, present)
		return append(cur, "b")
	})

	got, ok := m.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	m.View("user-1", func(cur []string, present bool) {
		assert.True(t, present)
		assert.Len(t, cur, 2)
	})
	assert.Equal(t, 1, m.Len())
}

func TestShardedMap_SameKeySerializes(t *testing.T) {
	m := NewShardedMap[int]()
	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			m.Update("same-key", func(cur int, _ bool) int { return cur + 1 })
		})
	}
	wg.Wait()

	got, _ := m.Get("same-key")
	assert.Equal(t, 100, got)
}

func TestShardedMap_ManyKeys(t *testing.T) {
	m := NewShardedMap[int]()
	var wg sync.WaitGroup
	for i := range 200 {
		wg.Go(func() {
			m.Update(fmt.Sprintf("key-%d", i), func(int, bool) int { return i })
		})
	}
	wg.Wait()
	assert.Equal(t, 200, m.Len())
}

func TestShardIndex(t *testing.T) {
	assert.Equal(t, 0, shardIndex(""))
	assert.Equal(t, shardIndex("user-123"), shardIndex("user-123"))

	seen := make(map[int]bool)
	for _, key := range []string{"user-123", "user-456", "order-abc", "order-xyz", "token-1", "token-2"} {
		idx := shardIndex(key)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, shardCount)
		seen[idx] = true
	}
	assert.GreaterOrEqual(t, len(seen), 3, "expected keys to spread across shards")
}
