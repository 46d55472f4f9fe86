// Package sync provides concurrency helpers shared by the in-memory stores.
package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// ShardedMap is a string-keyed map split across 32 independently locked
// shards, so writers for unrelated keys do not contend on one lock.
type ShardedMap[V any] struct {
	shards [shardCount]shard[V]
}

func NewShardedMap[V any]() *ShardedMap[V] {
	m := &ShardedMap[V]{}
	for i := range m.shards {
		m.shards[i].items = make(map[string]V)
	}
	return m
}

// Get returns the value for key and whether it was present.
func (m *ShardedMap[V]) Get(key string) (V, bool) {
	sh := m.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.items[key]
	return v, ok
}

// Update replaces the value for key with fn(current, present) while holding
// the shard lock. fn must not call back into the map.
func (m *ShardedMap[V]) Update(key string, fn func(current V, present bool) V) {
	sh := m.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	cur, ok := sh.items[key]
	sh.items[key] = fn(cur, ok)
}

// View runs fn on the value for key under the shard read lock.
func (m *ShardedMap[V]) View(key string, fn func(current V, present bool)) {
	sh := m.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	cur, ok := sh.items[key]
	fn(cur, ok)
}

// Len counts entries across all shards.
func (m *ShardedMap[V]) Len() int {
	n := 0
	for i := range m.shards {
		m.shards[i].mu.RLock()
		n += len(m.shards[i].items)
		m.shards[i].mu.RUnlock()
	}
	return n
}

func (m *ShardedMap[V]) shardFor(key string) *shard[V] {
	return &m.shards[shardIndex(key)]
}

// shardIndex maps key to a shard; the empty key lands on shard 0.
func shardIndex(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
