// Package settings provides the application's key/value settings store.
package settings

import (
	"maps"
	"slices"
	"sync"
)

// Memory is a concurrency-safe in-memory settings store.
// The zero value is ready to use.
type Memory struct {
	values map[string]any
	mu     sync.RWMutex
}

// NewMemory creates a store seeded with initial values.
func NewMemory(initial ...map[string]any) *Memory {
	m := &Memory{values: make(map[string]any)}
	for _, in := range initial {
		maps.Copy(m.values, in)
	}
	return m
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = value
}

// Delete removes key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Keys returns all keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.values))
}
