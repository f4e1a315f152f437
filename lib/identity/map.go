// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import "sync"

// Map is a concurrency-safe identity map from K to V. The zero value
// is ready to use.
//
// Map never evicts: once a key is inserted, every subsequent
// LoadOrCreate for that key returns the stored instance for the life
// of the Map.
type Map[K comparable, V any] struct {
	mu        sync.Mutex
	instances map[K]V
}

// LoadOrCreate returns the instance stored under key, constructing and
// inserting one via create if the key is absent. The check and insert
// are atomic: concurrent callers with the same key all receive the
// same instance, and create runs at most once per key.
//
// create runs with the map lock held, so it must not block or call
// back into the Map.
func (m *Map[K, V]) LoadOrCreate(key K, create func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if instance, ok := m.instances[key]; ok {
		return instance
	}
	if m.instances == nil {
		m.instances = make(map[K]V)
	}
	instance := create()
	m.instances[key] = instance
	return instance
}

// Peek returns the instance stored under key without creating one.
func (m *Map[K, V]) Peek(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	instance, ok := m.instances[key]
	return instance, ok
}

// Len returns the number of stored instances.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

// Range calls visit for each stored entry until visit returns false.
// Iteration order is unspecified. The lock is not held during visit
// calls; entries inserted concurrently may or may not be visited.
func (m *Map[K, V]) Range(visit func(key K, instance V) bool) {
	m.mu.Lock()
	snapshot := make(map[K]V, len(m.instances))
	for key, instance := range m.instances {
		snapshot[key] = instance
	}
	m.mu.Unlock()

	for key, instance := range snapshot {
		if !visit(key, instance) {
			return
		}
	}
}
