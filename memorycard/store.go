// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"context"
	"sync"

	"github.com/yuk320/wechaty/lib/codec"
)

// Store moves a whole card between memory and a persistence backend.
// Implementations must be safe for concurrent use; a Load racing a
// Save observes either the previous or the new contents, never a mix.
type Store interface {
	// Load returns the stored entries. A backend with nothing stored
	// yet (first run) returns an empty map, not an error.
	Load(ctx context.Context) (map[string]codec.RawMessage, error)

	// Save replaces the stored entries with the given set.
	Save(ctx context.Context, entries map[string]codec.RawMessage) error

	// Close releases any resources the backend holds. Backends
	// without long-lived resources return nil.
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*SealedFileStore)(nil)
)

// MemoryStore keeps entries in process memory. It exists for tests
// and for exercising the Load/Save path without touching disk.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]codec.RawMessage
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]codec.RawMessage)}
}

// Load returns a copy of the stored entries.
func (s *MemoryStore) Load(ctx context.Context) (map[string]codec.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make(map[string]codec.RawMessage, len(s.entries))
	for key, value := range s.entries {
		entries[key] = value
	}
	return entries, nil
}

// Save replaces the stored entries with a copy of the given set.
func (s *MemoryStore) Save(ctx context.Context, entries map[string]codec.RawMessage) error {
	copied := make(map[string]codec.RawMessage, len(entries))
	for key, value := range entries {
		copied[key] = value
	}
	s.mu.Lock()
	s.entries = copied
	s.mu.Unlock()
	return nil
}

// Close is a no-op; the store holds no resources.
func (s *MemoryStore) Close() error {
	return nil
}
