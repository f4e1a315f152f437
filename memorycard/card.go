// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/yuk320/wechaty/lib/codec"
)

// namespaceSeparator joins a Multiplex name to the keys beneath it.
// U+001F (unit separator) never appears in sensible keys or names, so
// views cannot collide with root keys.
const namespaceSeparator = "\x1f"

// Config configures a card.
type Config struct {
	// Store persists the card. nil means memory-only: Load and Save
	// become no-ops instead of errors, so a bot without persistence
	// configured still runs.
	Store Store

	// Logger receives load/save traces. Defaults to slog.Default().
	Logger *slog.Logger
}

// Card is a key-value memory with CBOR-encoded values. Safe for
// concurrent use. Views created with Multiplex share the root card's
// data and lock.
type Card struct {
	store  Store
	logger *slog.Logger

	// prefix scopes a multiplexed view; empty on the root. root
	// points at the owning card, nil on the root itself.
	prefix string
	root   *Card

	mu      sync.RWMutex
	entries map[string]codec.RawMessage
}

// New builds an empty card. Call Load to pull previously saved
// entries from the store.
func New(config Config) (*Card, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Card{
		store:   config.Store,
		logger:  logger,
		entries: make(map[string]codec.RawMessage),
	}, nil
}

// base returns the card owning the data: the root itself, or the
// root of a view.
func (c *Card) base() *Card {
	if c.root != nil {
		return c.root
	}
	return c
}

// Load replaces the card's entries with the store's contents. A card
// without a store loads empty. Only the root card can load; views
// return an error.
func (c *Card) Load(ctx context.Context) error {
	if c.root != nil {
		return fmt.Errorf("memorycard: Load on multiplexed view %q", strings.TrimSuffix(c.prefix, namespaceSeparator))
	}
	if c.store == nil {
		return nil
	}
	entries, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("memorycard: loading card: %w", err)
	}
	if entries == nil {
		entries = make(map[string]codec.RawMessage)
	}
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	c.logger.Debug("memory card loaded", "entries", len(entries))
	return nil
}

// Save writes the card's entries to the store. Only the root card
// can save; views return an error.
func (c *Card) Save(ctx context.Context) error {
	if c.root != nil {
		return fmt.Errorf("memorycard: Save on multiplexed view %q", strings.TrimSuffix(c.prefix, namespaceSeparator))
	}
	if c.store == nil {
		return nil
	}
	c.mu.RLock()
	snapshot := make(map[string]codec.RawMessage, len(c.entries))
	for key, value := range c.entries {
		snapshot[key] = value
	}
	c.mu.RUnlock()

	if err := c.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("memorycard: saving card: %w", err)
	}
	c.logger.Debug("memory card saved", "entries", len(snapshot))
	return nil
}

// Set encodes value as CBOR and stores it under key.
func (c *Card) Set(key string, value any) error {
	encoded, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("memorycard: encoding %q: %w", key, err)
	}
	base := c.base()
	base.mu.Lock()
	base.entries[c.prefix+key] = encoded
	base.mu.Unlock()
	return nil
}

// Get decodes the value under key into target, which must be a
// pointer. The boolean reports whether the key was present; a decode
// failure on a present key returns true and the error.
func (c *Card) Get(key string, target any) (bool, error) {
	base := c.base()
	base.mu.RLock()
	encoded, ok := base.entries[c.prefix+key]
	base.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := codec.Unmarshal(encoded, target); err != nil {
		return true, fmt.Errorf("memorycard: decoding %q: %w", key, err)
	}
	return true, nil
}

// Has reports whether key is present without decoding it.
func (c *Card) Has(key string) bool {
	base := c.base()
	base.mu.RLock()
	defer base.mu.RUnlock()
	_, ok := base.entries[c.prefix+key]
	return ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Card) Delete(key string) {
	base := c.base()
	base.mu.Lock()
	delete(base.entries, c.prefix+key)
	base.mu.Unlock()
}

// Clear removes every key in this card's scope: all entries on the
// root, only the view's own entries on a multiplexed view.
func (c *Card) Clear() {
	base := c.base()
	base.mu.Lock()
	defer base.mu.Unlock()
	if c.root == nil {
		c.entries = make(map[string]codec.RawMessage)
		return
	}
	for key := range base.entries {
		if strings.HasPrefix(key, c.prefix) {
			delete(base.entries, key)
		}
	}
}

// Keys returns the keys in this card's scope, sorted, with view
// prefixes stripped. Keys belonging to deeper views are included
// (still carrying their remaining prefix) so the root sees
// everything.
func (c *Card) Keys() []string {
	base := c.base()
	base.mu.RLock()
	keys := make([]string, 0, len(base.entries))
	for key := range base.entries {
		if strings.HasPrefix(key, c.prefix) {
			keys = append(keys, strings.TrimPrefix(key, c.prefix))
		}
	}
	base.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys in this card's scope.
func (c *Card) Len() int {
	base := c.base()
	base.mu.RLock()
	defer base.mu.RUnlock()
	if c.root == nil {
		return len(base.entries)
	}
	count := 0
	for key := range base.entries {
		if strings.HasPrefix(key, c.prefix) {
			count++
		}
	}
	return count
}

// Multiplex returns a namespaced view of the card. The view shares
// the card's data: its keys live under name in the root, and a Save
// on the root persists them. Views nest. The name must not contain
// the namespace separator (U+001F); Multiplex panics on one that
// does, since that is a programming error, not a runtime condition.
func (c *Card) Multiplex(name string) *Card {
	if strings.Contains(name, namespaceSeparator) {
		panic("memorycard: Multiplex name contains the namespace separator")
	}
	base := c.base()
	return &Card{
		logger: base.logger,
		prefix: c.prefix + name + namespaceSeparator,
		root:   base,
	}
}
