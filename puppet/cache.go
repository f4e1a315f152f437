// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package puppet

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yuk320/wechaty/lib/ref"
)

// Default cache capacities. Contacts outnumber rooms by roughly this
// ratio in a typical account's working set.
const (
	DefaultRoomCapacity    = 500
	DefaultContactCapacity = 3000
)

// CacheConfig sizes a payload cache. Zero fields take the defaults.
type CacheConfig struct {
	RoomCapacity    int
	ContactCapacity int
}

// Cache is the provider-side payload cache backing the readiness
// contract: an entity is ready exactly when its payload is present
// here. Providers embed one and route their payload methods through
// it. Safe for concurrent use.
//
// Both caches are LRU-bounded. Eviction is indistinguishable from
// never-fetched — an entity whose payload was evicted reports not
// ready and the next read-through refetches.
type Cache struct {
	rooms    *lru.Cache[ref.RoomID, RoomPayload]
	contacts *lru.Cache[ref.ContactID, ContactPayload]
}

// NewCache builds a Cache with the given capacities.
func NewCache(config CacheConfig) (*Cache, error) {
	roomCapacity := config.RoomCapacity
	if roomCapacity == 0 {
		roomCapacity = DefaultRoomCapacity
	}
	contactCapacity := config.ContactCapacity
	if contactCapacity == 0 {
		contactCapacity = DefaultContactCapacity
	}

	rooms, err := lru.New[ref.RoomID, RoomPayload](roomCapacity)
	if err != nil {
		return nil, fmt.Errorf("puppet: room cache capacity %d: %w", roomCapacity, err)
	}
	contacts, err := lru.New[ref.ContactID, ContactPayload](contactCapacity)
	if err != nil {
		return nil, fmt.Errorf("puppet: contact cache capacity %d: %w", contactCapacity, err)
	}
	return &Cache{rooms: rooms, contacts: contacts}, nil
}

// Room returns the cached room payload, if present.
func (c *Cache) Room(roomID ref.RoomID) (RoomPayload, bool) {
	return c.rooms.Get(roomID)
}

// SetRoom stores a room payload under its own ID.
func (c *Cache) SetRoom(payload RoomPayload) {
	c.rooms.Add(payload.ID, payload)
}

// DropRoom removes a room payload. Removing an absent entry is a
// no-op.
func (c *Cache) DropRoom(roomID ref.RoomID) {
	c.rooms.Remove(roomID)
}

// Contact returns the cached contact payload, if present.
func (c *Cache) Contact(contactID ref.ContactID) (ContactPayload, bool) {
	return c.contacts.Get(contactID)
}

// SetContact stores a contact payload under its own ID.
func (c *Cache) SetContact(payload ContactPayload) {
	c.contacts.Add(payload.ID, payload)
}

// DropContact removes a contact payload. Removing an absent entry is
// a no-op.
func (c *Cache) DropContact(contactID ref.ContactID) {
	c.contacts.Remove(contactID)
}

// Purge empties both caches. Providers call this on logout: every
// entity flips to not-ready at once.
func (c *Cache) Purge() {
	c.rooms.Purge()
	c.contacts.Purge()
}
