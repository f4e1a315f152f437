// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package puppet defines the provider contract: the capability
// interface a messaging backend implements so the SDK's entities can
// run on top of it.
//
// A puppet owns the session with the real messaging network. It mints
// identifiers, serves payloads, performs mutations, and pushes events.
// The SDK layers above (room, contact, bot) never talk to a network —
// they delegate every operation to the Puppet and interpret the
// results.
//
// # Payload caching
//
// Payload reads are read-through: RoomPayload and ContactPayload fetch
// from the network if needed and cache the result; CachedRoomPayload
// and CachedContactPayload peek at the cache and never touch the
// network; DirtyRoomPayload and DirtyContactPayload invalidate. Entity
// readiness is defined as cache presence, so providers must keep these
// six methods coherent. The Cache type implements the bookkeeping —
// embed one rather than reimplementing it.
//
// # Events
//
// Events() exposes the provider's push stream as a channel of sealed
// Event variants. The channel is closed when the puppet stops. The bot
// dispatcher is the intended consumer; user code subscribes to the
// typed per-entity events it re-labels these into.
package puppet
