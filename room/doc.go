// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package room provides the Room entity: a group-chat handle that
// delegates every operation to the puppet provider.
//
// A Room owns no attribute state. Topic, members, owner, and announce
// all live in the provider's payload cache; the Room reads through it
// (Ready fetches on demand, Sync invalidates and refetches, IsReady
// peeks) and forwards mutations. "Ready" means exactly one thing: the
// payload is in the provider's cache, readable without network I/O.
// Readying a room also readies every member contact, concurrently and
// all-or-nothing.
//
// Identity is referential. Rooms are constructed only by a Registry,
// which guarantees one live instance per room ID for its lifetime —
// event handlers attached through one handle fire for events
// published through any other handle of the same room. The zero Room
// is inert: operations on it fail with ErrNoPuppet.
//
// Lookup follows two deliberate error policies: FindAll is fail-safe
// (provider failures are logged and produce an empty list), while
// Find propagates validation failures. Both are documented on the
// methods.
package room
