// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package identity provides a process-lifetime identity map: a
// concurrency-safe key-to-instance table that guarantees at most one
// live instance per key.
//
// The entity registries (room.Registry, contact.Registry) are built on
// Map. The guarantee they need is referential: two lookups of the same
// identifier must return the same pointer, so that event subscriptions
// attached through one handle fire for events dispatched through
// another. Map provides that with an atomic check-then-insert under a
// single mutex.
//
// Entries are never evicted. Instance count grows with the number of
// distinct identifiers seen by the process, which mirrors the working
// set of a logged-in account and is bounded in practice.
package identity
