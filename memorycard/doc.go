// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package memorycard is the bot's persistent key-value memory: login
// tokens, provider session blobs, plugin state. Values are stored as
// deterministic CBOR, so identical card contents always serialize to
// identical bytes.
//
// A Card is an in-memory map with an optional Store behind it. Load
// and Save move the whole card between memory and the store; Get, Set,
// Delete, and friends work purely in memory. Four stores ship with the
// package:
//
//   - MemoryStore: ephemeral, for tests and throwaway bots.
//   - FileStore: one file, optionally lz4- or zstd-compressed,
//     written atomically (temp file + rename).
//   - SQLiteStore: a card table in a SQLite database, for bots that
//     already keep other state there.
//   - SealedFileStore: the FileStore encoding encrypted to an age
//     identity, for cards that carry provider credentials.
//
// Multiplex carves a namespaced view out of a card so independent
// plugins can share one card without key collisions:
//
//	card, err := memorycard.New(memorycard.Config{Store: store})
//	...
//	greeter := card.Multiplex("greeter")
//	err = greeter.Set("count", 42)   // stored as "greeter␟count"
//
// Views share the root card's data; only the root can Load and Save.
package memorycard
