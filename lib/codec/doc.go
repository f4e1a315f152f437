// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the SDK's standard CBOR encoding configuration.
//
// The SDK uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: provider payload schemas, filebox
//     metadata handed across process boundaries, CLI output.
//   - CBOR for on-disk state: memory card snapshots (file, SQLite, and
//     sealed backends all store values as CBOR).
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, so an unchanged card saves byte-identically.
//
// For buffer-oriented operations (card values, snapshot bodies):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// # Struct Tag Rules
//
// fxamacker/cbor v2 reads `json` tags as fallback when `cbor` tags are
// absent, so types that cross both boundaries (provider payloads stored
// into cards) carry a single `json` tag controlling field naming and
// omitempty for both formats. Use a `cbor` tag only on types that are
// never serialized as JSON. Never use both tags on the same field.
package codec
