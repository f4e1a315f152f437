// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable identifiers for the
// entities a messaging provider exposes: rooms, contacts, and messages.
//
// Identifier strings are minted by the provider and are opaque to this
// SDK — a WeChat room ID, a Matrix room ID, and a mock-provider UUID
// are all valid RoomID values. Validation is therefore structural only:
// an identifier must be non-empty, carry no surrounding whitespace, and
// contain no control bytes. Anything beyond that is the provider's
// business.
//
// All constructors validate their input and return errors for invalid
// strings. Once constructed, a ref is immutable. The zero value of each
// type is "unset"; use IsZero to check.
//
// JSON, YAML, and CBOR marshal refs as plain strings via
// encoding.TextMarshaler, so payload structs round-trip identifiers
// without custom codec hooks.
package ref
