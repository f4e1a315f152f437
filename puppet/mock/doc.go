// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package mock provides an in-memory Puppet implementation for tests
// and demos.
//
// The mock holds a seeded network: contacts, rooms, and per-room
// member data, all behind one mutex. Payload reads flow through a
// real puppet.Cache, so the readiness semantics the SDK is built on
// (ready ⇔ cached) are exercised for real, not simulated.
//
// Data operations work from construction; Start only brings up the
// event stream (emitting scan and login events) and Stop closes it.
// Mutating operations update the network state and push the matching
// provider event, but never touch the payload cache — consumers see
// stale payloads until they resync, mirroring providers that rely on
// client-driven dirtying.
//
// Tests script failures with FailNext and observe traffic with Calls
// and SentMessages. Events are delivered on a buffered channel with
// non-blocking sends: when no consumer keeps up, events are dropped
// with a warning rather than deadlocking the test.
package mock
