// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Code that stamps times — the mock provider stamping events and
// message payloads — accepts a Clock instead of calling time.Now
// directly. In production, Real() provides the standard library
// behavior. In tests, Fake() provides a deterministic clock that
// moves only when Advance or Set is called.
//
// # Wiring Pattern
//
// Add a Clock field to structs that read time:
//
//	type Puppet struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	p := New(Config{Clock: clock.Real()})
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	p := New(Config{Clock: c})
//	c.Advance(5 * time.Second)
package clock
