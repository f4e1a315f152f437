// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the current-time source. Production code injects
// Real(); tests inject Fake() with deterministic time control.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the system clock.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
