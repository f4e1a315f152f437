// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import "errors"

var (
	// ErrInvalidArgument reports a caller mistake: a nil mention
	// target, a filter with no usable matcher, or creating a room
	// with no members. It is checked with errors.Is.
	ErrInvalidArgument = errors.New("room: invalid argument")

	// ErrNotReady reports an operation that requires the room
	// payload in the provider cache before it may run. Call Ready
	// first.
	ErrNotReady = errors.New("room: payload not ready")

	// ErrNoPuppet reports an operation on a zero or detached Room.
	// Rooms must come from a Registry.
	ErrNoPuppet = errors.New("room: no puppet attached")
)
