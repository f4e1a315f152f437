// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// RoomID is a validated provider-namespace room identifier.
//
// The string inside is opaque: its shape is whatever the provider
// mints ("12345@chatroom", "!abc:example.com", a UUID). RoomID only
// guarantees the structural rules in the package documentation.
//
// RoomID is an immutable value type and is usable as a map key. The
// zero value is not valid; use IsZero to check.
type RoomID struct {
	id string
}

// ParseRoomID validates and wraps a raw room identifier string.
func ParseRoomID(raw string) (RoomID, error) {
	if err := validateID(raw, "room ID"); err != nil {
		return RoomID{}, err
	}
	return RoomID{id: raw}, nil
}

// String returns the raw identifier string.
func (r RoomID) String() string { return r.id }

// IsZero reports whether the RoomID is the zero value (uninitialized).
func (r RoomID) IsZero() bool { return r.id == "" }

// MarshalText implements encoding.TextMarshaler. The zero value
// marshals as the empty string.
func (r RoomID) MarshalText() ([]byte, error) {
	return []byte(r.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value (unset room ID).
func (r *RoomID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*r = RoomID{}
		return nil
	}
	parsed, err := ParseRoomID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
