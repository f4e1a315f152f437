// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// ContactID is a validated provider-namespace contact identifier.
//
// Like RoomID, the wrapped string is opaque and provider-minted. A
// ContactID names an account on the provider: a room member, a direct
// message peer, or the logged-in account itself.
//
// ContactID is an immutable value type and is usable as a map key.
// The zero value is not valid; use IsZero to check.
type ContactID struct {
	id string
}

// ParseContactID validates and wraps a raw contact identifier string.
func ParseContactID(raw string) (ContactID, error) {
	if err := validateID(raw, "contact ID"); err != nil {
		return ContactID{}, err
	}
	return ContactID{id: raw}, nil
}

// String returns the raw identifier string.
func (c ContactID) String() string { return c.id }

// IsZero reports whether the ContactID is the zero value (uninitialized).
func (c ContactID) IsZero() bool { return c.id == "" }

// MarshalText implements encoding.TextMarshaler. The zero value
// marshals as the empty string.
func (c ContactID) MarshalText() ([]byte, error) {
	return []byte(c.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value (unset contact ID).
func (c *ContactID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*c = ContactID{}
		return nil
	}
	parsed, err := ParseContactID(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
