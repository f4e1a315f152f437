// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// MessageID is a validated provider-namespace message identifier,
// returned by the send operations and carried by message events.
//
// MessageID is an immutable value type and is usable as a map key.
// The zero value is not valid; use IsZero to check.
type MessageID struct {
	id string
}

// ParseMessageID validates and wraps a raw message identifier string.
func ParseMessageID(raw string) (MessageID, error) {
	if err := validateID(raw, "message ID"); err != nil {
		return MessageID{}, err
	}
	return MessageID{id: raw}, nil
}

// String returns the raw identifier string.
func (m MessageID) String() string { return m.id }

// IsZero reports whether the MessageID is the zero value (uninitialized).
func (m MessageID) IsZero() bool { return m.id == "" }

// MarshalText implements encoding.TextMarshaler. The zero value
// marshals as the empty string.
func (m MessageID) MarshalText() ([]byte, error) {
	return []byte(m.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value (unset message ID).
func (m *MessageID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*m = MessageID{}
		return nil
	}
	parsed, err := ParseMessageID(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
