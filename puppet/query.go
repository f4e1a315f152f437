// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package puppet

import "regexp"

// RoomQuery selects rooms by topic. At most one matcher may be set:
// Topic for an exact match, TopicPattern for a regular-expression
// match. The zero query matches every room.
type RoomQuery struct {
	Topic        string
	TopicPattern *regexp.Regexp
}

// IsZero reports whether no matcher is set.
func (q RoomQuery) IsZero() bool {
	return q.Topic == "" && q.TopicPattern == nil
}

// Matches reports whether a room topic satisfies the query. When both
// matchers are set (invalid, callers should reject it) the exact
// match wins.
func (q RoomQuery) Matches(topic string) bool {
	switch {
	case q.Topic != "":
		return q.Topic == topic
	case q.TopicPattern != nil:
		return q.TopicPattern.MatchString(topic)
	default:
		return true
	}
}

// RoomMemberQuery selects room members by name. A member matches when
// any set field equals the corresponding value: Name against the
// contact's profile name, RoomAlias against the alias the member set
// inside the room, ContactAlias against the alias the logged-in
// account gave the contact. The zero query matches every member.
type RoomMemberQuery struct {
	Name         string
	RoomAlias    string
	ContactAlias string
}

// IsZero reports whether no field is set.
func (q RoomMemberQuery) IsZero() bool {
	return q.Name == "" && q.RoomAlias == "" && q.ContactAlias == ""
}

// Matches reports whether a member with the given names satisfies the
// query.
func (q RoomMemberQuery) Matches(name, contactAlias, roomAlias string) bool {
	if q.IsZero() {
		return true
	}
	if q.Name != "" && q.Name == name {
		return true
	}
	if q.ContactAlias != "" && q.ContactAlias == contactAlias {
		return true
	}
	if q.RoomAlias != "" && q.RoomAlias == roomAlias {
		return true
	}
	return false
}
