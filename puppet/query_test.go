// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package puppet

import (
	"regexp"
	"testing"
)

func TestRoomQueryMatches(t *testing.T) {
	tests := []struct {
		name  string
		query RoomQuery
		topic string
		want  bool
	}{
		{name: "zero matches anything", query: RoomQuery{}, topic: "dev", want: true},
		{name: "zero matches empty", query: RoomQuery{}, topic: "", want: true},
		{name: "exact hit", query: RoomQuery{Topic: "dev"}, topic: "dev", want: true},
		{name: "exact miss", query: RoomQuery{Topic: "dev"}, topic: "devops", want: false},
		{name: "pattern hit", query: RoomQuery{TopicPattern: regexp.MustCompile(`^dev`)}, topic: "devops", want: true},
		{name: "pattern miss", query: RoomQuery{TopicPattern: regexp.MustCompile(`^dev$`)}, topic: "devops", want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.query.Matches(test.topic); got != test.want {
				t.Errorf("Matches(%q) = %v, want %v", test.topic, got, test.want)
			}
		})
	}
}

func TestRoomQueryIsZero(t *testing.T) {
	if !(RoomQuery{}).IsZero() {
		t.Error("zero query: IsZero() = false")
	}
	if (RoomQuery{Topic: "x"}).IsZero() {
		t.Error("topic query: IsZero() = true")
	}
	if (RoomQuery{TopicPattern: regexp.MustCompile(`x`)}).IsZero() {
		t.Error("pattern query: IsZero() = true")
	}
}

func TestRoomMemberQueryMatches(t *testing.T) {
	tests := []struct {
		name         string
		query        RoomMemberQuery
		memberName   string
		contactAlias string
		roomAlias    string
		want         bool
	}{
		{name: "zero matches", query: RoomMemberQuery{}, memberName: "Alice", want: true},
		{name: "name hit", query: RoomMemberQuery{Name: "Alice"}, memberName: "Alice", want: true},
		{name: "name miss", query: RoomMemberQuery{Name: "Alice"}, memberName: "Bob", want: false},
		{
			name:         "union across fields",
			query:        RoomMemberQuery{Name: "Nobody", RoomAlias: "al"},
			memberName:   "Alice",
			roomAlias:    "al",
			want:         true,
		},
		{
			name:         "contact alias hit",
			query:        RoomMemberQuery{ContactAlias: "bestie"},
			memberName:   "Alice",
			contactAlias: "bestie",
			want:         true,
		},
		{
			name:       "empty member fields never match set query",
			query:      RoomMemberQuery{Name: "Alice"},
			memberName: "",
			want:       false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.query.Matches(test.memberName, test.contactAlias, test.roomAlias)
			if got != test.want {
				t.Errorf("Matches(%q, %q, %q) = %v, want %v",
					test.memberName, test.contactAlias, test.roomAlias, got, test.want)
			}
		})
	}
}
