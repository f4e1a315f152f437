// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

func TestMemberList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	members, err := f.room().MemberList(ctx)
	if err != nil {
		t.Fatalf("MemberList: %v", err)
	}
	want := []ref.ContactID{f.selfID, f.aliceID, f.bobID, f.carolID}
	if len(members) != len(want) {
		t.Fatalf("MemberList returned %d members, want %d", len(members), len(want))
	}
	for i, id := range want {
		if members[i].ID() != id {
			t.Errorf("member[%d] = %s, want %s", i, members[i].ID(), id)
		}
		if members[i] != f.contacts.Load(id) {
			t.Errorf("member[%d] is not the identity-mapped instance", i)
		}
	}
}

func TestMemberListWarnsWhenEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rooms, err := NewRegistry(f.puppet, f.contacts, logger)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	emptyID := mustRoomID(t, "20010@chatroom")
	f.puppet.AddRoom(puppet.RoomPayload{ID: emptyID})

	members, err := rooms.Load(emptyID).MemberList(ctx)
	if err != nil {
		t.Fatalf("MemberList: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("MemberList = %v, want empty", members)
	}
	if !strings.Contains(logs.String(), "no members") {
		t.Errorf("empty membership not logged, got %q", logs.String())
	}
}

func TestMemberAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room()

	tests := []struct {
		name  string
		query *puppet.RoomMemberQuery
		want  []ref.ContactID
	}{
		{
			name:  "nil matches all",
			query: nil,
			want:  []ref.ContactID{f.selfID, f.aliceID, f.bobID, f.carolID},
		},
		{
			name:  "by profile name",
			query: &puppet.RoomMemberQuery{Name: "Bob"},
			want:  []ref.ContactID{f.bobID},
		},
		{
			name:  "by room alias",
			query: &puppet.RoomMemberQuery{RoomAlias: "ally"},
			want:  []ref.ContactID{f.aliceID},
		},
		{
			name:  "display name helper finds the alias",
			query: MemberName("ally"),
			want:  []ref.ContactID{f.aliceID},
		},
		{
			name:  "no match",
			query: MemberName("Nobody"),
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := r.MemberAll(ctx, tt.query)
			if err != nil {
				t.Fatalf("MemberAll: %v", err)
			}
			if len(members) != len(tt.want) {
				t.Fatalf("MemberAll returned %d members, want %d", len(members), len(tt.want))
			}
			for i, id := range tt.want {
				if members[i].ID() != id {
					t.Errorf("member[%d] = %s, want %s", i, members[i].ID(), id)
				}
			}
		})
	}
}

func TestMemberFirstMatchWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Give Bob and Carol the same room alias so the query is
	// ambiguous.
	for _, id := range []ref.ContactID{f.bobID, f.carolID} {
		if err := f.puppet.SetRoomMember(f.roomID, puppet.RoomMemberPayload{ID: id, RoomAlias: "twin"}); err != nil {
			t.Fatalf("SetRoomMember: %v", err)
		}
	}

	member, err := f.room().Member(ctx, &puppet.RoomMemberQuery{RoomAlias: "twin"})
	if err != nil {
		t.Fatalf("Member: %v", err)
	}
	if member == nil {
		t.Fatal("Member returned nil")
	}
	if member.ID() != f.bobID {
		t.Errorf("Member = %s, want first match %s", member.ID(), f.bobID)
	}
}

func TestMemberNoMatchIsNil(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	member, err := f.room().Member(ctx, MemberName("Nobody"))
	if err != nil {
		t.Fatalf("Member: %v", err)
	}
	if member != nil {
		t.Errorf("Member = %v, want nil", member)
	}
}

func TestEachMemberStopsEarly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var visited []ref.ContactID
	err := f.room().EachMember(ctx, func(member *contact.Contact) bool {
		visited = append(visited, member.ID())
		return len(visited) < 2
	})
	if err != nil {
		t.Fatalf("EachMember: %v", err)
	}
	if len(visited) != 2 {
		t.Errorf("visited %d members, want 2", len(visited))
	}
}

func TestHas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room()

	has, err := r.Has(ctx, f.contacts.Load(f.aliceID))
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !has {
		t.Error("Has(Alice) = false, want true")
	}
	has, err = r.Has(ctx, f.contacts.Load(f.daveID))
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if has {
		t.Error("Has(Dave) = true, want false")
	}
}

func TestAlias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room()

	alias, err := r.Alias(ctx, f.contacts.Load(f.aliceID))
	if err != nil {
		t.Fatalf("Alias: %v", err)
	}
	if alias != "ally" {
		t.Errorf("Alias(Alice) = %q, want %q", alias, "ally")
	}
	alias, err = r.Alias(ctx, f.contacts.Load(f.bobID))
	if err != nil {
		t.Fatalf("Alias: %v", err)
	}
	if alias != "" {
		t.Errorf("Alias(Bob) = %q, want empty", alias)
	}
	if _, err := r.Alias(ctx, f.contacts.Load(f.daveID)); err == nil {
		t.Error("Alias(non-member) succeeded, want error")
	}
}

func TestOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room()

	if owner := r.Owner(); owner != nil {
		t.Errorf("Owner before Ready = %v, want nil", owner)
	}
	if err := r.Ready(ctx); err != nil {
		t.Fatalf("Ready: %v", err)
	}
	owner := r.Owner()
	if owner == nil {
		t.Fatal("Owner = nil after Ready")
	}
	if owner != f.contacts.Load(f.selfID) {
		t.Errorf("Owner = %s, want %s", owner.ID(), f.selfID)
	}
}

func TestOwnerAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orphanID := mustRoomID(t, "20011@chatroom")
	f.puppet.AddRoom(puppet.RoomPayload{
		ID:        orphanID,
		Topic:     "ownerless",
		MemberIDs: []ref.ContactID{f.selfID, f.aliceID},
	})

	r := f.rooms.Load(orphanID)
	if err := r.Ready(ctx); err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if owner := r.Owner(); owner != nil {
		t.Errorf("Owner = %v, want nil for ownerless room", owner)
	}
}
