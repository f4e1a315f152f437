// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"testing"
	"time"

	"github.com/yuk320/wechaty/contact"
)

func TestEventsCrossHandles(t *testing.T) {
	f := newFixture(t)

	// Identity mapping means a handler attached through one handle
	// observes events published through another.
	listener := f.rooms.Load(f.roomID)
	publisher := f.rooms.Load(f.roomID)

	var got []JoinEvent
	off := listener.OnJoin(func(event JoinEvent) {
		got = append(got, event)
	})
	defer off()

	event := JoinEvent{
		Invitees: []*contact.Contact{f.contacts.Load(f.daveID)},
		Inviter:  f.contacts.Load(f.selfID),
		When:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	publisher.EmitJoin(event)

	if len(got) != 1 {
		t.Fatalf("handler fired %d times, want 1", len(got))
	}
	if len(got[0].Invitees) != 1 || got[0].Invitees[0].ID() != f.daveID {
		t.Errorf("invitees = %v", got[0].Invitees)
	}
	if got[0].Inviter == nil || got[0].Inviter.ID() != f.selfID {
		t.Errorf("inviter = %v", got[0].Inviter)
	}
}

func TestOffStopsDelivery(t *testing.T) {
	f := newFixture(t)
	r := f.room()

	fired := 0
	off := r.OnTopic(func(TopicEvent) { fired++ })

	r.EmitTopic(TopicEvent{New: "ops", Old: "dev"})
	off()
	off() // second call is harmless
	r.EmitTopic(TopicEvent{New: "dev", Old: "ops"})

	if fired != 1 {
		t.Errorf("handler fired %d times, want 1", fired)
	}
}

func TestAllSubscribersFire(t *testing.T) {
	f := newFixture(t)
	r := f.room()

	first, second := 0, 0
	offFirst := r.OnLeave(func(LeaveEvent) { first++ })
	defer offFirst()
	offSecond := r.OnLeave(func(LeaveEvent) { second++ })
	defer offSecond()

	r.EmitLeave(LeaveEvent{Leavers: []*contact.Contact{f.contacts.Load(f.bobID)}})

	if first != 1 || second != 1 {
		t.Errorf("handlers fired (%d, %d), want (1, 1)", first, second)
	}
}

func TestEmitIsSynchronous(t *testing.T) {
	f := newFixture(t)
	r := f.room()

	delivered := false
	off := r.OnJoin(func(JoinEvent) { delivered = true })
	defer off()

	r.EmitJoin(JoinEvent{})
	if !delivered {
		t.Error("EmitJoin returned before the handler ran")
	}
}
