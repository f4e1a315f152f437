// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"time"

	"github.com/yuk320/wechaty/contact"
)

// JoinEvent reports contacts entering the room.
type JoinEvent struct {
	// Invitees are the contacts that joined.
	Invitees []*contact.Contact
	// Inviter is who brought them in.
	Inviter *contact.Contact
	// When is the provider timestamp of the join.
	When time.Time
}

// LeaveEvent reports contacts leaving the room.
type LeaveEvent struct {
	// Leavers are the contacts that left.
	Leavers []*contact.Contact
	// Remover is who kicked them, or nil when they left on their
	// own.
	Remover *contact.Contact
	// When is the provider timestamp of the departure.
	When time.Time
}

// TopicEvent reports a room rename.
type TopicEvent struct {
	// New is the topic after the change, Old the one before.
	New string
	Old string
	// Changer is who renamed the room.
	Changer *contact.Contact
	// When is the provider timestamp of the change.
	When time.Time
}

// OnJoin subscribes to member arrivals. The returned function
// removes the subscription; calling it more than once is harmless.
// Because room instances are identity-mapped, a handler attached
// here observes joins regardless of which handle the event was
// published through.
func (r *Room) OnJoin(handler func(JoinEvent)) (off func()) {
	return r.joinEvents.Subscribe(handler)
}

// OnLeave subscribes to member departures.
func (r *Room) OnLeave(handler func(LeaveEvent)) (off func()) {
	return r.leaveEvents.Subscribe(handler)
}

// OnTopic subscribes to room renames.
func (r *Room) OnTopic(handler func(TopicEvent)) (off func()) {
	return r.topicEvents.Subscribe(handler)
}

// EmitJoin delivers a join event to every subscriber, synchronously.
// This is the publish side used by the bot dispatcher after it has
// resolved provider identifiers into entities.
func (r *Room) EmitJoin(event JoinEvent) {
	r.joinEvents.Emit(event)
}

// EmitLeave delivers a leave event to every subscriber.
func (r *Room) EmitLeave(event LeaveEvent) {
	r.leaveEvents.Emit(event)
}

// EmitTopic delivers a topic-change event to every subscriber.
func (r *Room) EmitTopic(event TopicEvent) {
	r.topicEvents.Emit(event)
}
