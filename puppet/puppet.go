// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package puppet

import (
	"context"

	"github.com/yuk320/wechaty/filebox"
	"github.com/yuk320/wechaty/lib/ref"
)

// Puppet is the capability surface a messaging provider implements.
//
// All blocking methods take a context and return wrapped provider
// errors; none of them panic on unknown identifiers. Methods
// documented as cache peeks never perform network I/O.
type Puppet interface {
	// Start establishes the provider session. Events() becomes live
	// once Start returns.
	Start(ctx context.Context) error

	// Stop tears down the session and closes the event stream.
	Stop(ctx context.Context) error

	// SelfID returns the logged-in account's contact ID, or the zero
	// value before login.
	SelfID() ref.ContactID

	// Events returns the provider's push stream. The same channel is
	// returned on every call; it is closed after Stop.
	Events() <-chan Event

	// RoomCreate creates a room with the given initial members and
	// topic, returning the provider-minted room ID.
	RoomCreate(ctx context.Context, memberIDs []ref.ContactID, topic string) (ref.RoomID, error)

	// RoomSearch returns the IDs of rooms matching query. A zero
	// query matches every room the account is in.
	RoomSearch(ctx context.Context, query RoomQuery) ([]ref.RoomID, error)

	// RoomValidate reports whether the room currently exists and the
	// account participates in it.
	RoomValidate(ctx context.Context, roomID ref.RoomID) (bool, error)

	// RoomPayload returns the room's payload, fetching from the
	// network and caching on a miss.
	RoomPayload(ctx context.Context, roomID ref.RoomID) (RoomPayload, error)

	// DirtyRoomPayload drops the room's cached payload so the next
	// RoomPayload refetches.
	DirtyRoomPayload(ctx context.Context, roomID ref.RoomID) error

	// CachedRoomPayload peeks at the cache. Never performs I/O.
	CachedRoomPayload(roomID ref.RoomID) (RoomPayload, bool)

	// RoomMemberIDs returns the contact IDs of the room's current
	// members.
	RoomMemberIDs(ctx context.Context, roomID ref.RoomID) ([]ref.ContactID, error)

	// RoomMemberSearch returns the member contact IDs matching query.
	// A zero query matches every member.
	RoomMemberSearch(ctx context.Context, roomID ref.RoomID, query RoomMemberQuery) ([]ref.ContactID, error)

	// RoomMemberPayload returns room-scoped member data for one
	// member.
	RoomMemberPayload(ctx context.Context, roomID ref.RoomID, memberID ref.ContactID) (RoomMemberPayload, error)

	// RoomAdd invites or adds a contact to the room.
	RoomAdd(ctx context.Context, roomID ref.RoomID, contactID ref.ContactID) error

	// RoomRemove removes a contact from the room.
	RoomRemove(ctx context.Context, roomID ref.RoomID, contactID ref.ContactID) error

	// RoomQuit makes the logged-in account leave the room.
	RoomQuit(ctx context.Context, roomID ref.RoomID) error

	// RoomTopic returns the room's current topic.
	RoomTopic(ctx context.Context, roomID ref.RoomID) (string, error)

	// RoomSetTopic changes the room's topic.
	RoomSetTopic(ctx context.Context, roomID ref.RoomID, topic string) error

	// RoomAnnounce returns the room's announcement text.
	RoomAnnounce(ctx context.Context, roomID ref.RoomID) (string, error)

	// RoomSetAnnounce changes the room's announcement text.
	RoomSetAnnounce(ctx context.Context, roomID ref.RoomID, text string) error

	// RoomQRCode returns the room's invite QR code value.
	RoomQRCode(ctx context.Context, roomID ref.RoomID) (string, error)

	// RoomAvatar returns the room's avatar image.
	RoomAvatar(ctx context.Context, roomID ref.RoomID) (*filebox.FileBox, error)

	// ContactPayload returns the contact's payload, fetching from the
	// network and caching on a miss.
	ContactPayload(ctx context.Context, contactID ref.ContactID) (ContactPayload, error)

	// DirtyContactPayload drops the contact's cached payload so the
	// next ContactPayload refetches.
	DirtyContactPayload(ctx context.Context, contactID ref.ContactID) error

	// CachedContactPayload peeks at the cache. Never performs I/O.
	CachedContactPayload(contactID ref.ContactID) (ContactPayload, bool)

	// MessageSendText sends a text message to a room. Mentions lists
	// the contacts the text addresses; providers that support it
	// attach them as structured mention targets.
	MessageSendText(ctx context.Context, roomID ref.RoomID, text string, mentions []ref.ContactID) (ref.MessageID, error)

	// MessageSendFile sends a binary attachment to a room.
	MessageSendFile(ctx context.Context, roomID ref.RoomID, box *filebox.FileBox) (ref.MessageID, error)

	// MessageSendContact sends a contact card to a room.
	MessageSendContact(ctx context.Context, roomID ref.RoomID, contactID ref.ContactID) (ref.MessageID, error)
}
