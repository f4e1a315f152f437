// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package puppet

import (
	"fmt"
	"time"

	"github.com/yuk320/wechaty/lib/ref"
)

// RoomPayload is a provider's snapshot of a room: identity, topic,
// membership, and the announce text. Every field is provider-owned;
// the SDK never mutates a payload in place — it dirties the cache and
// refetches.
type RoomPayload struct {
	ID        ref.RoomID      `json:"id"`
	Topic     string          `json:"topic"`
	MemberIDs []ref.ContactID `json:"memberIds"`
	OwnerID   ref.ContactID   `json:"ownerId,omitempty"`
	Announce  string          `json:"announce,omitempty"`
	AvatarURL string          `json:"avatarUrl,omitempty"`
}

// ContactPayload is a provider's snapshot of a contact.
type ContactPayload struct {
	ID        ref.ContactID `json:"id"`
	Name      string        `json:"name"`
	Alias     string        `json:"alias,omitempty"`
	AvatarURL string        `json:"avatarUrl,omitempty"`
}

// RoomMemberPayload is room-scoped data about one member: the alias
// the member uses inside that room and who invited them. Identity
// fields live in ContactPayload; this type only carries what differs
// per room.
type RoomMemberPayload struct {
	ID        ref.ContactID `json:"id"`
	RoomAlias string        `json:"roomAlias,omitempty"`
	InviterID ref.ContactID `json:"inviterId,omitempty"`
}

// MessageType classifies a message payload's content.
type MessageType int

const (
	MessageTypeUnknown MessageType = iota
	MessageTypeText
	MessageTypeAttachment
	MessageTypeContact
)

// String returns the wire name of the message type.
func (t MessageType) String() string {
	switch t {
	case MessageTypeText:
		return "text"
	case MessageTypeAttachment:
		return "attachment"
	case MessageTypeContact:
		return "contact"
	case MessageTypeUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
}

// MessagePayload is a provider's record of one message. RoomID is the
// zero value for direct messages.
type MessagePayload struct {
	ID         ref.MessageID   `json:"id"`
	RoomID     ref.RoomID      `json:"roomId,omitempty"`
	FromID     ref.ContactID   `json:"fromId"`
	Type       MessageType     `json:"type"`
	Text       string          `json:"text,omitempty"`
	MentionIDs []ref.ContactID `json:"mentionIds,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
