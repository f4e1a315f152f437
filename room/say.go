// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/filebox"
	"github.com/yuk320/wechaty/lib/ref"
)

// mentionSeparator sits between "@name" runs and before the message
// body. U+2005 FOUR-PER-EM SPACE renders like a space but survives
// round trips through providers that collapse plain spaces, which is
// how clients detect the mention boundary.
const mentionSeparator = " "

// Content is one sendable message payload. It is a closed set: Text,
// File, and ContactCard are the only implementations, and Say
// switches over them exhaustively.
type Content interface {
	isContent()
}

// Text is a plain text message, optionally mentioning room members.
// Each mention target contributes an "@alias-or-name" prefix to the
// delivered text and its ID to the provider's mention list.
type Text struct {
	Body     string
	Mentions []*contact.Contact
}

// File is a message carrying a file box: an image, a voice clip, an
// attachment.
type File struct {
	Box *filebox.FileBox
}

// ContactCard shares a contact into the room.
type ContactCard struct {
	Contact *contact.Contact
}

func (Text) isContent()        {}
func (File) isContent()        {}
func (ContactCard) isContent() {}

// Say sends a message into the room. Content decides the provider
// call: Text goes out with its mention prefix and mention ID list,
// File ships the box, ContactCard shares the contact. A nil or
// unknown content fails with ErrInvalidArgument before any provider
// traffic.
func (r *Room) Say(ctx context.Context, content Content) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	switch c := content.(type) {
	case Text:
		return r.sayText(ctx, c)
	case File:
		if c.Box == nil {
			return fmt.Errorf("room: file content without a box: %w", ErrInvalidArgument)
		}
		if _, err := r.puppet.MessageSendFile(ctx, r.id, c.Box); err != nil {
			r.logger.Error("room file send failed", "room_id", r.id, "file", c.Box.Name(), "error", err)
			return fmt.Errorf("room: sending file to %s: %w", r.id, err)
		}
		return nil
	case ContactCard:
		if c.Contact == nil {
			return fmt.Errorf("room: contact card without a contact: %w", ErrInvalidArgument)
		}
		if _, err := r.puppet.MessageSendContact(ctx, r.id, c.Contact.ID()); err != nil {
			r.logger.Error("room contact card send failed", "room_id", r.id, "contact_id", c.Contact.ID(), "error", err)
			return fmt.Errorf("room: sending contact card to %s: %w", r.id, err)
		}
		return nil
	case nil:
		return fmt.Errorf("room: nil say content: %w", ErrInvalidArgument)
	default:
		return fmt.Errorf("room: unsupported say content %T: %w", content, ErrInvalidArgument)
	}
}

func (r *Room) sayText(ctx context.Context, content Text) error {
	text := content.Body
	var mentionIDs []ref.ContactID
	if len(content.Mentions) > 0 {
		prefix, ids, err := r.mentionPrefix(ctx, content.Mentions)
		if err != nil {
			return err
		}
		text = prefix + mentionSeparator + text
		mentionIDs = ids
	}
	if _, err := r.puppet.MessageSendText(ctx, r.id, text, mentionIDs); err != nil {
		r.logger.Error("room text send failed", "room_id", r.id, "error", err)
		return fmt.Errorf("room: sending text to %s: %w", r.id, err)
	}
	return nil
}

// mentionPrefix renders "@name" for each target, preferring the
// member's in-room alias over the profile name, joined by the
// mention separator.
func (r *Room) mentionPrefix(ctx context.Context, mentions []*contact.Contact) (string, []ref.ContactID, error) {
	parts := make([]string, 0, len(mentions))
	ids := make([]ref.ContactID, 0, len(mentions))
	for _, member := range mentions {
		if member == nil {
			return "", nil, fmt.Errorf("room: nil mention target: %w", ErrInvalidArgument)
		}
		display, err := r.mentionName(ctx, member)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "@"+display)
		ids = append(ids, member.ID())
	}
	return strings.Join(parts, mentionSeparator), ids, nil
}

func (r *Room) mentionName(ctx context.Context, member *contact.Contact) (string, error) {
	alias, err := r.Alias(ctx, member)
	if err != nil {
		return "", err
	}
	if alias != "" {
		return alias, nil
	}
	if err := member.Ready(ctx); err != nil {
		return "", fmt.Errorf("room: resolving mention name: %w", err)
	}
	return member.Name(), nil
}

// SayText is shorthand for Say with a Text content.
func (r *Room) SayText(ctx context.Context, body string, mentions ...*contact.Contact) error {
	return r.Say(ctx, Text{Body: body, Mentions: mentions})
}

// SayFile is shorthand for Say with a File content.
func (r *Room) SayFile(ctx context.Context, box *filebox.FileBox) error {
	return r.Say(ctx, File{Box: box})
}

// SayContact is shorthand for Say with a ContactCard content.
func (r *Room) SayContact(ctx context.Context, card *contact.Contact) error {
	return r.Say(ctx, ContactCard{Contact: card})
}
