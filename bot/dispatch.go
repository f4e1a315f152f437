// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
	"github.com/yuk320/wechaty/room"
)

// dispatchLoop consumes the provider event stream until the provider
// closes it. One event at a time: ordering within the stream is
// preserved for subscribers.
func (b *Bot) dispatchLoop(ctx context.Context) {
	defer close(b.drained)
	for event := range b.puppet.Events() {
		if err := b.dispatch(ctx, event); err != nil {
			b.logger.Error("event dispatch failed",
				"event", fmt.Sprintf("%T", event),
				"error", err,
			)
		}
	}
	b.logger.Debug("event stream closed")
}

// dispatch re-labels one provider event. Room-scoped events are
// published on the Room entity they concern; the rest go to the
// bot-level emitters.
func (b *Bot) dispatch(ctx context.Context, event puppet.Event) error {
	switch e := event.(type) {
	case puppet.RoomJoinEvent:
		r, err := b.syncedRoom(ctx, e.RoomID)
		if err != nil {
			return err
		}
		invitees, err := b.resolveContacts(ctx, e.InviteeIDs)
		if err != nil {
			return err
		}
		inviter, err := b.resolveActor(ctx, e.InviterID)
		if err != nil {
			return err
		}
		r.EmitJoin(room.JoinEvent{Invitees: invitees, Inviter: inviter, When: e.When})
		return nil

	case puppet.RoomLeaveEvent:
		r, err := b.syncedRoom(ctx, e.RoomID)
		if err != nil {
			return err
		}
		leavers, err := b.resolveContacts(ctx, e.LeaverIDs)
		if err != nil {
			return err
		}
		remover, err := b.resolveActor(ctx, e.RemoverID)
		if err != nil {
			return err
		}
		r.EmitLeave(room.LeaveEvent{Leavers: leavers, Remover: remover, When: e.When})
		return nil

	case puppet.RoomTopicEvent:
		r, err := b.syncedRoom(ctx, e.RoomID)
		if err != nil {
			return err
		}
		changer, err := b.resolveActor(ctx, e.ChangerID)
		if err != nil {
			return err
		}
		r.EmitTopic(room.TopicEvent{New: e.NewTopic, Old: e.OldTopic, Changer: changer, When: e.When})
		return nil

	case puppet.MessageEvent:
		message := Message{Payload: e.Payload}
		if !e.Payload.RoomID.IsZero() {
			r := b.rooms.Load(e.Payload.RoomID)
			if err := r.Ready(ctx); err != nil {
				return err
			}
			message.Room = r
		}
		if !e.Payload.FromID.IsZero() {
			from, err := b.resolveActor(ctx, e.Payload.FromID)
			if err != nil {
				return err
			}
			message.From = from
		}
		b.messageEvents.Emit(message)
		return nil

	case puppet.ScanEvent:
		b.scanEvents.Emit(Scan{QRCode: e.QRCode, Status: e.Status})
		return nil

	case puppet.LoginEvent:
		c, err := b.resolveActor(ctx, e.ContactID)
		if err != nil {
			return err
		}
		b.logger.Info("logged in", "contact_id", e.ContactID)
		b.loginEvents.Emit(Login{Contact: c})
		return nil

	case puppet.LogoutEvent:
		// No readiness attempt: the session that would serve the
		// fetch is gone.
		var c *contact.Contact
		if !e.ContactID.IsZero() {
			c = b.contacts.Load(e.ContactID)
		}
		b.logger.Info("logged out", "contact_id", e.ContactID, "reason", e.Reason)
		b.logoutEvents.Emit(Logout{Contact: c, Reason: e.Reason})
		return nil

	default:
		return fmt.Errorf("bot: unhandled event %T", event)
	}
}

// syncedRoom loads the room and forces a resync so the cached payload
// reflects the change the event reports.
func (b *Bot) syncedRoom(ctx context.Context, roomID ref.RoomID) (*room.Room, error) {
	r := b.rooms.Load(roomID)
	if err := r.Sync(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// resolveContacts maps contact IDs to ready entities, concurrently
// and all-or-nothing.
func (b *Bot) resolveContacts(ctx context.Context, ids []ref.ContactID) ([]*contact.Contact, error) {
	resolved := make([]*contact.Contact, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		resolved[i] = b.contacts.Load(id)
		group.Go(func() error {
			return resolved[i].Ready(groupCtx)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// resolveActor maps an optional acting contact ID to a ready entity.
// The zero ID resolves to nil.
func (b *Bot) resolveActor(ctx context.Context, id ref.ContactID) (*contact.Contact, error) {
	if id.IsZero() {
		return nil, nil
	}
	c := b.contacts.Load(id)
	if err := c.Ready(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
