// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/filebox"
	"github.com/yuk320/wechaty/lib/events"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// Room is a handle on one group conversation. It holds no attribute
// state of its own: reads go through the puppet's payload cache and
// mutations are forwarded to the provider. Obtain instances from a
// Registry; the zero Room is inert and fails every operation with
// ErrNoPuppet.
type Room struct {
	id       ref.RoomID
	puppet   puppet.Puppet
	contacts *contact.Registry
	logger   *slog.Logger

	joinEvents  events.Emitter[JoinEvent]
	leaveEvents events.Emitter[LeaveEvent]
	topicEvents events.Emitter[TopicEvent]
}

// ID returns the provider-scoped room identifier.
func (r *Room) ID() ref.RoomID {
	return r.id
}

// IsReady reports whether the room payload sits in the provider
// cache, readable without network I/O. It never triggers a fetch.
func (r *Room) IsReady() bool {
	if r.puppet == nil {
		return false
	}
	_, ok := r.puppet.CachedRoomPayload(r.id)
	return ok
}

// Ready makes the room payload available in the provider cache,
// fetching it if absent, then readies every member contact. Member
// fetches run concurrently and fail as a unit: one failure fails the
// whole call. Ready is a no-op when IsReady already holds.
func (r *Room) Ready(ctx context.Context) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	if r.IsReady() {
		return nil
	}
	return r.fetch(ctx)
}

// Sync invalidates the provider's cached payload and refetches it,
// picking up remote changes such as a topic set from another device.
func (r *Room) Sync(ctx context.Context) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	if err := r.puppet.DirtyRoomPayload(ctx, r.id); err != nil {
		r.logger.Error("room payload invalidation failed", "room_id", r.id, "error", err)
		return fmt.Errorf("room: invalidating payload for %s: %w", r.id, err)
	}
	return r.fetch(ctx)
}

// fetch pulls the payload from the provider and readies the members
// it names. On fetch failure the cache is untouched and the room
// stays unready.
func (r *Room) fetch(ctx context.Context) error {
	payload, err := r.puppet.RoomPayload(ctx, r.id)
	if err != nil {
		r.logger.Error("room payload fetch failed", "room_id", r.id, "error", err)
		return fmt.Errorf("room: fetching payload for %s: %w", r.id, err)
	}
	return r.readyMembers(ctx, payload.MemberIDs)
}

// readyMembers fans out over the member contacts concurrently. All
// succeed or the call fails.
func (r *Room) readyMembers(ctx context.Context, memberIDs []ref.ContactID) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, memberID := range memberIDs {
		member := r.contacts.Load(memberID)
		group.Go(func() error {
			return member.Ready(groupCtx)
		})
	}
	if err := group.Wait(); err != nil {
		r.logger.Error("room member readying failed", "room_id", r.id, "error", err)
		return fmt.Errorf("room: readying members of %s: %w", r.id, err)
	}
	return nil
}

// Topic returns the room's display topic. Rooms created without an
// explicit topic get a synthesized one: the first three non-self
// member names, comma-joined.
func (r *Room) Topic(ctx context.Context) (string, error) {
	if r.puppet == nil {
		return "", ErrNoPuppet
	}
	if !r.IsReady() {
		r.logger.Warn("room topic read before payload is ready", "room_id", r.id)
	}
	if payload, ok := r.puppet.CachedRoomPayload(r.id); ok && payload.Topic != "" {
		return payload.Topic, nil
	}
	return r.defaultTopic(ctx)
}

func (r *Room) defaultTopic(ctx context.Context) (string, error) {
	memberIDs, err := r.puppet.RoomMemberIDs(ctx, r.id)
	if err != nil {
		r.logger.Error("room member listing failed", "room_id", r.id, "error", err)
		return "", fmt.Errorf("room: synthesizing topic for %s: %w", r.id, err)
	}
	selfID := r.puppet.SelfID()
	names := make([]string, 0, 3)
	for _, memberID := range memberIDs {
		if memberID == selfID {
			continue
		}
		member := r.contacts.Load(memberID)
		if err := member.Ready(ctx); err != nil {
			return "", fmt.Errorf("room: synthesizing topic for %s: %w", r.id, err)
		}
		names = append(names, member.Name())
		if len(names) == 3 {
			break
		}
	}
	return strings.Join(names, ","), nil
}

// SetTopic renames the room. The payload must already be ready; call
// Ready first or SetTopic fails with ErrNotReady. Provider failures
// are logged and returned.
func (r *Room) SetTopic(ctx context.Context, topic string) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	if !r.IsReady() {
		return fmt.Errorf("room: setting topic on %s: %w", r.id, ErrNotReady)
	}
	if err := r.puppet.RoomSetTopic(ctx, r.id, topic); err != nil {
		r.logger.Error("room topic update failed", "room_id", r.id, "topic", topic, "error", err)
		return fmt.Errorf("room: setting topic on %s: %w", r.id, err)
	}
	return nil
}

// Announce returns the room announcement, or "" when none is set.
func (r *Room) Announce(ctx context.Context) (string, error) {
	if r.puppet == nil {
		return "", ErrNoPuppet
	}
	text, err := r.puppet.RoomAnnounce(ctx, r.id)
	if err != nil {
		r.logger.Error("room announce read failed", "room_id", r.id, "error", err)
		return "", fmt.Errorf("room: reading announce of %s: %w", r.id, err)
	}
	return text, nil
}

// SetAnnounce replaces the room announcement. Most providers restrict
// this to the room owner; the provider error is passed through.
func (r *Room) SetAnnounce(ctx context.Context, text string) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	if err := r.puppet.RoomSetAnnounce(ctx, r.id, text); err != nil {
		r.logger.Error("room announce update failed", "room_id", r.id, "error", err)
		return fmt.Errorf("room: setting announce of %s: %w", r.id, err)
	}
	return nil
}

// QRCode returns the provider's join-this-room QR code value.
func (r *Room) QRCode(ctx context.Context) (string, error) {
	if r.puppet == nil {
		return "", ErrNoPuppet
	}
	code, err := r.puppet.RoomQRCode(ctx, r.id)
	if err != nil {
		r.logger.Error("room qrcode fetch failed", "room_id", r.id, "error", err)
		return "", fmt.Errorf("room: fetching qrcode of %s: %w", r.id, err)
	}
	return code, nil
}

// Avatar returns the room's avatar image as a file box.
func (r *Room) Avatar(ctx context.Context) (*filebox.FileBox, error) {
	if r.puppet == nil {
		return nil, ErrNoPuppet
	}
	box, err := r.puppet.RoomAvatar(ctx, r.id)
	if err != nil {
		r.logger.Error("room avatar fetch failed", "room_id", r.id, "error", err)
		return nil, fmt.Errorf("room: fetching avatar of %s: %w", r.id, err)
	}
	return box, nil
}

// Add invites a contact into the room. Whether the contact joins
// immediately or receives an invitation is up to the provider.
func (r *Room) Add(ctx context.Context, member *contact.Contact) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	if member == nil {
		return fmt.Errorf("room: adding nil contact: %w", ErrInvalidArgument)
	}
	if err := r.puppet.RoomAdd(ctx, r.id, member.ID()); err != nil {
		r.logger.Error("room add failed", "room_id", r.id, "contact_id", member.ID(), "error", err)
		return fmt.Errorf("room: adding %s to %s: %w", member.ID(), r.id, err)
	}
	return nil
}

// Remove kicks a contact out of the room. Most providers require the
// calling account to be the room owner or an admin.
func (r *Room) Remove(ctx context.Context, member *contact.Contact) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	if member == nil {
		return fmt.Errorf("room: removing nil contact: %w", ErrInvalidArgument)
	}
	if err := r.puppet.RoomRemove(ctx, r.id, member.ID()); err != nil {
		r.logger.Error("room remove failed", "room_id", r.id, "contact_id", member.ID(), "error", err)
		return fmt.Errorf("room: removing %s from %s: %w", member.ID(), r.id, err)
	}
	return nil
}

// Quit makes the logged-in account leave the room. The handle stays
// valid afterwards but most operations will start failing provider
// side.
func (r *Room) Quit(ctx context.Context) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	if err := r.puppet.RoomQuit(ctx, r.id); err != nil {
		r.logger.Error("room quit failed", "room_id", r.id, "error", err)
		return fmt.Errorf("room: quitting %s: %w", r.id, err)
	}
	return nil
}

// String renders "Room<topic>" when the payload is cached with a
// topic, otherwise "Room<id>". It never does I/O.
func (r *Room) String() string {
	if r.puppet != nil {
		if payload, ok := r.puppet.CachedRoomPayload(r.id); ok && payload.Topic != "" {
			return "Room<" + payload.Topic + ">"
		}
	}
	return "Room<" + r.id.String() + ">"
}
