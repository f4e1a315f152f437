// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"context"
	"fmt"
	"slices"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/puppet"
)

// MemberName builds the common "find by display name" member query:
// it matches name against the profile name, the in-room alias, and
// the contact alias, any one of which suffices.
func MemberName(name string) *puppet.RoomMemberQuery {
	return &puppet.RoomMemberQuery{Name: name, RoomAlias: name, ContactAlias: name}
}

// Has reports whether the contact is currently a member of the room.
func (r *Room) Has(ctx context.Context, member *contact.Contact) (bool, error) {
	if r.puppet == nil {
		return false, ErrNoPuppet
	}
	if member == nil {
		return false, fmt.Errorf("room: nil contact: %w", ErrInvalidArgument)
	}
	memberIDs, err := r.puppet.RoomMemberIDs(ctx, r.id)
	if err != nil {
		r.logger.Error("room member listing failed", "room_id", r.id, "error", err)
		return false, fmt.Errorf("room: listing members of %s: %w", r.id, err)
	}
	return slices.Contains(memberIDs, member.ID()), nil
}

// Alias returns the contact's in-room alias, or "" when the member
// has not set one. The contact must be a room member.
func (r *Room) Alias(ctx context.Context, member *contact.Contact) (string, error) {
	if r.puppet == nil {
		return "", ErrNoPuppet
	}
	if member == nil {
		return "", fmt.Errorf("room: nil contact: %w", ErrInvalidArgument)
	}
	payload, err := r.puppet.RoomMemberPayload(ctx, r.id, member.ID())
	if err != nil {
		r.logger.Error("room member payload fetch failed", "room_id", r.id, "contact_id", member.ID(), "error", err)
		return "", fmt.Errorf("room: reading alias of %s in %s: %w", member.ID(), r.id, err)
	}
	return payload.RoomAlias, nil
}

// MemberAll returns the members matching the query, in provider
// order. A nil or zero query matches every member.
func (r *Room) MemberAll(ctx context.Context, query *puppet.RoomMemberQuery) ([]*contact.Contact, error) {
	if r.puppet == nil {
		return nil, ErrNoPuppet
	}
	var resolved puppet.RoomMemberQuery
	if query != nil {
		resolved = *query
	}
	memberIDs, err := r.puppet.RoomMemberSearch(ctx, r.id, resolved)
	if err != nil {
		r.logger.Error("room member search failed", "room_id", r.id, "error", err)
		return nil, fmt.Errorf("room: searching members of %s: %w", r.id, err)
	}
	members := make([]*contact.Contact, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		members = append(members, r.contacts.Load(memberID))
	}
	return members, nil
}

// Member returns the first member matching the query, or nil when no
// member does. Multiple matches are logged and the first wins.
func (r *Room) Member(ctx context.Context, query *puppet.RoomMemberQuery) (*contact.Contact, error) {
	members, err := r.MemberAll(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	if len(members) > 1 {
		r.logger.Info("room member query matched several members, using the first",
			"room_id", r.id, "count", len(members))
	}
	return members[0], nil
}

// MemberList returns every member of the room. An empty membership
// is suspicious for a live room, so it is logged; the result is
// still an empty list, not an error.
func (r *Room) MemberList(ctx context.Context) ([]*contact.Contact, error) {
	if r.puppet == nil {
		return nil, ErrNoPuppet
	}
	memberIDs, err := r.puppet.RoomMemberIDs(ctx, r.id)
	if err != nil {
		r.logger.Error("room member listing failed", "room_id", r.id, "error", err)
		return nil, fmt.Errorf("room: listing members of %s: %w", r.id, err)
	}
	if len(memberIDs) == 0 {
		r.logger.Warn("room has no members", "room_id", r.id)
	}
	members := make([]*contact.Contact, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		members = append(members, r.contacts.Load(memberID))
	}
	return members, nil
}

// EachMember visits the members one at a time, in provider order,
// without materializing the whole list. Returning false from visit
// stops the walk early.
func (r *Room) EachMember(ctx context.Context, visit func(*contact.Contact) bool) error {
	if r.puppet == nil {
		return ErrNoPuppet
	}
	memberIDs, err := r.puppet.RoomMemberIDs(ctx, r.id)
	if err != nil {
		r.logger.Error("room member listing failed", "room_id", r.id, "error", err)
		return fmt.Errorf("room: listing members of %s: %w", r.id, err)
	}
	for _, memberID := range memberIDs {
		if !visit(r.contacts.Load(memberID)) {
			return nil
		}
	}
	return nil
}

// Owner returns the room owner, or nil when the payload is not ready
// or the provider does not expose ownership. It reads only the
// cache and never does I/O.
func (r *Room) Owner() *contact.Contact {
	if r.puppet == nil {
		return nil
	}
	payload, ok := r.puppet.CachedRoomPayload(r.id)
	if !ok || payload.OwnerID.IsZero() {
		return nil
	}
	return r.contacts.Load(payload.OwnerID)
}
