// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package mock

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yuk320/wechaty/filebox"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// mockAvatarPNG is the placeholder avatar served for rooms without a
// seeded avatar URL: a 1x1 transparent PNG.
var mockAvatarPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// RoomCreate creates a room containing the account plus the given
// members, in order, with the account as owner.
func (p *Puppet) RoomCreate(ctx context.Context, memberIDs []ref.ContactID, topic string) (ref.RoomID, error) {
	if err := p.operationGate("RoomCreate"); err != nil {
		return ref.RoomID{}, err
	}
	roomID, err := ref.ParseRoomID(uuid.NewString() + "@chatroom")
	if err != nil {
		return ref.RoomID{}, fmt.Errorf("mock: minting room ID: %w", err)
	}

	state := &roomState{
		topic:   topic,
		ownerID: p.selfID,
		members: make(map[ref.ContactID]puppet.RoomMemberPayload),
	}
	addMember := func(contactID ref.ContactID) {
		if _, ok := state.members[contactID]; ok {
			return
		}
		state.memberOrder = append(state.memberOrder, contactID)
		state.members[contactID] = puppet.RoomMemberPayload{ID: contactID, InviterID: p.selfID}
	}
	addMember(p.selfID)
	for _, memberID := range memberIDs {
		addMember(memberID)
	}

	p.mu.Lock()
	p.rooms[roomID] = state
	p.roomOrder = append(p.roomOrder, roomID)
	p.mu.Unlock()
	return roomID, nil
}

// RoomSearch returns the rooms the account participates in whose
// topic matches query, in seeding order.
func (p *Puppet) RoomSearch(ctx context.Context, query puppet.RoomQuery) ([]ref.RoomID, error) {
	if err := p.operationGate("RoomSearch"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	var matches []ref.RoomID
	for _, roomID := range p.roomOrder {
		state := p.rooms[roomID]
		if _, member := state.members[p.selfID]; !member {
			continue
		}
		if query.Matches(state.topic) {
			matches = append(matches, roomID)
		}
	}
	return matches, nil
}

// RoomValidate reports whether the room exists and the account is a
// member.
func (p *Puppet) RoomValidate(ctx context.Context, roomID ref.RoomID) (bool, error) {
	if err := p.operationGate("RoomValidate"); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return false, nil
	}
	_, member := state.members[p.selfID]
	return member, nil
}

// RoomPayload returns the room payload, serving from the cache when
// present and otherwise building it from network state and caching
// it.
func (p *Puppet) RoomPayload(ctx context.Context, roomID ref.RoomID) (puppet.RoomPayload, error) {
	if err := p.operationGate("RoomPayload"); err != nil {
		return puppet.RoomPayload{}, err
	}
	if payload, ok := p.cache.Room(roomID); ok {
		return payload, nil
	}

	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return puppet.RoomPayload{}, fmt.Errorf("mock: room %s not found", roomID)
	}
	payload := state.payload(roomID)
	p.mu.Unlock()

	p.cache.SetRoom(payload)
	return payload, nil
}

// DirtyRoomPayload drops the cached room payload.
func (p *Puppet) DirtyRoomPayload(ctx context.Context, roomID ref.RoomID) error {
	if err := p.operationGate("DirtyRoomPayload"); err != nil {
		return err
	}
	p.cache.DropRoom(roomID)
	return nil
}

// CachedRoomPayload peeks at the payload cache.
func (p *Puppet) CachedRoomPayload(roomID ref.RoomID) (puppet.RoomPayload, bool) {
	return p.cache.Room(roomID)
}

// RoomMemberIDs returns the room's member IDs in join order.
func (p *Puppet) RoomMemberIDs(ctx context.Context, roomID ref.RoomID) ([]ref.ContactID, error) {
	if err := p.operationGate("RoomMemberIDs"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("mock: room %s not found", roomID)
	}
	ids := make([]ref.ContactID, len(state.memberOrder))
	copy(ids, state.memberOrder)
	return ids, nil
}

// RoomMemberSearch returns the member IDs whose names match query, in
// join order.
func (p *Puppet) RoomMemberSearch(ctx context.Context, roomID ref.RoomID, query puppet.RoomMemberQuery) ([]ref.ContactID, error) {
	if err := p.operationGate("RoomMemberSearch"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("mock: room %s not found", roomID)
	}
	var matches []ref.ContactID
	for _, memberID := range state.memberOrder {
		contact := p.contacts[memberID]
		member := state.members[memberID]
		if query.Matches(contact.Name, contact.Alias, member.RoomAlias) {
			matches = append(matches, memberID)
		}
	}
	return matches, nil
}

// RoomMemberPayload returns room-scoped data for one member.
func (p *Puppet) RoomMemberPayload(ctx context.Context, roomID ref.RoomID, memberID ref.ContactID) (puppet.RoomMemberPayload, error) {
	if err := p.operationGate("RoomMemberPayload"); err != nil {
		return puppet.RoomMemberPayload{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return puppet.RoomMemberPayload{}, fmt.Errorf("mock: room %s not found", roomID)
	}
	member, ok := state.members[memberID]
	if !ok {
		return puppet.RoomMemberPayload{}, fmt.Errorf("mock: contact %s is not a member of room %s", memberID, roomID)
	}
	return member, nil
}

// RoomAdd adds a known contact to the room and pushes a join event
// with the account as inviter. Adding an existing member is a no-op.
func (p *Puppet) RoomAdd(ctx context.Context, roomID ref.RoomID, contactID ref.ContactID) error {
	if err := p.operationGate("RoomAdd"); err != nil {
		return err
	}
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	if _, ok := p.contacts[contactID]; !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: contact %s not found", contactID)
	}
	if _, ok := state.members[contactID]; ok {
		p.mu.Unlock()
		return nil
	}
	state.memberOrder = append(state.memberOrder, contactID)
	state.members[contactID] = puppet.RoomMemberPayload{ID: contactID, InviterID: p.selfID}
	p.mu.Unlock()

	p.emit(puppet.RoomJoinEvent{
		RoomID:     roomID,
		InviteeIDs: []ref.ContactID{contactID},
		InviterID:  p.selfID,
		When:       p.clock.Now(),
	})
	return nil
}

// RoomRemove removes a member from the room and pushes a leave event
// with the account as remover. Removing a non-member is a no-op.
func (p *Puppet) RoomRemove(ctx context.Context, roomID ref.RoomID, contactID ref.ContactID) error {
	if err := p.operationGate("RoomRemove"); err != nil {
		return err
	}
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	if _, ok := state.members[contactID]; !ok {
		p.mu.Unlock()
		return nil
	}
	state.removeMember(contactID)
	p.mu.Unlock()

	p.emit(puppet.RoomLeaveEvent{
		RoomID:    roomID,
		LeaverIDs: []ref.ContactID{contactID},
		RemoverID: p.selfID,
		When:      p.clock.Now(),
	})
	return nil
}

// RoomQuit removes the account from the room and pushes a leave
// event.
func (p *Puppet) RoomQuit(ctx context.Context, roomID ref.RoomID) error {
	if err := p.operationGate("RoomQuit"); err != nil {
		return err
	}
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	state.removeMember(p.selfID)
	p.mu.Unlock()

	p.emit(puppet.RoomLeaveEvent{
		RoomID:    roomID,
		LeaverIDs: []ref.ContactID{p.selfID},
		When:      p.clock.Now(),
	})
	return nil
}

// RoomTopic returns the room's current topic from network state.
func (p *Puppet) RoomTopic(ctx context.Context, roomID ref.RoomID) (string, error) {
	if err := p.operationGate("RoomTopic"); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return "", fmt.Errorf("mock: room %s not found", roomID)
	}
	return state.topic, nil
}

// RoomSetTopic changes the topic and pushes a topic event with the
// account as changer.
func (p *Puppet) RoomSetTopic(ctx context.Context, roomID ref.RoomID, topic string) error {
	if err := p.operationGate("RoomSetTopic"); err != nil {
		return err
	}
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	oldTopic := state.topic
	state.topic = topic
	p.mu.Unlock()

	p.emit(puppet.RoomTopicEvent{
		RoomID:    roomID,
		NewTopic:  topic,
		OldTopic:  oldTopic,
		ChangerID: p.selfID,
		When:      p.clock.Now(),
	})
	return nil
}

// RoomAnnounce returns the room's announcement text.
func (p *Puppet) RoomAnnounce(ctx context.Context, roomID ref.RoomID) (string, error) {
	if err := p.operationGate("RoomAnnounce"); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return "", fmt.Errorf("mock: room %s not found", roomID)
	}
	return state.announce, nil
}

// RoomSetAnnounce changes the announcement text.
func (p *Puppet) RoomSetAnnounce(ctx context.Context, roomID ref.RoomID, text string) error {
	if err := p.operationGate("RoomSetAnnounce"); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	state.announce = text
	return nil
}

// RoomQRCode returns the seeded invite QR code, or a deterministic
// mock value when none was seeded.
func (p *Puppet) RoomQRCode(ctx context.Context, roomID ref.RoomID) (string, error) {
	if err := p.operationGate("RoomQRCode"); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return "", fmt.Errorf("mock: room %s not found", roomID)
	}
	if state.qrCode != "" {
		return state.qrCode, nil
	}
	return "mock://join/" + roomID.String(), nil
}

// RoomAvatar returns the room's avatar: a URL box when the room has
// an avatar URL, a placeholder image otherwise.
func (p *Puppet) RoomAvatar(ctx context.Context, roomID ref.RoomID) (*filebox.FileBox, error) {
	if err := p.operationGate("RoomAvatar"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return nil, fmt.Errorf("mock: room %s not found", roomID)
	}
	avatarURL := state.avatarURL
	p.mu.Unlock()

	if avatarURL != "" {
		return filebox.FromURL(avatarURL, nil)
	}
	return filebox.FromBytes(roomID.String()+".png", mockAvatarPNG), nil
}

// payload builds the wire payload from network state. Caller holds
// the puppet mutex.
func (s *roomState) payload(roomID ref.RoomID) puppet.RoomPayload {
	memberIDs := make([]ref.ContactID, len(s.memberOrder))
	copy(memberIDs, s.memberOrder)
	return puppet.RoomPayload{
		ID:        roomID,
		Topic:     s.topic,
		MemberIDs: memberIDs,
		OwnerID:   s.ownerID,
		Announce:  s.announce,
		AvatarURL: s.avatarURL,
	}
}
