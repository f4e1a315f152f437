// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package mock

import (
	"fmt"

	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// AddContact registers (or replaces) a contact on the mock network.
// Panics on a zero ID — that is a broken test fixture, not a runtime
// condition.
func (p *Puppet) AddContact(payload puppet.ContactPayload) {
	if payload.ID.IsZero() {
		panic("mock: AddContact with zero ID")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contacts[payload.ID] = payload
}

// AddRoom registers (or replaces) a room on the mock network. Member
// order follows payload.MemberIDs. Panics on a zero room ID.
func (p *Puppet) AddRoom(payload puppet.RoomPayload) {
	if payload.ID.IsZero() {
		panic("mock: AddRoom with zero ID")
	}
	state := &roomState{
		topic:     payload.Topic,
		ownerID:   payload.OwnerID,
		announce:  payload.Announce,
		avatarURL: payload.AvatarURL,
		members:   make(map[ref.ContactID]puppet.RoomMemberPayload),
	}
	for _, memberID := range payload.MemberIDs {
		if _, ok := state.members[memberID]; ok {
			continue
		}
		state.memberOrder = append(state.memberOrder, memberID)
		state.members[memberID] = puppet.RoomMemberPayload{ID: memberID}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.rooms[payload.ID]; !ok {
		p.roomOrder = append(p.roomOrder, payload.ID)
	}
	p.rooms[payload.ID] = state
}

// SetRoomMember sets room-scoped data (room alias, inviter) for a
// member, adding the member to the room if absent.
func (p *Puppet) SetRoomMember(roomID ref.RoomID, member puppet.RoomMemberPayload) error {
	if member.ID.IsZero() {
		return fmt.Errorf("mock: SetRoomMember with zero contact ID")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	if _, ok := state.members[member.ID]; !ok {
		state.memberOrder = append(state.memberOrder, member.ID)
	}
	state.members[member.ID] = member
	return nil
}

// SetRoomQRCode sets the invite QR code RoomQRCode returns.
func (p *Puppet) SetRoomQRCode(roomID ref.RoomID, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.rooms[roomID]
	if !ok {
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	state.qrCode = code
	return nil
}

// EmitRoomJoin adds invitees to the room's membership and pushes the
// matching join event, as if remote contacts had entered the room.
func (p *Puppet) EmitRoomJoin(roomID ref.RoomID, inviteeIDs []ref.ContactID, inviterID ref.ContactID) error {
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	for _, inviteeID := range inviteeIDs {
		if _, ok := state.members[inviteeID]; ok {
			continue
		}
		state.memberOrder = append(state.memberOrder, inviteeID)
		state.members[inviteeID] = puppet.RoomMemberPayload{ID: inviteeID, InviterID: inviterID}
	}
	p.mu.Unlock()

	p.emit(puppet.RoomJoinEvent{
		RoomID:     roomID,
		InviteeIDs: inviteeIDs,
		InviterID:  inviterID,
		When:       p.clock.Now(),
	})
	return nil
}

// EmitRoomLeave removes leavers from the room's membership and pushes
// the matching leave event.
func (p *Puppet) EmitRoomLeave(roomID ref.RoomID, leaverIDs []ref.ContactID, removerID ref.ContactID) error {
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	for _, leaverID := range leaverIDs {
		state.removeMember(leaverID)
	}
	p.mu.Unlock()

	p.emit(puppet.RoomLeaveEvent{
		RoomID:    roomID,
		LeaverIDs: leaverIDs,
		RemoverID: removerID,
		When:      p.clock.Now(),
	})
	return nil
}

// EmitRoomTopic changes the room's topic and pushes the matching
// topic event carrying the old value.
func (p *Puppet) EmitRoomTopic(roomID ref.RoomID, newTopic string, changerID ref.ContactID) error {
	p.mu.Lock()
	state, ok := p.rooms[roomID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("mock: room %s not found", roomID)
	}
	oldTopic := state.topic
	state.topic = newTopic
	p.mu.Unlock()

	p.emit(puppet.RoomTopicEvent{
		RoomID:    roomID,
		NewTopic:  newTopic,
		OldTopic:  oldTopic,
		ChangerID: changerID,
		When:      p.clock.Now(),
	})
	return nil
}

// InjectText pushes an incoming text message event and returns the
// payload it carried.
func (p *Puppet) InjectText(roomID ref.RoomID, fromID ref.ContactID, text string) (puppet.MessagePayload, error) {
	p.mu.Lock()
	p.messageSeq++
	messageID, err := ref.ParseMessageID(fmt.Sprintf("mock-msg-%d", p.messageSeq))
	p.mu.Unlock()
	if err != nil {
		return puppet.MessagePayload{}, fmt.Errorf("mock: minting message ID: %w", err)
	}

	payload := puppet.MessagePayload{
		ID:        messageID,
		RoomID:    roomID,
		FromID:    fromID,
		Type:      puppet.MessageTypeText,
		Text:      text,
		Timestamp: p.clock.Now(),
	}
	p.emit(puppet.MessageEvent{Payload: payload})
	return payload, nil
}

// removeMember drops a member from both the order slice and the data
// map. Caller holds the puppet mutex.
func (s *roomState) removeMember(contactID ref.ContactID) {
	if _, ok := s.members[contactID]; !ok {
		return
	}
	delete(s.members, contactID)
	for i, id := range s.memberOrder {
		if id == contactID {
			s.memberOrder = append(s.memberOrder[:i], s.memberOrder[i+1:]...)
			break
		}
	}
}
