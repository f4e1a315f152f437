// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/yuk320/wechaty/filebox"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// SentMessage is one entry in the outbound transcript.
type SentMessage struct {
	ID       ref.MessageID
	RoomID   ref.RoomID
	Type     puppet.MessageType
	Text     string
	Mentions []ref.ContactID
	Box      *filebox.FileBox
	Contact  ref.ContactID
	When     time.Time
}

// MessageSendText records a text message on the transcript.
func (p *Puppet) MessageSendText(ctx context.Context, roomID ref.RoomID, text string, mentions []ref.ContactID) (ref.MessageID, error) {
	if err := p.operationGate("MessageSendText"); err != nil {
		return ref.MessageID{}, err
	}
	return p.record(SentMessage{
		RoomID:   roomID,
		Type:     puppet.MessageTypeText,
		Text:     text,
		Mentions: mentions,
	})
}

// MessageSendFile records an attachment message on the transcript.
func (p *Puppet) MessageSendFile(ctx context.Context, roomID ref.RoomID, box *filebox.FileBox) (ref.MessageID, error) {
	if err := p.operationGate("MessageSendFile"); err != nil {
		return ref.MessageID{}, err
	}
	if box == nil {
		return ref.MessageID{}, fmt.Errorf("mock: MessageSendFile with nil box")
	}
	return p.record(SentMessage{
		RoomID: roomID,
		Type:   puppet.MessageTypeAttachment,
		Box:    box,
	})
}

// MessageSendContact records a contact-card message on the
// transcript.
func (p *Puppet) MessageSendContact(ctx context.Context, roomID ref.RoomID, contactID ref.ContactID) (ref.MessageID, error) {
	if err := p.operationGate("MessageSendContact"); err != nil {
		return ref.MessageID{}, err
	}
	return p.record(SentMessage{
		RoomID:  roomID,
		Type:    puppet.MessageTypeContact,
		Contact: contactID,
	})
}

// SentMessages returns a copy of the outbound transcript in send
// order.
func (p *Puppet) SentMessages() []SentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	transcript := make([]SentMessage, len(p.sent))
	copy(transcript, p.sent)
	return transcript
}

// LastSent returns the most recent transcript entry.
func (p *Puppet) LastSent() (SentMessage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return SentMessage{}, false
	}
	return p.sent[len(p.sent)-1], true
}

// record stamps, IDs, and appends a transcript entry. The target room
// must exist.
func (p *Puppet) record(message SentMessage) (ref.MessageID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.rooms[message.RoomID]; !ok {
		return ref.MessageID{}, fmt.Errorf("mock: room %s not found", message.RoomID)
	}
	p.messageSeq++
	messageID, err := ref.ParseMessageID(fmt.Sprintf("mock-msg-%d", p.messageSeq))
	if err != nil {
		return ref.MessageID{}, fmt.Errorf("mock: minting message ID: %w", err)
	}
	message.ID = messageID
	message.When = p.clock.Now()
	p.sent = append(p.sent, message)
	return messageID, nil
}
