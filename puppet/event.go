// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package puppet

import (
	"fmt"
	"time"

	"github.com/yuk320/wechaty/lib/ref"
)

// Event is a provider push notification. The variant set is sealed:
// RoomJoinEvent, RoomLeaveEvent, RoomTopicEvent, MessageEvent,
// ScanEvent, LoginEvent, LogoutEvent. Consumers switch on the
// concrete type; the bot dispatcher re-labels the room variants into
// per-room typed events.
type Event interface {
	isEvent()
}

// RoomJoinEvent reports contacts entering a room.
type RoomJoinEvent struct {
	RoomID     ref.RoomID
	InviteeIDs []ref.ContactID
	InviterID  ref.ContactID
	When       time.Time
}

// RoomLeaveEvent reports contacts leaving (or being removed from) a
// room. RemoverID is the zero value when members left on their own.
type RoomLeaveEvent struct {
	RoomID    ref.RoomID
	LeaverIDs []ref.ContactID
	RemoverID ref.ContactID
	When      time.Time
}

// RoomTopicEvent reports a room topic change.
type RoomTopicEvent struct {
	RoomID    ref.RoomID
	NewTopic  string
	OldTopic  string
	ChangerID ref.ContactID
	When      time.Time
}

// MessageEvent reports a received message.
type MessageEvent struct {
	Payload MessagePayload
}

// ScanStatus is the login QR code's lifecycle state.
type ScanStatus int

const (
	ScanStatusUnknown ScanStatus = iota
	ScanStatusCancel
	ScanStatusWaiting
	ScanStatusScanned
	ScanStatusConfirmed
	ScanStatusTimeout
)

// String returns the wire name of the scan status.
func (s ScanStatus) String() string {
	switch s {
	case ScanStatusCancel:
		return "cancel"
	case ScanStatusWaiting:
		return "waiting"
	case ScanStatusScanned:
		return "scanned"
	case ScanStatusConfirmed:
		return "confirmed"
	case ScanStatusTimeout:
		return "timeout"
	case ScanStatusUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("ScanStatus(%d)", int(s))
	}
}

// ScanEvent reports login QR code progress.
type ScanEvent struct {
	QRCode string
	Status ScanStatus
}

// LoginEvent reports the account completing login.
type LoginEvent struct {
	ContactID ref.ContactID
}

// LogoutEvent reports the account being logged out.
type LogoutEvent struct {
	ContactID ref.ContactID
	Reason    string
}

func (RoomJoinEvent) isEvent()  {}
func (RoomLeaveEvent) isEvent() {}
func (RoomTopicEvent) isEvent() {}
func (MessageEvent) isEvent()   {}
func (ScanEvent) isEvent()      {}
func (LoginEvent) isEvent()     {}
func (LogoutEvent) isEvent()    {}
