// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/lib/testutil"
	"github.com/yuk320/wechaty/memorycard"
	"github.com/yuk320/wechaty/puppet"
	"github.com/yuk320/wechaty/puppet/mock"
	"github.com/yuk320/wechaty/room"
)

const eventTimeout = 5 * time.Second

func mustContactID(t *testing.T, raw string) ref.ContactID {
	t.Helper()
	id, err := ref.ParseContactID(raw)
	if err != nil {
		t.Fatalf("ParseContactID(%q): %v", raw, err)
	}
	return id
}

func mustRoomID(t *testing.T, raw string) ref.RoomID {
	t.Helper()
	id, err := ref.ParseRoomID(raw)
	if err != nil {
		t.Fatalf("ParseRoomID(%q): %v", raw, err)
	}
	return id
}

// fixture is a mock network with one room holding self, Alice, and
// Bob. Carol is a known contact outside the room.
type fixture struct {
	puppet *mock.Puppet
	bot    *Bot

	selfID  ref.ContactID
	aliceID ref.ContactID
	bobID   ref.ContactID
	carolID ref.ContactID
	roomID  ref.RoomID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		selfID:  mustContactID(t, "wxid_self"),
		aliceID: mustContactID(t, "wxid_alice"),
		bobID:   mustContactID(t, "wxid_bob"),
		carolID: mustContactID(t, "wxid_carol"),
		roomID:  mustRoomID(t, "30001@chatroom"),
	}

	p, err := mock.New(mock.Config{SelfID: f.selfID})
	if err != nil {
		t.Fatalf("mock.New: %v", err)
	}
	p.AddContact(puppet.ContactPayload{ID: f.aliceID, Name: "Alice"})
	p.AddContact(puppet.ContactPayload{ID: f.bobID, Name: "Bob"})
	p.AddContact(puppet.ContactPayload{ID: f.carolID, Name: "Carol"})
	p.AddRoom(puppet.RoomPayload{
		ID:        f.roomID,
		Topic:     "dev",
		MemberIDs: []ref.ContactID{f.selfID, f.aliceID, f.bobID},
	})

	b, err := New(Config{Puppet: p, Name: "test-bot"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.puppet = p
	f.bot = b
	return f
}

// start runs the bot and registers a cleanup stop for tests that do
// not stop explicitly.
func (f *fixture) start(t *testing.T) {
	t.Helper()
	if err := f.bot.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		// Already-stopped is fine: some tests stop explicitly.
		_ = f.bot.Stop(ctx)
	})
}

func TestNewRequiresPuppet(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Fatal("expected error for nil puppet")
	}
}

func TestSelf(t *testing.T) {
	f := newFixture(t)

	self := f.bot.Self()
	if self == nil {
		t.Fatal("Self returned nil")
	}
	if self.ID() != f.selfID {
		t.Errorf("Self ID = %s, want %s", self.ID(), f.selfID)
	}
	// Identity: the facade and the registry hand out the same
	// instance.
	if f.bot.Contacts().Load(f.selfID) != self {
		t.Error("Self and registry Load returned different instances")
	}
}

func TestStartTwiceFails(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	if err := f.bot.Start(context.Background()); err == nil {
		t.Fatal("second Start should fail")
	}
}

func TestStopWithoutStartFails(t *testing.T) {
	f := newFixture(t)
	if err := f.bot.Stop(context.Background()); err == nil {
		t.Fatal("Stop before Start should fail")
	}
}

func TestLoginAndScanEventsOnStart(t *testing.T) {
	f := newFixture(t)

	scans := make(chan Scan, 1)
	logins := make(chan Login, 1)
	f.bot.OnScan(func(s Scan) { scans <- s })
	f.bot.OnLogin(func(l Login) { logins <- l })

	f.start(t)

	scan := testutil.RequireReceive(t, scans, eventTimeout, "waiting for scan event")
	if scan.Status != puppet.ScanStatusConfirmed {
		t.Errorf("scan status = %v, want confirmed", scan.Status)
	}
	login := testutil.RequireReceive(t, logins, eventTimeout, "waiting for login event")
	if login.Contact == nil || login.Contact.ID() != f.selfID {
		t.Errorf("login contact = %v, want self", login.Contact)
	}
	if !login.Contact.IsReady() {
		t.Error("login contact should be ready after dispatch")
	}
}

func TestJoinEventRelabeled(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	r := f.bot.Rooms().Load(f.roomID)
	joins := make(chan room.JoinEvent, 1)
	r.OnJoin(func(e room.JoinEvent) { joins <- e })

	if err := f.puppet.EmitRoomJoin(f.roomID, []ref.ContactID{f.carolID}, f.aliceID); err != nil {
		t.Fatalf("EmitRoomJoin: %v", err)
	}

	join := testutil.RequireReceive(t, joins, eventTimeout, "waiting for join event")
	if len(join.Invitees) != 1 {
		t.Fatalf("invitees = %d, want 1", len(join.Invitees))
	}
	if join.Invitees[0].Name() != "Carol" {
		t.Errorf("invitee name = %q, want Carol (entity should be ready)", join.Invitees[0].Name())
	}
	if join.Inviter == nil || join.Inviter.Name() != "Alice" {
		t.Errorf("inviter = %v, want Alice", join.Inviter)
	}

	// The dispatcher resynced the room before publishing: the cached
	// membership includes Carol.
	has, err := r.Has(context.Background(), f.bot.Contacts().Load(f.carolID))
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !has {
		t.Error("room membership should include Carol after join dispatch")
	}
}

func TestLeaveEventRelabeled(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	r := f.bot.Rooms().Load(f.roomID)
	leaves := make(chan room.LeaveEvent, 1)
	r.OnLeave(func(e room.LeaveEvent) { leaves <- e })

	// Bob leaves on his own: no remover.
	if err := f.puppet.EmitRoomLeave(f.roomID, []ref.ContactID{f.bobID}, ref.ContactID{}); err != nil {
		t.Fatalf("EmitRoomLeave: %v", err)
	}

	leave := testutil.RequireReceive(t, leaves, eventTimeout, "waiting for leave event")
	if len(leave.Leavers) != 1 || leave.Leavers[0].Name() != "Bob" {
		t.Errorf("leavers = %v, want [Bob]", leave.Leavers)
	}
	if leave.Remover != nil {
		t.Errorf("remover = %v, want nil for voluntary leave", leave.Remover)
	}
}

func TestTopicEventRelabeled(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	r := f.bot.Rooms().Load(f.roomID)
	topics := make(chan room.TopicEvent, 1)
	r.OnTopic(func(e room.TopicEvent) { topics <- e })

	if err := f.puppet.EmitRoomTopic(f.roomID, "ops", f.aliceID); err != nil {
		t.Fatalf("EmitRoomTopic: %v", err)
	}

	topic := testutil.RequireReceive(t, topics, eventTimeout, "waiting for topic event")
	if topic.New != "ops" || topic.Old != "dev" {
		t.Errorf("topic change = %q -> %q, want dev -> ops", topic.Old, topic.New)
	}
	if topic.Changer == nil || topic.Changer.Name() != "Alice" {
		t.Errorf("changer = %v, want Alice", topic.Changer)
	}

	// The forced resync means the payload read now shows the new
	// topic without further fetches.
	got, err := r.Topic(context.Background())
	if err != nil {
		t.Fatalf("Topic: %v", err)
	}
	if got != "ops" {
		t.Errorf("Topic = %q, want ops", got)
	}
}

func TestMessageEventResolved(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	messages := make(chan Message, 1)
	f.bot.OnMessage(func(m Message) { messages <- m })

	if _, err := f.puppet.InjectText(f.roomID, f.aliceID, "hello there"); err != nil {
		t.Fatalf("InjectText: %v", err)
	}

	message := testutil.RequireReceive(t, messages, eventTimeout, "waiting for message")
	if message.Payload.Text != "hello there" {
		t.Errorf("text = %q, want %q", message.Payload.Text, "hello there")
	}
	if message.Room == nil || message.Room.ID() != f.roomID {
		t.Errorf("room = %v, want %s", message.Room, f.roomID)
	}
	if !message.Room.IsReady() {
		t.Error("message room should be ready after dispatch")
	}
	if message.From == nil || message.From.Name() != "Alice" {
		t.Errorf("from = %v, want Alice", message.From)
	}
}

func TestDispatchFailureDoesNotStopLoop(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	r := f.bot.Rooms().Load(f.roomID)
	topics := make(chan room.TopicEvent, 1)
	r.OnTopic(func(e room.TopicEvent) { topics <- e })

	// The join dispatch fails at the resync fetch; the event is
	// dropped with a log line and the loop keeps going.
	f.puppet.FailNext("RoomPayload", errors.New("provider down"))
	if err := f.puppet.EmitRoomJoin(f.roomID, []ref.ContactID{f.carolID}, f.aliceID); err != nil {
		t.Fatalf("EmitRoomJoin: %v", err)
	}

	if err := f.puppet.EmitRoomTopic(f.roomID, "still alive", f.bobID); err != nil {
		t.Fatalf("EmitRoomTopic: %v", err)
	}
	topic := testutil.RequireReceive(t, topics, eventTimeout, "loop should survive a failed dispatch")
	if topic.New != "still alive" {
		t.Errorf("topic = %q, want %q", topic.New, "still alive")
	}
}

func TestStopDrainsAndSavesCard(t *testing.T) {
	f := newFixture(t)

	store := memorycard.NewMemoryStore()
	card, err := memorycard.New(memorycard.Config{Store: store})
	if err != nil {
		t.Fatalf("memorycard.New: %v", err)
	}
	b, err := New(Config{Puppet: f.puppet, Card: card})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := b.Card().Set("session", "token-123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()
	if err := b.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// Stop saved the card: a fresh card over the same store sees the
	// value.
	reloaded, err := memorycard.New(memorycard.Config{Store: store})
	if err != nil {
		t.Fatalf("memorycard.New: %v", err)
	}
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	var session string
	found, err := reloaded.Get("session", &session)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || session != "token-123" {
		t.Errorf("session = %q (found=%v), want token-123", session, found)
	}
}
