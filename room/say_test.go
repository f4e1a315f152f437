// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"context"
	"errors"
	"testing"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/filebox"
	"github.com/yuk320/wechaty/puppet"
)

func TestSayText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.room().SayText(ctx, "hello"); err != nil {
		t.Fatalf("SayText: %v", err)
	}
	sent, ok := f.puppet.LastSent()
	if !ok {
		t.Fatal("nothing sent")
	}
	if sent.Type != puppet.MessageTypeText {
		t.Errorf("sent type = %v, want text", sent.Type)
	}
	if sent.Text != "hello" {
		t.Errorf("sent text = %q, want %q", sent.Text, "hello")
	}
	if len(sent.Mentions) != 0 {
		t.Errorf("sent mentions = %v, want none", sent.Mentions)
	}
}

func TestSayTextWithMentions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Alice has the room alias "ally"; Bob falls back to his profile
	// name. Prefixes and body are joined by U+2005 so clients can
	// split the mention run off the text.
	err := f.room().SayText(ctx, "ship it",
		f.contacts.Load(f.aliceID),
		f.contacts.Load(f.bobID),
	)
	if err != nil {
		t.Fatalf("SayText: %v", err)
	}

	sent, ok := f.puppet.LastSent()
	if !ok {
		t.Fatal("nothing sent")
	}
	want := "@ally @Bob ship it"
	if sent.Text != want {
		t.Errorf("sent text = %q, want %q", sent.Text, want)
	}
	if len(sent.Mentions) != 2 || sent.Mentions[0] != f.aliceID || sent.Mentions[1] != f.bobID {
		t.Errorf("sent mentions = %v, want [%s %s]", sent.Mentions, f.aliceID, f.bobID)
	}
}

func TestSayMentionOfNonMemberFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.room().SayText(ctx, "hi", f.contacts.Load(f.daveID))
	if err == nil {
		t.Fatal("mentioning a non-member succeeded, want error")
	}
	if calls := f.puppet.Calls("MessageSendText"); calls != 0 {
		t.Errorf("MessageSendText called %d times after failed mention resolution, want 0", calls)
	}
}

func TestSayFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	box := filebox.FromBytes("notes.txt", []byte("standup notes"))
	if err := f.room().SayFile(ctx, box); err != nil {
		t.Fatalf("SayFile: %v", err)
	}
	sent, ok := f.puppet.LastSent()
	if !ok {
		t.Fatal("nothing sent")
	}
	if sent.Type != puppet.MessageTypeAttachment {
		t.Errorf("sent type = %v, want attachment", sent.Type)
	}
	if sent.Box == nil || sent.Box.Name() != "notes.txt" {
		t.Errorf("sent box = %v, want notes.txt", sent.Box)
	}
}

func TestSayContactCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.room().SayContact(ctx, f.contacts.Load(f.carolID)); err != nil {
		t.Fatalf("SayContact: %v", err)
	}
	sent, ok := f.puppet.LastSent()
	if !ok {
		t.Fatal("nothing sent")
	}
	if sent.Type != puppet.MessageTypeContact {
		t.Errorf("sent type = %v, want contact", sent.Type)
	}
	if sent.Contact != f.carolID {
		t.Errorf("sent contact = %s, want %s", sent.Contact, f.carolID)
	}
}

type bogusContent struct{}

func (bogusContent) isContent() {}

func TestSayRejectsInvalidContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room()

	tests := []struct {
		name    string
		content Content
	}{
		{name: "nil content", content: nil},
		{name: "file without box", content: File{}},
		{name: "card without contact", content: ContactCard{}},
		{name: "nil mention target", content: Text{Body: "x", Mentions: []*contact.Contact{nil}}},
		{name: "unknown variant", content: bogusContent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Say(ctx, tt.content); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Say = %v, want ErrInvalidArgument", err)
			}
		})
	}
	if len(f.puppet.SentMessages()) != 0 {
		t.Errorf("invalid content reached the provider: %v", f.puppet.SentMessages())
	}
}

func TestSayProviderFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	errBoom := errors.New("boom")
	f.puppet.FailNext("MessageSendText", errBoom)
	if err := f.room().SayText(ctx, "hello"); !errors.Is(err, errBoom) {
		t.Errorf("SayText = %v, want wrapped boom", err)
	}
}
