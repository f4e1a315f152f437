// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"context"
	"reflect"
	"testing"
)

type sessionBlob struct {
	Token   string `cbor:"token"`
	Renewal int64  `cbor:"renewal"`
}

func newCard(t *testing.T, store Store) *Card {
	t.Helper()
	card, err := New(Config{Store: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return card
}

func TestSetGetRoundTrip(t *testing.T) {
	card := newCard(t, nil)

	original := sessionBlob{Token: "tok-1", Renewal: 1772400000}
	if err := card.Set("session", original); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var loaded sessionBlob
	found, err := card.Get("session", &loaded)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("Get did not find the key")
	}
	if loaded != original {
		t.Errorf("Get = %+v, want %+v", loaded, original)
	}

	found, err = card.Get("absent", &loaded)
	if err != nil {
		t.Fatalf("Get(absent): %v", err)
	}
	if found {
		t.Error("Get found an absent key")
	}
}

func TestGetTypeMismatch(t *testing.T) {
	card := newCard(t, nil)
	if err := card.Set("count", 42); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var wrong []string
	found, err := card.Get("count", &wrong)
	if !found {
		t.Error("Get did not report the key as present")
	}
	if err == nil {
		t.Error("decoding an int into a slice succeeded, want error")
	}
}

func TestDeleteHasKeys(t *testing.T) {
	card := newCard(t, nil)
	for _, key := range []string{"b", "a", "c"} {
		if err := card.Set(key, key); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}

	if !card.Has("a") {
		t.Error("Has(a) = false")
	}
	card.Delete("b")
	card.Delete("b") // deleting twice is a no-op
	if card.Has("b") {
		t.Error("Has(b) = true after Delete")
	}
	if got := card.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Keys = %v, want [a c]", got)
	}
	if card.Len() != 2 {
		t.Errorf("Len = %d, want 2", card.Len())
	}
}

func TestMultiplexScoping(t *testing.T) {
	card := newCard(t, nil)
	greeter := card.Multiplex("greeter")
	counter := card.Multiplex("counter")

	if err := card.Set("shared", "root"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := greeter.Set("shared", "greeter"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := counter.Set("shared", "counter"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	read := func(c *Card, want string) {
		t.Helper()
		var got string
		found, err := c.Get("shared", &got)
		if err != nil || !found {
			t.Fatalf("Get = (%v, %v)", found, err)
		}
		if got != want {
			t.Errorf("Get = %q, want %q", got, want)
		}
	}
	read(card, "root")
	read(greeter, "greeter")
	read(counter, "counter")

	if got := greeter.Keys(); !reflect.DeepEqual(got, []string{"shared"}) {
		t.Errorf("view Keys = %v, want [shared]", got)
	}
	if greeter.Len() != 1 {
		t.Errorf("view Len = %d, want 1", greeter.Len())
	}
	// The root sees everything, views included.
	if card.Len() != 3 {
		t.Errorf("root Len = %d, want 3", card.Len())
	}

	greeter.Clear()
	if greeter.Len() != 0 {
		t.Errorf("view Len after Clear = %d, want 0", greeter.Len())
	}
	read(card, "root")
	read(counter, "counter")
}

func TestMultiplexNesting(t *testing.T) {
	card := newCard(t, nil)
	inner := card.Multiplex("plugin").Multiplex("state")

	if err := inner.Set("k", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got int
	found, err := inner.Get("k", &got)
	if err != nil || !found || got != 1 {
		t.Fatalf("Get = (%d, %v, %v), want (1, true, nil)", got, found, err)
	}
	if card.Len() != 1 {
		t.Errorf("root Len = %d, want 1", card.Len())
	}
}

func TestMultiplexRejectsSeparator(t *testing.T) {
	card := newCard(t, nil)
	defer func() {
		if recover() == nil {
			t.Error("Multiplex with separator in name did not panic")
		}
	}()
	card.Multiplex("bad\x1fname")
}

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := newCard(t, store)
	if err := first.Multiplex("greeter").Set("count", 7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := first.Set("owner", "self"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := first.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := newCard(t, store)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	var count int
	found, err := second.Multiplex("greeter").Get("count", &count)
	if err != nil || !found || count != 7 {
		t.Fatalf("Get after reload = (%d, %v, %v), want (7, true, nil)", count, found, err)
	}
}

func TestLoadReplacesEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	card := newCard(t, store)
	if err := card.Set("stale", true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// The store is empty, so Load drops the unsaved entry.
	if err := card.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if card.Has("stale") {
		t.Error("Load kept an entry the store does not have")
	}
}

func TestViewCannotLoadOrSave(t *testing.T) {
	ctx := context.Background()
	view := newCard(t, NewMemoryStore()).Multiplex("plugin")

	if err := view.Load(ctx); err == nil {
		t.Error("Load on a view succeeded, want error")
	}
	if err := view.Save(ctx); err == nil {
		t.Error("Save on a view succeeded, want error")
	}
}

func TestStorelessCardIsEphemeral(t *testing.T) {
	ctx := context.Background()
	card := newCard(t, nil)

	if err := card.Set("k", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := card.Save(ctx); err != nil {
		t.Errorf("Save without store = %v, want nil", err)
	}
	if err := card.Load(ctx); err != nil {
		t.Errorf("Load without store = %v, want nil", err)
	}
	// Load without a store must not wipe the in-memory entries.
	if !card.Has("k") {
		t.Error("storeless Load dropped entries")
	}
}
