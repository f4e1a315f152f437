// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "card.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLiteStore(t)
	entries := testEntries(t)

	if err := store.Save(ctx, entries); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, entries) {
		t.Errorf("Load = %v, want %v", loaded, entries)
	}
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLiteStore(t)

	if err := store.Save(ctx, testEntries(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	replacement := testEntries(t)
	delete(replacement, "notes")
	if err := store.Save(ctx, replacement); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := loaded["notes"]; ok {
		t.Error("Save did not drop the removed key")
	}
	if !reflect.DeepEqual(loaded, replacement) {
		t.Errorf("Load = %v, want %v", loaded, replacement)
	}
}

func TestSQLiteStoreFirstRun(t *testing.T) {
	store := openTestSQLiteStore(t)
	entries, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Load of fresh database = %v, want empty", entries)
	}
}

func TestSQLiteStoreCardSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "card.db")
	entries := testEntries(t)

	first, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := first.Save(ctx, entries); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	loaded, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, entries) {
		t.Errorf("Load after reopen = %v, want %v", loaded, entries)
	}
}
