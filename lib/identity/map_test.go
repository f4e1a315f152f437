// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"sync"
	"testing"
)

type widget struct {
	id string
}

func TestLoadOrCreateReturnsSameInstance(t *testing.T) {
	var m Map[string, *widget]

	first := m.LoadOrCreate("a", func() *widget { return &widget{id: "a"} })
	second := m.LoadOrCreate("a", func() *widget {
		t.Fatal("create called for existing key")
		return nil
	})
	if first != second {
		t.Errorf("LoadOrCreate returned distinct pointers %p and %p for the same key", first, second)
	}

	other := m.LoadOrCreate("b", func() *widget { return &widget{id: "b"} })
	if other == first {
		t.Error("distinct keys returned the same instance")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestLoadOrCreateConcurrent(t *testing.T) {
	var m Map[int, *widget]
	var created sync.Map

	const goroutines = 32
	results := make([]*widget, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = m.LoadOrCreate(7, func() *widget {
				w := &widget{id: "7"}
				if _, loaded := created.LoadOrStore(w, true); loaded {
					t.Error("create produced a duplicate instance")
				}
				return w
			})
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatalf("goroutine %d got a different instance", i)
		}
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	createCount := 0
	created.Range(func(_, _ any) bool {
		createCount++
		return true
	})
	if createCount != 1 {
		t.Errorf("create ran %d times, want 1", createCount)
	}
}

func TestPeek(t *testing.T) {
	var m Map[string, int]
	if _, ok := m.Peek("missing"); ok {
		t.Error("Peek on empty map reported a hit")
	}
	m.LoadOrCreate("x", func() int { return 42 })
	got, ok := m.Peek("x")
	if !ok || got != 42 {
		t.Errorf("Peek(x) = (%d, %v), want (42, true)", got, ok)
	}
}

func TestRange(t *testing.T) {
	var m Map[string, int]
	m.LoadOrCreate("a", func() int { return 1 })
	m.LoadOrCreate("b", func() int { return 2 })
	m.LoadOrCreate("c", func() int { return 3 })

	sum := 0
	m.Range(func(_ string, v int) bool {
		sum += v
		return true
	})
	if sum != 6 {
		t.Errorf("Range visited sum %d, want 6", sum)
	}

	visited := 0
	m.Range(func(_ string, _ int) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("Range after early stop visited %d entries, want 1", visited)
	}
}
