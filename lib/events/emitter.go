// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package events

import "sync"

// Emitter is a typed publish/subscribe fan-out. The zero value is
// ready to use.
type Emitter[T any] struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(T)
}

// Subscribe registers handler and returns an unsubscribe function.
// The unsubscribe function is idempotent and safe to call from a
// handler.
func (e *Emitter[T]) Subscribe(handler func(T)) (off func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[int]func(T))
	}
	id := e.nextID
	e.nextID++
	e.handlers[id] = handler

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}
}

// Emit delivers event to every subscribed handler, synchronously, in
// unspecified order. Handlers subscribed during delivery do not
// receive the in-flight event; handlers unsubscribed during delivery
// may still receive it.
func (e *Emitter[T]) Emit(event T) {
	e.mu.Lock()
	snapshot := make([]func(T), 0, len(e.handlers))
	for _, handler := range e.handlers {
		snapshot = append(snapshot, handler)
	}
	e.mu.Unlock()

	for _, handler := range snapshot {
		handler(event)
	}
}

// Len returns the number of subscribed handlers.
func (e *Emitter[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}
