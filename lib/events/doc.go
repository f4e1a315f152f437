// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package events provides a small typed publish/subscribe primitive.
//
// Emitter[T] carries one event type per instance. Entities that expose
// several event kinds (a room emits join, leave, and topic events)
// hold one Emitter per kind, which keeps handler signatures concrete —
// no type switches in user code, no interface{} payloads.
//
// Delivery is synchronous: Emit calls every handler in the publishing
// goroutine before returning. Handlers that need to block should hand
// off to their own goroutine or channel.
package events
