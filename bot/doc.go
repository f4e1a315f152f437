// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package bot wires a puppet provider to the entity layer.
//
// A Bot owns the contact and room registries (one each, explicit, no
// package-level state), the memory card, and the dispatcher goroutine
// that consumes the provider's event stream. Room-scoped provider
// events are re-labeled into the typed events on the Room they
// concern: the dispatcher loads the room, forces a resync so the
// cached payload reflects the change, resolves the affected contact
// IDs into ready entities, and publishes through Room.EmitJoin,
// EmitLeave, or EmitTopic. Everything else — messages, scan progress,
// login and logout — surfaces on the Bot's own emitters.
//
// A dispatch failure is logged and the event dropped; the loop never
// stops on a bad event. The loop exits when the provider closes its
// event channel, which Stop triggers.
package bot
