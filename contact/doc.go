// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package contact provides the Contact entity: a thin handle over a
// provider contact, plus the registry that guarantees one live handle
// per contact ID.
//
// A Contact holds no payload of its own. Accessors read the
// provider's payload cache; Ready fetches through the cache when the
// payload is absent and Sync forces a refetch. Identity is
// referential: registry loads of the same ID return the same pointer,
// so handles can be compared with ==.
//
// Contacts are constructed only by a Registry. The zero value is
// inert — operations on it fail with ErrNoPuppet.
package contact
