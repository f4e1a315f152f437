// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yuk320/wechaty/filebox"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// ErrNoPuppet reports an operation on a Contact that was not
// constructed by a Registry (or a Registry built with a nil puppet).
var ErrNoPuppet = errors.New("contact: no puppet attached")

// Contact is a handle on one provider contact. Construct via
// Registry.Load. Safe for concurrent use — all state lives in the
// provider's payload cache.
type Contact struct {
	id     ref.ContactID
	puppet puppet.Puppet
	logger *slog.Logger
}

// ID returns the contact's identifier.
func (c *Contact) ID() ref.ContactID { return c.id }

// IsReady reports whether the contact's payload is in the provider's
// cache, readable without network I/O.
func (c *Contact) IsReady() bool {
	if c.puppet == nil {
		return false
	}
	_, ok := c.puppet.CachedContactPayload(c.id)
	return ok
}

// Ready ensures the payload is cached, fetching it when absent. A
// ready contact is a no-op.
func (c *Contact) Ready(ctx context.Context) error {
	if c.puppet == nil {
		return ErrNoPuppet
	}
	if c.IsReady() {
		return nil
	}
	if _, err := c.puppet.ContactPayload(ctx, c.id); err != nil {
		c.logger.Error("contact payload fetch failed", "contact_id", c.id, "error", err)
		return fmt.Errorf("contact: readying %s: %w", c.id, err)
	}
	return nil
}

// Sync drops the cached payload and refetches it, picking up remote
// changes.
func (c *Contact) Sync(ctx context.Context) error {
	if c.puppet == nil {
		return ErrNoPuppet
	}
	if err := c.puppet.DirtyContactPayload(ctx, c.id); err != nil {
		return fmt.Errorf("contact: dirtying %s: %w", c.id, err)
	}
	if _, err := c.puppet.ContactPayload(ctx, c.id); err != nil {
		c.logger.Error("contact payload refetch failed", "contact_id", c.id, "error", err)
		return fmt.Errorf("contact: syncing %s: %w", c.id, err)
	}
	return nil
}

// Name returns the contact's profile name, or "" when the payload is
// not cached.
func (c *Contact) Name() string {
	payload, ok := c.cachedPayload()
	if !ok {
		return ""
	}
	return payload.Name
}

// Alias returns the alias the logged-in account gave this contact, or
// "" when unset or not cached.
func (c *Contact) Alias() string {
	payload, ok := c.cachedPayload()
	if !ok {
		return ""
	}
	return payload.Alias
}

// Avatar returns the contact's avatar image, readying the contact
// first. Contacts without an avatar URL return an error.
func (c *Contact) Avatar(ctx context.Context) (*filebox.FileBox, error) {
	if err := c.Ready(ctx); err != nil {
		return nil, err
	}
	payload, _ := c.cachedPayload()
	if payload.AvatarURL == "" {
		return nil, fmt.Errorf("contact: %s has no avatar", c.id)
	}
	return filebox.FromURL(payload.AvatarURL, nil)
}

// IsSelf reports whether this contact is the logged-in account.
func (c *Contact) IsSelf() bool {
	if c.puppet == nil {
		return false
	}
	return c.id == c.puppet.SelfID()
}

// String renders the contact for logs: the name when cached, the ID
// otherwise.
func (c *Contact) String() string {
	if name := c.Name(); name != "" {
		return "Contact<" + name + ">"
	}
	return "Contact<" + c.id.String() + ">"
}

func (c *Contact) cachedPayload() (puppet.ContactPayload, bool) {
	if c.puppet == nil {
		return puppet.ContactPayload{}, false
	}
	return c.puppet.CachedContactPayload(c.id)
}
