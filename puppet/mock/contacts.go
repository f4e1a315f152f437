// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package mock

import (
	"context"
	"fmt"

	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// ContactPayload returns the contact payload, serving from the cache
// when present and otherwise reading network state and caching it.
func (p *Puppet) ContactPayload(ctx context.Context, contactID ref.ContactID) (puppet.ContactPayload, error) {
	if err := p.operationGate("ContactPayload"); err != nil {
		return puppet.ContactPayload{}, err
	}
	if payload, ok := p.cache.Contact(contactID); ok {
		return payload, nil
	}

	p.mu.Lock()
	payload, ok := p.contacts[contactID]
	p.mu.Unlock()
	if !ok {
		return puppet.ContactPayload{}, fmt.Errorf("mock: contact %s not found", contactID)
	}

	p.cache.SetContact(payload)
	return payload, nil
}

// DirtyContactPayload drops the cached contact payload.
func (p *Puppet) DirtyContactPayload(ctx context.Context, contactID ref.ContactID) error {
	if err := p.operationGate("DirtyContactPayload"); err != nil {
		return err
	}
	p.cache.DropContact(contactID)
	return nil
}

// CachedContactPayload peeks at the payload cache.
func (p *Puppet) CachedContactPayload(contactID ref.ContactID) (puppet.ContactPayload, bool) {
	return p.cache.Contact(contactID)
}
