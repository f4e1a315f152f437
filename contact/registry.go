// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package contact

import (
	"fmt"
	"log/slog"

	"github.com/yuk320/wechaty/lib/identity"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// Registry hands out Contact instances with one-per-ID identity.
// Instances live as long as the registry.
type Registry struct {
	puppet    puppet.Puppet
	logger    *slog.Logger
	instances identity.Map[ref.ContactID, *Contact]
}

// NewRegistry builds a contact registry bound to a puppet. A nil
// logger means slog.Default().
func NewRegistry(p puppet.Puppet, logger *slog.Logger) (*Registry, error) {
	if p == nil {
		return nil, fmt.Errorf("contact: NewRegistry requires a puppet")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{puppet: p, logger: logger}, nil
}

// Load returns the Contact for id, constructing it on first use.
// Every Load of the same ID returns the same pointer.
func (r *Registry) Load(id ref.ContactID) *Contact {
	return r.instances.LoadOrCreate(id, func() *Contact {
		return &Contact{id: id, puppet: r.puppet, logger: r.logger}
	})
}

// Len returns the number of live Contact instances.
func (r *Registry) Len() int {
	return r.instances.Len()
}
