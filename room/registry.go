// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/lib/identity"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// Registry is the only way to obtain Room instances. It guarantees
// referential identity: for any room ID there is at most one live
// Room per registry, so event subscriptions and identity comparisons
// work across independently obtained handles.
type Registry struct {
	puppet    puppet.Puppet
	contacts  *contact.Registry
	logger    *slog.Logger
	instances identity.Map[ref.RoomID, *Room]
}

// NewRegistry builds a room registry on the given puppet. Member
// entities are resolved through contacts, which must share the same
// puppet. A nil logger falls back to slog.Default().
func NewRegistry(p puppet.Puppet, contacts *contact.Registry, logger *slog.Logger) (*Registry, error) {
	if p == nil {
		return nil, fmt.Errorf("room: registry needs a puppet")
	}
	if contacts == nil {
		return nil, fmt.Errorf("room: registry needs a contact registry")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		puppet:   p,
		contacts: contacts,
		logger:   logger,
	}, nil
}

// Load returns the one Room for the given ID, constructing it on
// first use. Load itself never talks to the provider; the returned
// room starts unready.
func (r *Registry) Load(roomID ref.RoomID) *Room {
	return r.instances.LoadOrCreate(roomID, func() *Room {
		return &Room{
			id:       roomID,
			puppet:   r.puppet,
			contacts: r.contacts,
			logger:   r.logger,
		}
	})
}

// Len returns the number of live room instances.
func (r *Registry) Len() int {
	return r.instances.Len()
}

// Create asks the provider for a new room with the given members and
// an optional topic ("" leaves it to the provider). At least one
// member is required; the logged-in account is implied and need not
// be listed.
func (r *Registry) Create(ctx context.Context, members []*contact.Contact, topic string) (*Room, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("room: creating a room needs at least one member: %w", ErrInvalidArgument)
	}
	memberIDs := make([]ref.ContactID, 0, len(members))
	for _, member := range members {
		if member == nil {
			return nil, fmt.Errorf("room: nil member in room creation: %w", ErrInvalidArgument)
		}
		memberIDs = append(memberIDs, member.ID())
	}
	roomID, err := r.puppet.RoomCreate(ctx, memberIDs, topic)
	if err != nil {
		r.logger.Error("room creation failed", "topic", topic, "error", err)
		return nil, fmt.Errorf("room: creating room: %w", err)
	}
	return r.Load(roomID), nil
}

// FindAll returns the rooms matching the query, readied. A nil query
// matches every room the account is in; a non-nil query must carry
// exactly one topic matcher (Topic or TopicPattern), anything else
// fails with ErrInvalidArgument.
//
// FindAll is fail-safe: provider search or readying failures are
// logged and produce an empty list, never an error. Use Find when a
// failure should be observable.
func (r *Registry) FindAll(ctx context.Context, query *puppet.RoomQuery) ([]*Room, error) {
	resolved, err := resolveQuery(query)
	if err != nil {
		return nil, err
	}
	roomIDs, err := r.puppet.RoomSearch(ctx, resolved)
	if err != nil {
		r.logger.Error("room search failed, returning no rooms", "error", err)
		return []*Room{}, nil
	}
	rooms := make([]*Room, 0, len(roomIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	for _, roomID := range roomIDs {
		found := r.Load(roomID)
		rooms = append(rooms, found)
		group.Go(func() error {
			return found.Ready(groupCtx)
		})
	}
	if err := group.Wait(); err != nil {
		r.logger.Error("room readying failed during search, returning no rooms", "error", err)
		return []*Room{}, nil
	}
	return rooms, nil
}

// Find returns the first query match that still exists provider
// side, or nil when none does. Candidates come from FindAll; each is
// then re-validated against the provider, and unlike FindAll those
// validation failures propagate. Several candidates or zero
// validating candidates are logged.
func (r *Registry) Find(ctx context.Context, query *puppet.RoomQuery) (*Room, error) {
	rooms, err := r.FindAll(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, nil
	}
	if len(rooms) > 1 {
		r.logger.Info("room query matched several rooms, validating in order", "count", len(rooms))
	}
	for _, candidate := range rooms {
		valid, err := r.puppet.RoomValidate(ctx, candidate.ID())
		if err != nil {
			r.logger.Error("room validation failed", "room_id", candidate.ID(), "error", err)
			return nil, fmt.Errorf("room: validating %s: %w", candidate.ID(), err)
		}
		if valid {
			return candidate, nil
		}
	}
	r.logger.Info("no matched room survived validation", "count", len(rooms))
	return nil, nil
}

// resolveQuery normalizes the caller's filter. nil means match-all;
// a present filter must use exactly one of the two topic matchers.
func resolveQuery(query *puppet.RoomQuery) (puppet.RoomQuery, error) {
	if query == nil {
		return puppet.RoomQuery{}, nil
	}
	if query.IsZero() {
		return puppet.RoomQuery{}, fmt.Errorf("room: query has no topic matcher: %w", ErrInvalidArgument)
	}
	if query.Topic != "" && query.TopicPattern != nil {
		return puppet.RoomQuery{}, fmt.Errorf("room: query sets both Topic and TopicPattern: %w", ErrInvalidArgument)
	}
	return *query, nil
}
