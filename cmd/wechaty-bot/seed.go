// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuk320/wechaty/lib/config"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
	"github.com/yuk320/wechaty/puppet/mock"
)

const chatterInterval = 3 * time.Second

// demoNetwork is the seeded mock provider plus the handles the
// chatter goroutine needs.
type demoNetwork struct {
	puppet  *mock.Puppet
	logger  *slog.Logger
	roomID  ref.RoomID
	members []ref.ContactID
}

// chatterLines cycle through the demo room so the echo handler has
// traffic to answer.
var chatterLines = []string{
	"morning all",
	"anyone seen the deploy finish?",
	"lunch?",
	"the build is green again",
}

// seedDemoNetwork builds a mock provider with a small roster and one
// group room.
func seedDemoNetwork(cfg *config.Config, logger *slog.Logger) (*demoNetwork, error) {
	selfID, err := ref.ParseContactID("wxid_demo_self")
	if err != nil {
		return nil, err
	}
	p, err := mock.New(mock.Config{
		SelfID: selfID,
		Logger: logger,
		Cache: puppet.CacheConfig{
			RoomCapacity:    cfg.Puppet.RoomCache,
			ContactCapacity: cfg.Puppet.ContactCache,
		},
		EventBuffer: cfg.Puppet.EventBuffer,
	})
	if err != nil {
		return nil, err
	}

	roster := []struct {
		id   string
		name string
	}{
		{"wxid_alice", "Alice"},
		{"wxid_bob", "Bob"},
		{"wxid_carol", "Carol"},
	}
	memberIDs := []ref.ContactID{selfID}
	for _, entry := range roster {
		id, err := ref.ParseContactID(entry.id)
		if err != nil {
			return nil, err
		}
		p.AddContact(puppet.ContactPayload{ID: id, Name: entry.name})
		memberIDs = append(memberIDs, id)
	}

	roomID, err := ref.ParseRoomID("demo@chatroom")
	if err != nil {
		return nil, err
	}
	p.AddRoom(puppet.RoomPayload{
		ID:        roomID,
		Topic:     "demo room",
		MemberIDs: memberIDs,
		OwnerID:   selfID,
	})

	return &demoNetwork{
		puppet:  p,
		logger:  logger,
		roomID:  roomID,
		members: memberIDs[1:],
	}, nil
}

// chatter injects a message from a rotating member every few seconds
// until the context ends.
func (n *demoNetwork) chatter(ctx context.Context) {
	ticker := time.NewTicker(chatterInterval)
	defer ticker.Stop()

	for turn := 0; ; turn++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		from := n.members[turn%len(n.members)]
		line := chatterLines[turn%len(chatterLines)]
		if _, err := n.puppet.InjectText(n.roomID, from, fmt.Sprintf("%s (%d)", line, turn)); err != nil {
			n.logger.Warn("chatter injection failed", "error", err)
			return
		}
	}
}
