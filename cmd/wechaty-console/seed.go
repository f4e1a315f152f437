// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/yuk320/wechaty/lib/config"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
	"github.com/yuk320/wechaty/puppet/mock"
)

const chatterInterval = 4 * time.Second

// demoNetwork is the seeded mock provider plus the handles the
// chatter goroutine needs.
type demoNetwork struct {
	puppet  *mock.Puppet
	logger  *slog.Logger
	roomIDs []ref.RoomID
	members []ref.ContactID
}

// chatterLines rotate through the demo rooms so the timeline has live
// traffic.
var chatterLines = []string{
	"standup in five",
	"who broke the pipeline this time",
	"shipping the fix now",
	"coffee run, orders?",
	"retro moved to thursday",
}

// seedDemoNetwork builds a mock provider with a small roster and two
// group rooms, so the console's room list has something to switch
// between.
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
		{"wxid_dave", "Dave"},
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

	rooms := []struct {
		id    string
		topic string
	}{
		{"engineering@chatroom", "engineering"},
		{"random@chatroom", "random"},
	}
	var roomIDs []ref.RoomID
	for _, entry := range rooms {
		id, err := ref.ParseRoomID(entry.id)
		if err != nil {
			return nil, err
		}
		p.AddRoom(puppet.RoomPayload{
			ID:        id,
			Topic:     entry.topic,
			MemberIDs: memberIDs,
			OwnerID:   selfID,
		})
		roomIDs = append(roomIDs, id)
	}

	return &demoNetwork{
		puppet:  p,
		logger:  logger,
		roomIDs: roomIDs,
		members: memberIDs[1:],
	}, nil
}

// chatter injects a message from a rotating member into a rotating
// room every few seconds until the context ends.
func (n *demoNetwork) chatter(ctx context.Context) {
	ticker := time.NewTicker(chatterInterval)
	defer ticker.Stop()

	for turn := 0; ; turn++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		roomID := n.roomIDs[turn%len(n.roomIDs)]
		from := n.members[turn%len(n.members)]
		line := chatterLines[turn%len(chatterLines)]
		if _, err := n.puppet.InjectText(roomID, from, line); err != nil {
			n.logger.Warn("chatter injection failed", "error", err)
			return
		}
	}
}
