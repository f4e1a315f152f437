// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yuk320/wechaty/contact"
	"github.com/yuk320/wechaty/lib/events"
	"github.com/yuk320/wechaty/memorycard"
	"github.com/yuk320/wechaty/puppet"
	"github.com/yuk320/wechaty/room"
)

// Config configures a Bot.
type Config struct {
	// Puppet is the messaging provider. Required.
	Puppet puppet.Puppet

	// Logger receives dispatch traces and failures. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Card is the bot's persistent memory. nil means a fresh
	// memory-only card.
	Card *memorycard.Card

	// Name identifies the bot in logs. Defaults to "wechaty".
	Name string
}

// Bot is the SDK facade: one puppet, one contact registry, one room
// registry, one dispatcher. Safe for concurrent use.
type Bot struct {
	name     string
	puppet   puppet.Puppet
	logger   *slog.Logger
	card     *memorycard.Card
	contacts *contact.Registry
	rooms    *room.Registry

	messageEvents events.Emitter[Message]
	scanEvents    events.Emitter[Scan]
	loginEvents   events.Emitter[Login]
	logoutEvents  events.Emitter[Logout]

	mu      sync.Mutex
	started bool
	stopped bool
	drained chan struct{}
}

// Message is a received message, resolved to entities. Room is nil
// when the message did not arrive in a room.
type Message struct {
	Room    *room.Room
	From    *contact.Contact
	Payload puppet.MessagePayload
}

// Scan reports login QR code progress.
type Scan struct {
	QRCode string
	Status puppet.ScanStatus
}

// Login reports the account completing login.
type Login struct {
	Contact *contact.Contact
}

// Logout reports the account being logged out.
type Logout struct {
	Contact *contact.Contact
	Reason  string
}

// New builds a Bot and its registries. The puppet is required;
// everything else has defaults.
func New(config Config) (*Bot, error) {
	if config.Puppet == nil {
		return nil, fmt.Errorf("bot: Config.Puppet is required")
	}
	name := config.Name
	if name == "" {
		name = "wechaty"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("bot", name)

	card := config.Card
	if card == nil {
		var err error
		card, err = memorycard.New(memorycard.Config{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("bot: building memory card: %w", err)
		}
	}

	contacts, err := contact.NewRegistry(config.Puppet, logger)
	if err != nil {
		return nil, fmt.Errorf("bot: %w", err)
	}
	rooms, err := room.NewRegistry(config.Puppet, contacts, logger)
	if err != nil {
		return nil, fmt.Errorf("bot: %w", err)
	}

	return &Bot{
		name:     name,
		puppet:   config.Puppet,
		logger:   logger,
		card:     card,
		contacts: contacts,
		rooms:    rooms,
	}, nil
}

// Name returns the bot's configured name.
func (b *Bot) Name() string { return b.name }

// Rooms returns the bot's room registry.
func (b *Bot) Rooms() *room.Registry { return b.rooms }

// Contacts returns the bot's contact registry.
func (b *Bot) Contacts() *contact.Registry { return b.contacts }

// Card returns the bot's memory card.
func (b *Bot) Card() *memorycard.Card { return b.card }

// Puppet returns the provider the bot is bound to.
func (b *Bot) Puppet() puppet.Puppet { return b.puppet }

// Self returns the logged-in account's contact, or nil before login.
func (b *Bot) Self() *contact.Contact {
	selfID := b.puppet.SelfID()
	if selfID.IsZero() {
		return nil
	}
	return b.contacts.Load(selfID)
}

// OnMessage subscribes to received messages. The returned function
// removes the subscription.
func (b *Bot) OnMessage(handler func(Message)) (off func()) {
	return b.messageEvents.Subscribe(handler)
}

// OnScan subscribes to login QR code progress.
func (b *Bot) OnScan(handler func(Scan)) (off func()) {
	return b.scanEvents.Subscribe(handler)
}

// OnLogin subscribes to login completion.
func (b *Bot) OnLogin(handler func(Login)) (off func()) {
	return b.loginEvents.Subscribe(handler)
}

// OnLogout subscribes to logout.
func (b *Bot) OnLogout(handler func(Logout)) (off func()) {
	return b.logoutEvents.Subscribe(handler)
}

// Start loads the memory card, starts the puppet, and launches the
// dispatcher. A Bot starts at most once.
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return fmt.Errorf("bot: already started")
	}
	b.started = true
	b.drained = make(chan struct{})
	b.mu.Unlock()

	if err := b.card.Load(ctx); err != nil {
		return fmt.Errorf("bot: loading memory card: %w", err)
	}
	if err := b.puppet.Start(ctx); err != nil {
		return fmt.Errorf("bot: starting puppet: %w", err)
	}
	b.logger.Info("bot started")

	go b.dispatchLoop(ctx)
	return nil
}

// Stop stops the puppet, waits for the dispatcher to drain the closed
// event channel, and saves the memory card.
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started || b.stopped {
		b.mu.Unlock()
		return fmt.Errorf("bot: not running")
	}
	b.stopped = true
	drained := b.drained
	b.mu.Unlock()

	if err := b.puppet.Stop(ctx); err != nil {
		return fmt.Errorf("bot: stopping puppet: %w", err)
	}

	select {
	case <-drained:
	case <-ctx.Done():
		return fmt.Errorf("bot: waiting for dispatcher: %w", ctx.Err())
	}

	if err := b.card.Save(ctx); err != nil {
		return fmt.Errorf("bot: saving memory card: %w", err)
	}
	b.logger.Info("bot stopped")
	return nil
}
