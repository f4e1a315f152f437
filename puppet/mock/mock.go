// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yuk320/wechaty/lib/clock"
	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/puppet"
)

// defaultEventBuffer is the event channel capacity when Config leaves
// it zero. Large enough that a test seeding a handful of events before
// attaching a consumer never drops.
const defaultEventBuffer = 64

// Config configures a mock puppet.
type Config struct {
	// SelfID is the logged-in account. Required.
	SelfID ref.ContactID

	// Logger receives drop warnings and operation traces. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Clock stamps events and sent messages. Defaults to clock.Real().
	Clock clock.Clock

	// Cache sizes the payload cache. Zero fields take the puppet
	// defaults.
	Cache puppet.CacheConfig

	// EventBuffer is the event channel capacity. Defaults to
	// defaultEventBuffer.
	EventBuffer int
}

// Puppet is an in-memory provider. Safe for concurrent use.
type Puppet struct {
	logger *slog.Logger
	clock  clock.Clock
	cache  *puppet.Cache

	mu         sync.Mutex
	started    bool
	stopped    bool
	selfID     ref.ContactID
	contacts   map[ref.ContactID]puppet.ContactPayload
	rooms      map[ref.RoomID]*roomState
	roomOrder  []ref.RoomID
	sent       []SentMessage
	callCounts map[string]int
	failNext   map[string]error
	messageSeq int

	events chan puppet.Event
}

// roomState is the network-side truth for one room. memberOrder
// preserves insertion order — payload member lists and default topics
// depend on it.
type roomState struct {
	topic       string
	ownerID     ref.ContactID
	announce    string
	avatarURL   string
	qrCode      string
	memberOrder []ref.ContactID
	members     map[ref.ContactID]puppet.RoomMemberPayload
}

// New builds a mock puppet. The returned puppet serves data
// operations immediately; call Start to bring up the event stream.
func New(config Config) (*Puppet, error) {
	if config.SelfID.IsZero() {
		return nil, fmt.Errorf("mock: Config.SelfID is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	cache, err := puppet.NewCache(config.Cache)
	if err != nil {
		return nil, err
	}
	buffer := config.EventBuffer
	if buffer == 0 {
		buffer = defaultEventBuffer
	}

	p := &Puppet{
		logger:     logger,
		clock:      clk,
		cache:      cache,
		selfID:     config.SelfID,
		contacts:   make(map[ref.ContactID]puppet.ContactPayload),
		rooms:      make(map[ref.RoomID]*roomState),
		callCounts: make(map[string]int),
		failNext:   make(map[string]error),
		events:     make(chan puppet.Event, buffer),
	}
	// The account always knows itself; a display name can be layered
	// on with AddContact.
	p.contacts[config.SelfID] = puppet.ContactPayload{ID: config.SelfID, Name: config.SelfID.String()}
	return p, nil
}

// Start brings up the event stream. It emits a confirmed scan event
// followed by a login event, imitating a QR-code login flow.
func (p *Puppet) Start(ctx context.Context) error {
	if err := p.operationGate("Start"); err != nil {
		return err
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("mock: puppet already stopped")
	}
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.mu.Unlock()

	p.emit(puppet.ScanEvent{QRCode: "mock://login/" + p.selfID.String(), Status: puppet.ScanStatusConfirmed})
	p.emit(puppet.LoginEvent{ContactID: p.selfID})
	return nil
}

// Stop closes the event stream. Idempotent.
func (p *Puppet) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return nil
	}
	p.stopped = true
	close(p.events)
	return nil
}

// SelfID returns the logged-in account's contact ID.
func (p *Puppet) SelfID() ref.ContactID {
	return p.selfID
}

// Events returns the provider event stream. Closed after Stop.
func (p *Puppet) Events() <-chan puppet.Event {
	return p.events
}

// FailNext arranges for the next call to the named operation
// ("RoomCreate", "RoomSearch", ...) to fail with err before touching
// any state.
func (p *Puppet) FailNext(operation string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext[operation] = err
}

// Calls returns how many times the named operation has been invoked,
// including invocations that failed.
func (p *Puppet) Calls(operation string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCounts[operation]
}

// operationGate counts the invocation and returns a scripted failure
// if one is queued for the operation.
func (p *Puppet) operationGate(operation string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCounts[operation]++
	if err, ok := p.failNext[operation]; ok {
		delete(p.failNext, operation)
		return err
	}
	return nil
}

// emit delivers an event without blocking. Events sent after Stop, or
// when the buffer is full, are dropped with a warning.
func (p *Puppet) emit(event puppet.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("mock puppet dropping event, buffer full", "event", fmt.Sprintf("%T", event))
	}
}
