// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Wechaty-console is an interactive terminal chat client running
// against the in-memory mock provider. A room list pane on the left,
// a message timeline on the right, and a text input at the bottom;
// sending routes through Room.SayText and provider events appear in
// the timeline live. A background goroutine injects chatter so the
// rooms have traffic.
//
// Stderr belongs to the TUI renderer, so log records are discarded
// unless --log-output names a file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/yuk320/wechaty/bot"
	"github.com/yuk320/wechaty/lib/config"
	"github.com/yuk320/wechaty/lib/process"
	"github.com/yuk320/wechaty/lib/version"
	"github.com/yuk320/wechaty/room"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var configPath string
	var logOutput string

	flagSet := pflag.NewFlagSet("wechaty-console", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to wechaty.yaml (default: $WECHATY_CONFIG)")
	flagSet.StringVar(&logOutput, "log-output", "", "write log records to this file (stderr is owned by the TUI)")

	// Handle --version before flag parsing, matching the other
	// binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("wechaty-console")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, closeLog, err := buildLogger(cfg, logOutput)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	network, err := seedDemoNetwork(cfg, logger)
	if err != nil {
		return err
	}

	b, err := bot.New(bot.Config{
		Puppet: network.puppet,
		Logger: logger,
		Name:   cfg.Name,
	})
	if err != nil {
		return err
	}

	// Provider events reach the bubbletea loop through this channel;
	// the model re-arms a listen command after each delivery. A full
	// buffer drops the event rather than blocking the dispatcher.
	eventChannel := make(chan tea.Msg, eventBuffer)
	forward := func(message tea.Msg) {
		select {
		case eventChannel <- message:
		default:
		}
	}

	b.OnMessage(func(m bot.Message) {
		if m.Room == nil || m.From == nil {
			return
		}
		forward(timelineMsg{
			roomID: m.Room.ID(),
			line:   chatLine(m.Payload.Timestamp, m.From.Name(), m.Payload.Text),
		})
	})

	if err := b.Start(ctx); err != nil {
		return err
	}

	rooms, err := b.Rooms().FindAll(ctx, nil)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		return fmt.Errorf("wechaty-console: demo network has no rooms")
	}

	entries := make([]roomEntry, 0, len(rooms))
	for _, r := range rooms {
		topic, err := r.Topic(ctx)
		if err != nil {
			return fmt.Errorf("wechaty-console: reading topic of %s: %w", r.ID(), err)
		}
		entries = append(entries, roomEntry{room: r, title: topic})
		subscribeRoom(r, forward)
	}

	go network.chatter(ctx)

	program := tea.NewProgram(newModel(entries, eventChannel), tea.WithAltScreen())
	_, runErr := program.Run()

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := b.Stop(stopCtx); err != nil {
		logger.Error("stopping bot", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// subscribeRoom forwards the room's typed events into the bubbletea
// loop as timeline system lines.
func subscribeRoom(r *room.Room, forward func(tea.Msg)) {
	r.OnJoin(func(event room.JoinEvent) {
		for _, invitee := range event.Invitees {
			forward(timelineMsg{
				roomID: r.ID(),
				line:   systemLine(event.When, fmt.Sprintf("%s joined", invitee.Name())),
			})
		}
	})
	r.OnLeave(func(event room.LeaveEvent) {
		for _, leaver := range event.Leavers {
			forward(timelineMsg{
				roomID: r.ID(),
				line:   systemLine(event.When, fmt.Sprintf("%s left", leaver.Name())),
			})
		}
	})
	r.OnTopic(func(event room.TopicEvent) {
		forward(timelineMsg{
			roomID: r.ID(),
			line:   systemLine(event.When, fmt.Sprintf("topic changed to %q", event.New)),
		})
		forward(retitleMsg{roomID: r.ID(), title: event.New})
	})
}

func chatLine(when time.Time, name, text string) string {
	return fmt.Sprintf("%s %s: %s", when.Format("15:04:05"), name, text)
}

func systemLine(when time.Time, text string) string {
	return fmt.Sprintf("%s — %s", when.Format("15:04:05"), text)
}

// loadConfig resolves the configuration: explicit flag, then the
// WECHATY_CONFIG environment variable, then built-in defaults.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	if os.Getenv("WECHATY_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// buildLogger sends log records to the --log-output file, or discards
// them: the terminal is the renderer's.
func buildLogger(cfg *config.Config, logOutput string) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	var sink io.Writer = io.Discard
	cleanup := func() {}
	if logOutput != "" {
		file, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("wechaty-console: opening log output: %w", err)
		}
		sink = file
		cleanup = func() { file.Close() }
	}
	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{Level: level})
	return slog.New(handler), cleanup, nil
}
