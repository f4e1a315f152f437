// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Wechaty-bot is a demo bot running against the in-memory mock
// provider. It seeds a small network, echoes every incoming room
// message back with a mention of the sender, and logs room joins,
// leaves, and renames. A background goroutine injects chatter so the
// echo loop has something to do.
//
// Configuration comes from a YAML file named by WECHATY_CONFIG or
// --config; with neither set the binary runs on built-in defaults.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/yuk320/wechaty/bot"
	"github.com/yuk320/wechaty/lib/config"
	"github.com/yuk320/wechaty/lib/process"
	"github.com/yuk320/wechaty/lib/version"
	"github.com/yuk320/wechaty/memorycard"
	"github.com/yuk320/wechaty/puppet"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var configPath string

	flagSet := pflag.NewFlagSet("wechaty-bot", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to wechaty.yaml (default: $WECHATY_CONFIG)")

	// Handle --version before flag parsing, matching the other
	// binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("wechaty-bot")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	network, err := seedDemoNetwork(cfg, logger)
	if err != nil {
		return err
	}

	card, closeCard, err := buildCard(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCard()

	b, err := bot.New(bot.Config{
		Puppet: network.puppet,
		Logger: logger,
		Card:   card,
		Name:   cfg.Name,
	})
	if err != nil {
		return err
	}

	b.OnLogin(func(l bot.Login) {
		logger.Info("login", "contact", l.Contact.ID())
	})
	b.OnMessage(func(m bot.Message) { echo(ctx, b, m) })

	if err := b.Start(ctx); err != nil {
		return err
	}
	logger.Info("demo network ready", "rooms", b.Rooms().Len(), "contacts", b.Contacts().Len())

	// Simulated inbound traffic for the echo loop.
	go network.chatter(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return b.Stop(stopCtx)
}

// echo replies to every room message from someone else, mentioning
// the sender.
func echo(ctx context.Context, b *bot.Bot, m bot.Message) {
	if m.Room == nil || m.From == nil || m.From.IsSelf() {
		return
	}
	if m.Payload.Type != puppet.MessageTypeText {
		return
	}
	if err := m.Room.SayText(ctx, m.Payload.Text, m.From); err != nil {
		slog.Error("echo failed", "room", m.Room.ID(), "error", err)
	}
}

// loadConfig resolves the configuration: explicit flag, then the
// WECHATY_CONFIG environment variable, then built-in defaults so the
// demo runs with zero setup.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	if os.Getenv("WECHATY_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// buildLogger builds the process logger from the logging section.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, options)
	} else {
		handler = slog.NewTextHandler(os.Stderr, options)
	}
	return slog.New(handler), nil
}

// buildCard builds the memory card and its backing store from the
// card section. The returned cleanup closes the store.
func buildCard(cfg *config.Config, logger *slog.Logger) (*memorycard.Card, func(), error) {
	store, err := buildStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	card, err := memorycard.New(memorycard.Config{Store: store, Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			logger.Error("closing card store", "error", err)
		}
	}
	return card, cleanup, nil
}

func buildStore(cfg *config.Config, logger *slog.Logger) (memorycard.Store, error) {
	compression, err := memorycard.ParseCompression(cfg.Card.Compression)
	if err != nil {
		return nil, err
	}
	switch cfg.Card.Backend {
	case "memory":
		return nil, nil
	case "file":
		return memorycard.NewFileStore(cfg.Card.Path, compression)
	case "sqlite":
		return memorycard.NewSQLiteStore(memorycard.SQLiteConfig{
			Path:   cfg.Card.Path,
			Logger: logger,
		})
	case "sealed":
		identity, err := memorycard.ReadIdentityFile(cfg.Card.IdentityFile)
		if err != nil {
			return nil, err
		}
		return memorycard.NewSealedFileStore(memorycard.SealedConfig{
			Path:            cfg.Card.Path,
			Identity:        identity,
			ExtraRecipients: cfg.Card.Recipients,
			Compression:     compression,
		})
	default:
		return nil, fmt.Errorf("unknown card backend %q", cfg.Card.Backend)
	}
}
