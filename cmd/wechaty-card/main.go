// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Wechaty-card inspects and converts memory card files.
//
// Two verbs:
//
//	wechaty-card inspect [flags] <path>
//	    Print every key in a card with its value in CBOR diagnostic
//	    notation.
//
//	wechaty-card convert [flags] <src> <dst>
//	    Rewrite a card between backends or compression settings, for
//	    example file→sqlite or lz4→zstd.
//
// The --backend / --from / --to flags select a store: file, sqlite,
// or sealed. Sealed cards need --identity-file; sealing a destination
// additionally accepts repeated --recipient keys.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/yuk320/wechaty/lib/codec"
	"github.com/yuk320/wechaty/lib/process"
	"github.com/yuk320/wechaty/lib/version"
	"github.com/yuk320/wechaty/memorycard"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("wechaty-card")
		return nil
	}
	if len(os.Args) < 2 {
		usage()
		return fmt.Errorf("missing verb")
	}

	switch os.Args[1] {
	case "inspect":
		return runInspect(os.Args[2:])
	case "convert":
		return runConvert(os.Args[2:])
	case "help", "--help", "-h":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown verb %q", os.Args[1])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Memory card inspection and conversion.

Usage:
  wechaty-card inspect [--backend file|sqlite|sealed] [--identity-file key] <path>
  wechaty-card convert [--from BACKEND] [--to BACKEND] [--compression none|lz4|zstd]
                       [--identity-file key] [--recipient age1...] <src> <dst>
`)
}

func runInspect(args []string) error {
	var backend, identityFile string

	flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	flagSet.StringVar(&backend, "backend", "file", "card backend: file, sqlite, or sealed")
	flagSet.StringVar(&identityFile, "identity-file", "", "age identity for sealed cards")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("inspect needs exactly one path argument")
	}

	store, err := openStore(backend, flagSet.Arg(0), memorycard.CompressionLZ4, identityFile, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Load(context.Background())
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("%d entries\n", len(keys))
	for _, key := range keys {
		diagnostic, err := codec.Diagnose(entries[key])
		if err != nil {
			diagnostic = fmt.Sprintf("<%d bytes, undecodable: %v>", len(entries[key]), err)
		}
		fmt.Printf("%s = %s\n", key, diagnostic)
	}
	return nil
}

func runConvert(args []string) error {
	var from, to, compressionName, identityFile string
	var recipients []string

	flagSet := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	flagSet.StringVar(&from, "from", "file", "source backend: file, sqlite, or sealed")
	flagSet.StringVar(&to, "to", "file", "destination backend: file, sqlite, or sealed")
	flagSet.StringVar(&compressionName, "compression", "lz4", "destination compression: none, lz4, or zstd")
	flagSet.StringVar(&identityFile, "identity-file", "", "age identity for sealed cards")
	flagSet.StringArrayVar(&recipients, "recipient", nil, "extra age recipient for a sealed destination (repeatable)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("convert needs source and destination path arguments")
	}

	compression, err := memorycard.ParseCompression(compressionName)
	if err != nil {
		return err
	}

	source, err := openStore(from, flagSet.Arg(0), compression, identityFile, nil)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := openStore(to, flagSet.Arg(1), compression, identityFile, recipients)
	if err != nil {
		return err
	}
	defer destination.Close()

	ctx := context.Background()
	entries, err := source.Load(ctx)
	if err != nil {
		return err
	}
	if err := destination.Save(ctx, entries); err != nil {
		return err
	}
	fmt.Printf("converted %d entries: %s (%s) -> %s (%s)\n", len(entries), flagSet.Arg(0), from, flagSet.Arg(1), to)
	return nil
}

// openStore builds a store for one of the persistent backends. The
// caller must Close the store when done.
func openStore(backend, path string, compression memorycard.Compression, identityFile string, recipients []string) (memorycard.Store, error) {
	switch backend {
	case "file":
		return memorycard.NewFileStore(path, compression)
	case "sqlite":
		return memorycard.NewSQLiteStore(memorycard.SQLiteConfig{Path: path})
	case "sealed":
		if identityFile == "" {
			return nil, fmt.Errorf("sealed backend needs --identity-file")
		}
		identity, err := memorycard.ReadIdentityFile(identityFile)
		if err != nil {
			return nil, err
		}
		return memorycard.NewSealedFileStore(memorycard.SealedConfig{
			Path:            path,
			Identity:        identity,
			ExtraRecipients: recipients,
			Compression:     compression,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
