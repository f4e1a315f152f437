// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"

	"github.com/yuk320/wechaty/lib/codec"
)

// SealedFileStore persists a card as an age-encrypted file. The
// plaintext is exactly the FileStore encoding (magic, compression
// tag, payload), so sealing composes with compression; the file on
// disk is a standard age binary stream.
//
// Cards holding provider credentials (login tokens, session cookies)
// should use this store rather than a plain FileStore.
type SealedFileStore struct {
	path        string
	compression Compression
	identity    *age.X25519Identity
	recipients  []age.Recipient
}

// SealedConfig configures a sealed file store.
type SealedConfig struct {
	// Path is the encrypted card file. The parent directory must
	// exist.
	Path string

	// Identity is the age secret key (AGE-SECRET-KEY-1...) that
	// decrypts the card. Its public key is always among the
	// recipients, so a card saved with this store can be loaded with
	// the same configuration. Required.
	Identity string

	// ExtraRecipients are additional age public keys (age1...) the
	// card is encrypted to, such as an operator escrow key.
	ExtraRecipients []string

	// Compression is applied to the plaintext before encryption.
	// Compressing afterwards would be useless: age output does not
	// compress.
	Compression Compression
}

// NewSealedFileStore builds the store, validating the identity and
// every extra recipient up front.
func NewSealedFileStore(config SealedConfig) (*SealedFileStore, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("memorycard: sealed store needs a path")
	}
	identity, err := age.ParseX25519Identity(config.Identity)
	if err != nil {
		return nil, fmt.Errorf("memorycard: parsing identity: %w", err)
	}
	recipients := []age.Recipient{identity.Recipient()}
	for _, key := range config.ExtraRecipients {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("memorycard: parsing recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}
	return &SealedFileStore{
		path:        config.Path,
		compression: config.Compression,
		identity:    identity,
		recipients:  recipients,
	}, nil
}

// ReadIdentityFile reads an age identity from a key file in the
// format age-keygen writes: comment lines starting with # plus one
// AGE-SECRET-KEY-1... line.
func ReadIdentityFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("memorycard: reading identity file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	return "", fmt.Errorf("memorycard: no identity found in %s", path)
}

// Close is a no-op; the file is opened and closed per operation.
func (s *SealedFileStore) Close() error {
	return nil
}

// Load decrypts and decodes the card file. A missing file is a first
// run: Load returns an empty map.
func (s *SealedFileStore) Load(ctx context.Context) (map[string]codec.RawMessage, error) {
	ciphertext, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]codec.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("memorycard: reading %s: %w", s.path, err)
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), s.identity)
	if err != nil {
		return nil, fmt.Errorf("memorycard: decrypting %s: %w", s.path, err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("memorycard: reading decrypted %s: %w", s.path, err)
	}
	entries, err := decodeCardFile(plaintext)
	if err != nil {
		return nil, fmt.Errorf("memorycard: %s: %w", s.path, err)
	}
	return entries, nil
}

// Save encodes, encrypts, and atomically replaces the card file.
func (s *SealedFileStore) Save(ctx context.Context, entries map[string]codec.RawMessage) error {
	plaintext, err := encodeCardFile(entries, s.compression)
	if err != nil {
		return err
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, s.recipients...)
	if err != nil {
		return fmt.Errorf("memorycard: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return fmt.Errorf("memorycard: encrypting card: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("memorycard: finalizing encryption: %w", err)
	}
	return writeFileAtomic(s.path, ciphertext.Bytes())
}
