// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuk320/wechaty/lib/codec"
)

// cardMagic opens every card file. The trailing digit versions the
// format.
var cardMagic = [4]byte{'W', 'M', 'C', '1'}

// cardHeaderSize is magic (4) + compression tag (1) + uncompressed
// payload length (4, big endian).
const cardHeaderSize = 9

// maxCardPayload caps the uncompressed payload length a header may
// declare. Anything larger is treated as corruption rather than an
// allocation request.
const maxCardPayload = 1 << 28

// FileStore persists a card as one file:
//
//	"WMC1" | tag byte | uncompressed length | payload
//
// where the payload is the card's entry map as deterministic CBOR,
// compressed per the tag. Saves are atomic: the file is written to a
// temp name in the same directory and renamed into place, so a crash
// mid-save leaves the previous card intact.
type FileStore struct {
	path        string
	compression Compression
}

// NewFileStore builds a store writing to path with the requested
// compression. The parent directory must exist.
func NewFileStore(path string, compression Compression) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("memorycard: file store needs a path")
	}
	switch compression {
	case CompressionNone, CompressionLZ4, CompressionZstd:
	default:
		return nil, fmt.Errorf("memorycard: unsupported compression %d", compression)
	}
	return &FileStore{path: path, compression: compression}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Close is a no-op; the file is opened and closed per operation.
func (s *FileStore) Close() error {
	return nil
}

// Load reads and decodes the card file. A missing file is a first
// run: Load returns an empty map.
func (s *FileStore) Load(ctx context.Context) (map[string]codec.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]codec.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("memorycard: reading %s: %w", s.path, err)
	}
	entries, err := decodeCardFile(data)
	if err != nil {
		return nil, fmt.Errorf("memorycard: %s: %w", s.path, err)
	}
	return entries, nil
}

// Save encodes the entries and atomically replaces the card file.
func (s *FileStore) Save(ctx context.Context, entries map[string]codec.RawMessage) error {
	data, err := encodeCardFile(entries, s.compression)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// encodeCardFile serializes entries into the card file format.
func encodeCardFile(entries map[string]codec.RawMessage, compression Compression) ([]byte, error) {
	plain, err := codec.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("memorycard: encoding entries: %w", err)
	}
	if len(plain) > maxCardPayload {
		return nil, fmt.Errorf("memorycard: card payload is %d bytes, limit is %d", len(plain), maxCardPayload)
	}
	payload, tag, err := compress(plain, compression)
	if err != nil {
		return nil, err
	}

	var file bytes.Buffer
	file.Grow(cardHeaderSize + len(payload))
	file.Write(cardMagic[:])
	file.WriteByte(byte(tag))
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(plain)))
	file.Write(length[:])
	file.Write(payload)
	return file.Bytes(), nil
}

// decodeCardFile parses the card file format back into entries.
func decodeCardFile(data []byte) (map[string]codec.RawMessage, error) {
	if len(data) < cardHeaderSize {
		return nil, fmt.Errorf("file is %d bytes, shorter than the %d-byte header", len(data), cardHeaderSize)
	}
	if !bytes.Equal(data[:4], cardMagic[:]) {
		return nil, fmt.Errorf("bad magic %q, not a card file", data[:4])
	}
	tag := Compression(data[4])
	uncompressedSize := int(binary.BigEndian.Uint32(data[5:9]))
	if uncompressedSize > maxCardPayload {
		return nil, fmt.Errorf("header declares %d payload bytes, limit is %d", uncompressedSize, maxCardPayload)
	}

	plain, err := decompress(data[cardHeaderSize:], tag, uncompressedSize)
	if err != nil {
		return nil, err
	}
	var entries map[string]codec.RawMessage
	if err := codec.Unmarshal(plain, &entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	if entries == nil {
		entries = make(map[string]codec.RawMessage)
	}
	return entries, nil
}

// writeFileAtomic writes data to a temp file beside path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	directory := filepath.Dir(path)
	temp, err := os.CreateTemp(directory, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("memorycard: creating temp file in %s: %w", directory, err)
	}
	tempPath := temp.Name()
	_, writeErr := temp.Write(data)
	closeErr := temp.Close()
	if writeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("memorycard: writing %s: %w", tempPath, writeErr)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("memorycard: closing %s: %w", tempPath, closeErr)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("memorycard: replacing %s: %w", path, err)
	}
	return nil
}
