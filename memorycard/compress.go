// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm applied to a card file's
// payload. The value is stored as one byte in the file header —
// changing an existing value breaks files written with it.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed. Also the
	// fallback when the payload turns out incompressible.
	CompressionNone Compression = 0

	// CompressionLZ4 is block-mode LZ4: fast, modest ratio. A good
	// default for cards saved frequently.
	CompressionLZ4 Compression = 1

	// CompressionZstd is zstd at the default level: better ratio for
	// the text-heavy session blobs cards usually hold.
	CompressionZstd Compression = 2
)

// String returns the name used in configuration files.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a configuration-file compression name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("memorycard: unknown compression %q", name)
	}
}

// zstdEncoder and zstdDecoder are shared across calls; both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("memorycard: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("memorycard: zstd decoder initialization failed: " + err.Error())
	}
}

// errIncompressible reports that compressing did not shrink the data.
var errIncompressible = errors.New("memorycard: data is incompressible")

// compress applies the requested algorithm, falling back to
// CompressionNone when the output would not be smaller. It returns
// the payload and the tag actually used.
func compress(data []byte, requested Compression) ([]byte, Compression, error) {
	var compressed []byte
	var err error
	switch requested {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZstd:
		compressed, err = compressZstd(data)
	default:
		return nil, 0, fmt.Errorf("memorycard: unsupported compression %d", requested)
	}
	if errors.Is(err, errIncompressible) {
		return data, CompressionNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return compressed, requested, nil
}

// decompress reverses compress. uncompressedSize comes from the file
// header and must match the original length exactly.
func decompress(payload []byte, tag Compression, uncompressedSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(payload) != uncompressedSize {
			return nil, fmt.Errorf("memorycard: uncompressed payload is %d bytes, header says %d", len(payload), uncompressedSize)
		}
		return payload, nil
	case CompressionLZ4:
		return decompressLZ4(payload, uncompressedSize)
	case CompressionZstd:
		return decompressZstd(payload, uncompressedSize)
	default:
		return nil, fmt.Errorf("memorycard: unsupported compression tag %d", tag)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(data))
	destination := make([]byte, bound)
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("memorycard: lz4 compress: %w", err)
	}
	// CompressBlock reports incompressible data as zero bytes
	// written.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(payload []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(payload, destination)
	if err != nil {
		return nil, fmt.Errorf("memorycard: lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("memorycard: lz4 decompress produced %d bytes, header says %d", read, uncompressedSize)
	}
	return destination, nil
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(payload []byte, uncompressedSize int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(payload, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("memorycard: zstd decompress: %w", err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("memorycard: zstd decompress produced %d bytes, header says %d", len(result), uncompressedSize)
	}
	return result, nil
}
