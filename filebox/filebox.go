// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package filebox

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zeebo/blake3"
)

// SourceKind identifies where a FileBox's content comes from.
type SourceKind int

const (
	// SourceBytes is content held in memory.
	SourceBytes SourceKind = iota
	// SourceFile is content read from a local file path.
	SourceFile
	// SourceURL is content fetched from a remote URL.
	SourceURL
)

// String returns the wire name of the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceBytes:
		return "bytes"
	case SourceFile:
		return "file"
	case SourceURL:
		return "url"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// FileBox is a named binary attachment with a single content source.
// Construct one with FromBytes, FromFile, or FromURL. Safe for
// concurrent use.
type FileBox struct {
	name      string
	mediaType string
	source    SourceKind

	data   []byte // SourceBytes
	path   string // SourceFile
	remote string // SourceURL
	client *http.Client

	mu       sync.Mutex
	cached   []byte
	checksum string
}

// FromBytes builds a FileBox holding data in memory under the given
// display name. The media type is inferred from the name's extension,
// falling back to application/octet-stream.
func FromBytes(name string, data []byte) *FileBox {
	return &FileBox{
		name:      name,
		mediaType: mediaTypeFor(name),
		source:    SourceBytes,
		data:      data,
	}
}

// FromFile builds a FileBox reading from a local file. The display
// name is the file's base name. The file must exist and be a regular
// file at construction time; its content is read lazily.
func FromFile(filePath string) (*FileBox, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("filebox: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("filebox: %s is a directory", filePath)
	}
	name := filepath.Base(filePath)
	return &FileBox{
		name:      name,
		mediaType: mediaTypeFor(name),
		source:    SourceFile,
		path:      filePath,
	}, nil
}

// FromURL builds a FileBox fetching from a remote http(s) URL. The
// display name is the final path segment of the URL, or the host when
// the path is empty. A nil client means http.DefaultClient.
func FromURL(rawURL string, client *http.Client) (*FileBox, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("filebox: parsing URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("filebox: URL scheme %q not supported (want http or https)", parsed.Scheme)
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		name = parsed.Host
	}
	return &FileBox{
		name:      name,
		mediaType: mediaTypeFor(name),
		source:    SourceURL,
		remote:    rawURL,
		client:    client,
	}, nil
}

// Name returns the display name of the attachment.
func (b *FileBox) Name() string { return b.name }

// MediaType returns the declared media type (MIME type) of the
// content.
func (b *FileBox) MediaType() string { return b.mediaType }

// Source returns where the content comes from.
func (b *FileBox) Source() SourceKind { return b.source }

// URL returns the remote URL for SourceURL boxes, "" otherwise.
func (b *FileBox) URL() string { return b.remote }

// Read materializes and returns the content. File and URL sources are
// read on first call and cached; the box represents an immutable
// snapshot from then on. The returned slice is shared — callers must
// not modify it.
func (b *FileBox) Read(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readLocked(ctx)
}

// Checksum returns the hex-encoded BLAKE3-256 digest of the content,
// materializing it if necessary. The digest is computed once and
// cached.
func (b *FileBox) Checksum(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checksum != "" {
		return b.checksum, nil
	}
	content, err := b.readLocked(ctx)
	if err != nil {
		return "", err
	}
	digest := blake3.Sum256(content)
	b.checksum = hex.EncodeToString(digest[:])
	return b.checksum, nil
}

// readLocked materializes content with b.mu held.
func (b *FileBox) readLocked(ctx context.Context) ([]byte, error) {
	switch b.source {
	case SourceBytes:
		return b.data, nil
	case SourceFile:
		if b.cached == nil {
			content, err := os.ReadFile(b.path)
			if err != nil {
				return nil, fmt.Errorf("filebox: reading %s: %w", b.path, err)
			}
			b.cached = content
		}
		return b.cached, nil
	case SourceURL:
		if b.cached == nil {
			content, err := b.fetch(ctx)
			if err != nil {
				return nil, err
			}
			b.cached = content
		}
		return b.cached, nil
	default:
		return nil, fmt.Errorf("filebox: unknown source kind %d", b.source)
	}
}

// fetch downloads the remote content.
func (b *FileBox) fetch(ctx context.Context) ([]byte, error) {
	client := b.client
	if client == nil {
		client = http.DefaultClient
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, b.remote, nil)
	if err != nil {
		return nil, fmt.Errorf("filebox: building request for %s: %w", b.remote, err)
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("filebox: fetching %s: %w", b.remote, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filebox: fetching %s: HTTP %d", b.remote, response.StatusCode)
	}
	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("filebox: reading response from %s: %w", b.remote, err)
	}
	// Prefer the server's declared type over the extension guess when
	// the server sent one.
	if contentType := response.Header.Get("Content-Type"); contentType != "" && b.mediaType == fallbackMediaType {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			b.mediaType = parsed
		}
	}
	return content, nil
}

const fallbackMediaType = "application/octet-stream"

// mediaTypeFor infers a media type from a file name's extension.
func mediaTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return fallbackMediaType
	}
	if mediaType := mime.TypeByExtension(ext); mediaType != "" {
		// Strip parameters like "; charset=utf-8" — the box declares a
		// bare type.
		if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
			return parsed
		}
		return mediaType
	}
	return fallbackMediaType
}
