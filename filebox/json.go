// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package filebox

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxInlineContent caps the content size a byte-source box will embed
// in its JSON form. Larger payloads should travel as files or URLs.
const maxInlineContent = 1 << 20

// metadata is the JSON wire form of a FileBox.
type metadata struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Source    string `json:"source"`
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	// Content is base64-encoded by encoding/json ([]byte convention).
	Content []byte `json:"content,omitempty"`
}

// MarshalJSON implements json.Marshaler. Byte-source boxes embed
// their content (up to maxInlineContent); file and URL sources
// marshal by reference.
func (b *FileBox) MarshalJSON() ([]byte, error) {
	meta := metadata{
		Name:      b.name,
		MediaType: b.mediaType,
		Source:    b.source.String(),
	}
	switch b.source {
	case SourceBytes:
		if len(b.data) > maxInlineContent {
			return nil, fmt.Errorf("filebox: %s: %d bytes exceeds inline limit %d", b.name, len(b.data), maxInlineContent)
		}
		meta.Content = b.data
	case SourceFile:
		meta.Path = b.path
	case SourceURL:
		meta.URL = b.remote
	}
	return json.Marshal(meta)
}

// UnmarshalJSON implements json.Unmarshaler, rebuilding a box from
// its metadata form. URL boxes reconstructed this way fetch with
// http.DefaultClient.
func (b *FileBox) UnmarshalJSON(data []byte) error {
	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("filebox: decoding metadata: %w", err)
	}
	if meta.Name == "" {
		return fmt.Errorf("filebox: metadata has empty name")
	}

	var source SourceKind
	switch meta.Source {
	case "bytes":
		source = SourceBytes
	case "file":
		if meta.Path == "" {
			return fmt.Errorf("filebox: file metadata has empty path")
		}
		source = SourceFile
	case "url":
		if meta.URL == "" {
			return fmt.Errorf("filebox: url metadata has empty url")
		}
		source = SourceURL
	default:
		return fmt.Errorf("filebox: unknown source %q", meta.Source)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.name = meta.Name
	b.mediaType = meta.MediaType
	if b.mediaType == "" {
		b.mediaType = mediaTypeFor(meta.Name)
	}
	b.source = source
	b.data = meta.Content
	b.path = meta.Path
	b.remote = meta.URL
	if source == SourceURL {
		b.client = http.DefaultClient
	}
	b.cached = nil
	b.checksum = ""
	return nil
}
