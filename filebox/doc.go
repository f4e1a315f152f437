// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package filebox provides the binary-attachment value type passed to
// and from messaging providers.
//
// A FileBox names a payload (display name plus media type) and carries
// exactly one content source: in-memory bytes, a local file path, or a
// remote URL. The source is fixed at construction — FromBytes,
// FromFile, and FromURL are the only ways to build one — so a box can
// never be in a no-source or multi-source state.
//
// Content is materialized lazily by Read and cached; Checksum returns
// the hex BLAKE3-256 digest of the content, computed on first use.
// Boxes marshal to a small JSON metadata form so providers can hand
// them across process boundaries; byte-source boxes embed their
// content base64-encoded, subject to a size guard.
package filebox
