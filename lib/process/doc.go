// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for Wechaty
// binaries. These functions centralize the two legitimate raw I/O
// patterns that exist before or after the structured logger:
//
//   - Fatal error reporting to stderr when the logger may not be
//     initialized (pre-logger).
//   - Process exit after an unrecoverable error in main().
//
// All other output in the binaries goes through the structured logger
// or, for the console, the terminal UI.
package process
