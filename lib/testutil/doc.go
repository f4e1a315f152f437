// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for SDK packages.
//
// The channel helpers (RequireReceive, RequireSend, RequireClosed)
// encapsulate the select-with-timeout pattern so tests that consume
// provider event streams never hang on a missing event — they fail
// with a message instead.
package testutil
