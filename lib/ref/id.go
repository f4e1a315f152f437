// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// validateID enforces the structural rules shared by every identifier
// kind: non-empty, valid UTF-8, no leading or trailing whitespace, and
// no control characters anywhere. The kind label names the identifier
// type in error messages ("room ID", "contact ID", "message ID").
func validateID(raw, kind string) error {
	if raw == "" {
		return fmt.Errorf("empty %s", kind)
	}
	if !utf8.ValidString(raw) {
		return fmt.Errorf("%s %q is not valid UTF-8", kind, raw)
	}
	first, _ := utf8.DecodeRuneInString(raw)
	last, _ := utf8.DecodeLastRuneInString(raw)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return fmt.Errorf("%s %q has surrounding whitespace", kind, raw)
	}
	for i, r := range raw {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s %q: control character at position %d", kind, raw, i)
		}
	}
	return nil
}
