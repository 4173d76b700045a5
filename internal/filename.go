package internal

import (
	"strings"
	"unicode"
)

// SanitizeFilename turns a report name into a filesystem-safe identifier:
// whitespace becomes an underscore and so does anything outside
// [A-Za-z0-9._-]. Deterministic and idempotent.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return '_'
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
