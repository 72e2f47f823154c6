package scan

import (
	"strings"
)

// NormalizeLine canonicalizes a raw line for comparison: leading and
// trailing whitespace is trimmed and every internal run of whitespace
// collapses to a single space. Idempotent; empty and whitespace-only
// lines normalize to the empty string.
func NormalizeLine(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// IsSignificant reports whether a normalized line carries real content,
// i.e. at least one character in [A-Za-z0-9_]. Lines made of pure
// punctuation (closing braces, separators) are not significant.
func IsSignificant(line string) bool {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '_' ||
			('0' <= c && c <= '9') ||
			('a' <= c && c <= 'z') ||
			('A' <= c && c <= 'Z') {
			return true
		}
	}
	return false
}
