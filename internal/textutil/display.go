package textutil

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

// Truncate shortens s to at most limit runes, replacing the tail with an
// ellipsis. Non-positive limits return s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit == 1 {
		return ellipsis
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit-1]), " ") + ellipsis
}

// Fold collapses runs of whitespace, including newlines, into single spaces.
func Fold(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
