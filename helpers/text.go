package helpers

import "strings"

// PlainText normalizes text extracted from markup: surrounding whitespace
// is trimmed, internal spaces become underscores, and the result is
// lower-cased. Applying it twice yields the same result as applying it
// once.
func PlainText(text string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(text), " ", "_"))
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
