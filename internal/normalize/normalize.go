// Package normalize derives canonical keys from free-text names so that two
// spellings of the same name compare equal.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// String canonicalizes free text: trims, collapses internal whitespace runs to
// single spaces, lowercases, and maps accented characters to their base Latin
// letters. Idempotent; empty input yields the empty key.
func String(text string) string {
	folded, _, err := transform.String(foldDiacritics, text)
	if err != nil {
		// Mn removal cannot fail on valid UTF-8; fall back to the raw text
		// so normalization stays total.
		folded = text
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Key canonicalizes text and substitutes every byte that is unsafe in a file
// or object-store identifier with an underscore.
func Key(text string) string {
	normalized := String(text)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
