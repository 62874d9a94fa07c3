package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize cleans a raw user message for rule matching. It composes the input
// to NFC, folds apostrophe and dash variants, drops every rune that is not a
// letter, a digit, whitespace or one of ". ? ! , '", collapses whitespace runs
// to a single space, trims both ends and composes the result to NFC again.
//
// Normalize is total and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := norm.NFC.String(raw)
	s = unicodeReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !space {
				b.WriteRune(' ')
				space = true
			}
			continue
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case strings.ContainsRune(keptPunctuation, r):
		default:
			continue
		}
		b.WriteRune(r)
		space = false
	}

	// Dropping a rune can leave composable neighbours side by side.
	return norm.NFC.String(strings.TrimSpace(b.String()))
}

// Fold lowercases normalized text for case-insensitive keyword lookup.
func Fold(s string) string {
	return strings.ToLower(s)
}
