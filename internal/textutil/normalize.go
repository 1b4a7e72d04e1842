package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// RemovePunctuation deletes every rune in the Unicode punctuation categories
// (Pc, Pd, Ps, Pe, Pi, Pf, Po). Symbols, digits and whitespace are kept.
func RemovePunctuation(s string) string {
	out, _, err := transform.String(runes.Remove(runes.In(unicode.P)), s)
	if err != nil {
		return removePunctuationFallback(s)
	}
	return out
}

func removePunctuationFallback(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}

// Lower lowercases s using language-neutral Unicode case mapping.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Preview collapses whitespace in s and truncates it to limit runes for
// single-line display.
func Preview(s string, limit int) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if limit <= 0 {
		return collapsed
	}
	runes := []rune(collapsed)
	if len(runes) <= limit {
		return collapsed
	}
	return string(runes[:limit]) + "…"
}
