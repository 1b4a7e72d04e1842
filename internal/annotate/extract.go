package annotate

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"orchive/internal/textutil"
)

// RE2's \b, \w and \d are ASCII-only; word characters and digits are
// spelled out as Unicode classes. The non-capturing prefix replaces a leading
// \b and may consume the separator before a code, so trailing space is left
// unmatched.
const (
	wordClass  = `[\p{L}\p{N}_]`
	spaceClass = `[\s\p{Z}]`
)

var (
	// A word character, optional space, digits, optional plural s. Group 1
	// is the letter, group 2 the digits.
	matrilinePattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])(` + wordClass + `)` + spaceClass + `?(\p{Nd}+)(s)?`)
	transientPattern = regexp.MustCompile(`T` + spaceClass + `?` + wordClass + `+`)
)

const transientKeyword = "transient"

// Normalize trims s, removes punctuation and lowercases the result.
func Normalize(s string) string {
	return textutil.Lower(textutil.RemovePunctuation(strings.TrimSpace(s)))
}

// ExtractMatrilines returns the sorted, deduplicated matriline codes found in
// the normalized form of text. "A10", "a 10" and "a10s" all yield a10.
func ExtractMatrilines(text string) []string {
	matches := matrilinePattern.FindAllStringSubmatch(Normalize(text), -1)
	seen := make(map[string]struct{}, len(matches))
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		code := strings.ToLower(m[1] + m[2])
		if !startsWithLetter(code) {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FormatMatrilines joins codes with ", "; no codes yields "".
func FormatMatrilines(codes []string) string {
	return strings.Join(codes, ", ")
}

// ExtractTransientCodes returns the sorted, deduplicated transient codes in
// text. Matching is case-sensitive on the leading T, internal spaces are
// dropped, and candidates without a digit are discarded.
func ExtractTransientCodes(text string) []string {
	matches := transientPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		code := strings.Join(strings.FieldsFunc(m, isSpace), "")
		if !strings.ContainsFunc(code, unicode.IsDigit) {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TransientFlag reports whether the normalized form of text mentions
// "transient".
func TransientFlag(text string) bool {
	return strings.Contains(Normalize(text), transientKeyword)
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r)
}
