// Package textutil provides Unicode-aware text normalization helpers.
//
// The primary use cases are:
//   - Removing punctuation (every rune in the Unicode P categories)
//   - Lowercasing with full Unicode case mapping
//   - Producing short single-line previews of transcripts for log output
package textutil
