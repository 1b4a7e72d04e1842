// Package annotate mines transcripts for killer whale vocabulary.
//
// Every transcript is normalized (trimmed, punctuation removed, lowercased)
// and scanned for matriline codes such as a10 or b201. The transient flag is
// plain substring containment of "transient" in the normalized text.
// Transient codes (T100, T203B2) are extracted as well but do not feed the
// summary output.
package annotate
