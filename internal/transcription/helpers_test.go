package transcription

import "orchive/internal/transcripts"

func recordFor(id string) transcripts.Record {
	return transcripts.Record{Identifier: id, RawText: "x"}
}
