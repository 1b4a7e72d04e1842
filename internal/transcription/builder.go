package transcription

import (
	"errors"
	"time"

	"orchive/internal/archive"
	"orchive/internal/transcripts"
)

// Outcome classifies how a unit's record was produced.
type Outcome string

const (
	OutcomeTranscribed            Outcome = "transcribed"
	OutcomeNoSpeech               Outcome = "no_speech"
	OutcomeSkippedOppositeChannel Outcome = "skipped_opposite_channel"
)

// UnitResult is the immutable outcome of one transcription unit.
type UnitResult struct {
	Record     transcripts.Record
	SourcePath string
	Location   archive.Location
	Channel    Channel
	Outcome    Outcome
	// OutputPath is where the record was persisted.
	OutputPath string
	Elapsed    time.Duration
}

// NoSpeech reports whether the unit's record is a no-speech sentinel.
func (r UnitResult) NoSpeech() bool {
	return r.Outcome != OutcomeTranscribed
}

// ErrBuilderFinished reports an append after Finish.
var ErrBuilderFinished = errors.New("record builder already finished")

// RecordBuilder accumulates unit results in processing order.
type RecordBuilder struct {
	results  []UnitResult
	finished bool
}

// Append adds results, preserving order.
func (b *RecordBuilder) Append(results ...UnitResult) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.results = append(b.results, results...)
	return nil
}

// Len returns the number of results appended so far.
func (b *RecordBuilder) Len() int {
	return len(b.results)
}

// Finish seals the builder and returns the accumulated results.
func (b *RecordBuilder) Finish() []UnitResult {
	b.finished = true
	out := make([]UnitResult, len(b.results))
	copy(out, b.results)
	return out
}
