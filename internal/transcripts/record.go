package transcripts

import (
	"errors"
	"time"
)

// Column names shared with downstream spreadsheet tooling.
const (
	ColumnFilename      = "filename"
	ColumnRawTranscript = "whisper_transcript_raw"
	ColumnTranscript    = "whisper_transcript"
	ColumnMatrilines    = "matrilines"
	ColumnTransients    = "transients"
)

// TimestampLayout names run directories and summary files (YYYYMMDD_HHMMSS).
const TimestampLayout = "20060102_150405"

// unitFileExt is the extension of per-unit and summary files. The content is
// tab separated despite the extension.
const unitFileExt = ".csv"

// ErrMalformedRow reports a transcript file that is missing a column or has an
// empty raw transcript.
var ErrMalformedRow = errors.New("malformed transcript row")

// Record is one persisted transcription result.
type Record struct {
	Identifier string
	RawText    string
}

// Timestamp formats t with TimestampLayout in local time.
func Timestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
