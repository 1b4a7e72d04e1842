package annotate

import "orchive/internal/transcripts"

// AnnotatedTranscript is the enriched view of one transcript record. It is
// derived on demand and never written back into the record.
type AnnotatedTranscript struct {
	Identifier     string
	RawText        string
	NormalizedText string
	MatrilineCodes []string
	// TransientCodes holds codes matched in the normalized text. Because that
	// text is lowercase the case-sensitive pattern rarely matches; the value
	// is informational only.
	TransientCodes []string
	Transient      bool
}

// Matrilines returns the codes as a single ", "-delimited string.
func (a AnnotatedTranscript) Matrilines() string {
	return FormatMatrilines(a.MatrilineCodes)
}

// SummaryRow converts a to its summary file representation.
func (a AnnotatedTranscript) SummaryRow() transcripts.SummaryRow {
	return transcripts.SummaryRow{
		Identifier:     a.Identifier,
		RawText:        a.RawText,
		NormalizedText: a.NormalizedText,
		Matrilines:     a.Matrilines(),
		Transient:      a.Transient,
	}
}

// Annotate derives an AnnotatedTranscript from rec.
func Annotate(rec transcripts.Record) AnnotatedTranscript {
	normalized := Normalize(rec.RawText)
	return AnnotatedTranscript{
		Identifier:     rec.Identifier,
		RawText:        rec.RawText,
		NormalizedText: normalized,
		MatrilineCodes: ExtractMatrilines(normalized),
		TransientCodes: ExtractTransientCodes(normalized),
		Transient:      TransientFlag(normalized),
	}
}
