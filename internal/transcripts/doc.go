// Package transcripts persists transcription results as tab-separated files.
//
// A transcription run owns a timestamped directory beneath the output root.
// Each unit gets its own one-row file at year/tape/{identifier}.csv with the
// columns filename and whisper_transcript_raw. The annotation pass reads those
// files back and writes a single processedTranscripts_{timestamp}.csv summary
// into the run directory.
package transcripts
