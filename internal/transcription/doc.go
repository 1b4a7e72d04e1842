// Package transcription turns archive recordings into transcript records.
//
// Plan derives the ordered transcription units of one file: a single
// {base}_mono unit for mono recordings, or {base}_L (primary) followed by
// {base}_R (secondary) for stereo. PairPolicy drives the stereo short-circuit:
// when the left channel yields speech, the right channel is not sent to the
// model and receives the OppositeChannelSpeech placeholder instead.
//
// Runner processes files strictly in order, one at a time. A file's records
// are persisted only after all of its units are complete, and RecordBuilder
// collects them in processing order for the run result.
package transcription
