// Package logging builds the slog loggers orchive writes to stdout and to
// <log_dir>/orchive.log.
//
// Two handlers are supported: a console handler that prints a header line
// ("ts LEVEL [component] subject – message") followed by indented fields, and
// a JSON handler with ts/level/msg keys. WithContext stamps run IDs, stages,
// audio files and transcription units stored by the services context helpers.
// WarnWithContext and ErrorWithContext require an event type and fill in a
// default error hint. NewNop discards everything and is meant for tests.
package logging
