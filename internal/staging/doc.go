// Package staging reclaims scratch directories left behind by interrupted runs.
//
// Per-file channel splits and per-call WhisperX output live in short-lived
// directories under paths.scratch_dir. A crash or SIGKILL can strand them, so
// each transcription run sweeps directories that carry one of the known
// prefixes and are older than the configured age. Anything else in the
// scratch directory is left alone.
package staging
