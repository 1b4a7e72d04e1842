// Package services defines shared utilities consumed by the pipeline stages
// and the transcription backends.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, audio files, and
//     transcription unit identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool, validation, configuration, timeout) for operator hints.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
