// Package asr is the boundary to the speech recognition model.
//
// Backends implement Transcriber. Raw model output passes through
// NormalizeResult, which maps empty or whitespace-only text to the
// NoSpeechDetected sentinel so a transcript is never empty. An empty result is
// not an error.
package asr
