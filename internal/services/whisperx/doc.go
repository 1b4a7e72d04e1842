// Package whisperx runs WhisperX through uvx to transcribe mono WAV files.
//
// Each call writes WhisperX's JSON output to a private working directory,
// concatenates the segment texts, and removes the directory afterwards.
// Configuration options (model, CUDA, VAD method, language) are passed via
// Config.
package whisperx
