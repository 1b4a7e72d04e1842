package asr

import (
	"context"
	"strings"
)

// NoSpeechDetected is the raw text recorded when the model returns nothing.
const NoSpeechDetected = "no speech detected"

// blankAudioMarker is emitted by whisper.cpp based servers for silent input.
const blankAudioMarker = "[BLANK_AUDIO]"

// Transcriber turns a mono audio file into raw transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Func adapts a function to Transcriber.
type Func func(ctx context.Context, audioPath string) (string, error)

// Transcribe calls f.
func (f Func) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return f(ctx, audioPath)
}

// NormalizeResult maps raw model output to the recorded text. noSpeech is
// true when the model produced no usable text, in which case text is
// NoSpeechDetected.
func NormalizeResult(raw string) (text string, noSpeech bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, blankAudioMarker, ""))
	if cleaned == "" {
		return NoSpeechDetected, true
	}
	return raw, false
}
