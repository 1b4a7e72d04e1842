package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// ScriptStep is one scripted transcriber response.
type ScriptStep struct {
	Text string
	Err  error
}

// ScriptedTranscriber is a deterministic transcriber double. Responses are
// looked up by the audio file's base name (without extension) first, then
// taken from Script in call order. Every call is recorded.
type ScriptedTranscriber struct {
	// ByName maps an audio base name such as "a_L" to the text returned for it.
	ByName map[string]string
	// Script is consumed in order for calls not matched by ByName.
	Script []ScriptStep

	mu    sync.Mutex
	next  int
	calls []string
}

// Transcribe returns the scripted text for audioPath.
func (s *ScriptedTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, audioPath)
	name := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if text, ok := s.ByName[name]; ok {
		return text, nil
	}
	if s.next >= len(s.Script) {
		return "", fmt.Errorf("scripted transcriber: no response for call %d (%s)", len(s.calls), audioPath)
	}
	step := s.Script[s.next]
	s.next++
	return step.Text, step.Err
}

// Calls returns the audio paths passed to Transcribe, in call order.
func (s *ScriptedTranscriber) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times Transcribe was invoked.
func (s *ScriptedTranscriber) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// CalledWith reports whether any call used an audio file with the given base name.
func (s *ScriptedTranscriber) CalledWith(name string) bool {
	for _, call := range s.Calls() {
		if strings.TrimSuffix(filepath.Base(call), filepath.Ext(call)) == name {
			return true
		}
	}
	return false
}
