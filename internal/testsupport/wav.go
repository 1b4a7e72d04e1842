package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// FixtureSampleRate is the sample rate used by WriteWAV.
const FixtureSampleRate = 16000

// WriteWAV writes a 16-bit PCM WAV with the given channel count and frame
// count. Channel c carries a distinct ramp so split channels can be told
// apart after decoding.
func WriteWAV(t testing.TB, path string, channels, frames int) {
	t.Helper()

	samples := make([][]int, channels)
	for c := range samples {
		samples[c] = make([]int, frames)
		for i := range samples[c] {
			samples[c][i] = (c+1)*1000 + i%100
		}
	}
	WriteWAVSamples(t, path, FixtureSampleRate, samples...)
}

// WriteWAVSamples writes a 16-bit PCM WAV whose channel c holds channels[c].
// All channels must have the same length.
func WriteWAVSamples(t testing.TB, path string, sampleRate int, channels ...[]int) {
	t.Helper()

	if len(channels) == 0 {
		t.Fatalf("write wav %s: at least one channel required", path)
	}
	frames := len(channels[0])
	data := make([]int, 0, frames*len(channels))
	for i := 0; i < frames; i++ {
		for c, ch := range channels {
			if len(ch) != frames {
				t.Fatalf("write wav %s: channel %d has %d frames, want %d", path, c, len(ch), frames)
			}
			data = append(data, ch[i])
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, 16, len(channels), 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("close encoder %s: %v", path, err)
	}
}

// WriteFile writes raw bytes to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
