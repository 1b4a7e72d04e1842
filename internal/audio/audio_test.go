package audio_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"

	"orchive/internal/audio"
	"orchive/internal/testsupport"
)

func TestProbeReadsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	testsupport.WriteWAV(t, path, 2, 64)

	header, err := audio.Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if header.Channels != 2 || header.SampleRate != testsupport.FixtureSampleRate || header.BitDepth != 16 {
		t.Fatalf("unexpected header: %+v", header)
	}
}

func TestDecodeRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.wav")
	testsupport.WriteFile(t, path, []byte("definitely not riff data"))

	if _, err := audio.Decode(path); !errors.Is(err, audio.ErrUnsupportedAudio) {
		t.Fatalf("expected ErrUnsupportedAudio, got %v", err)
	}
	if _, err := audio.Probe(path); !errors.Is(err, audio.ErrUnsupportedAudio) {
		t.Fatalf("expected ErrUnsupportedAudio from Probe, got %v", err)
	}
}

func TestClassifyMonoReturnsBufferUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	testsupport.WriteWAV(t, path, 1, 32)

	buf, err := audio.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := audio.Classify(buf)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Layout != audio.LayoutMono {
		t.Fatalf("expected mono, got %s", got.Layout)
	}
	if got.Mono != buf {
		t.Fatal("mono classification should return the source buffer")
	}
	if got.Left != nil || got.Right != nil {
		t.Fatal("mono classification should not split channels")
	}
}

func TestClassifyStereoSplitsChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	left := []int{1, 2, 3, 4}
	right := []int{-1, -2, -3, -4}
	testsupport.WriteWAVSamples(t, path, 8000, left, right)

	buf, err := audio.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	before := append([]int(nil), buf.Data...)

	got, err := audio.Classify(buf)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Layout != audio.LayoutStereo || got.SampleRate != 8000 {
		t.Fatalf("unexpected classification: %+v", got)
	}
	assertSamples(t, "left", got.Left, left)
	assertSamples(t, "right", got.Right, right)
	for i := range before {
		if buf.Data[i] != before[i] {
			t.Fatal("Classify mutated the source buffer")
		}
	}
}

func TestClassifyIgnoresChannelsBeyondRight(t *testing.T) {
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 4, SampleRate: 16000},
		Data:           []int{10, 20, 30, 40, 11, 21, 31, 41},
		SourceBitDepth: 16,
	}
	got, err := audio.Classify(buf)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Layout != audio.LayoutStereo {
		t.Fatalf("expected stereo, got %s", got.Layout)
	}
	assertSamples(t, "left", got.Left, []int{10, 11})
	assertSamples(t, "right", got.Right, []int{20, 21})
	if got.IgnoredChannels() != 2 {
		t.Fatalf("expected 2 ignored channels, got %d", got.IgnoredChannels())
	}
}

func TestClassifyRejectsMissingFormat(t *testing.T) {
	if _, err := audio.Classify(&goaudio.IntBuffer{Data: []int{1}}); !errors.Is(err, audio.ErrUnsupportedAudio) {
		t.Fatalf("expected ErrUnsupportedAudio, got %v", err)
	}
	if _, err := audio.Classify(nil); !errors.Is(err, audio.ErrUnsupportedAudio) {
		t.Fatalf("expected ErrUnsupportedAudio for nil, got %v", err)
	}
}

func TestWriteMonoRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stereo.wav")
	testsupport.WriteWAVSamples(t, src, 16000, []int{5, 6, 7}, []int{8, 9, 10})

	buf, err := audio.Decode(src)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	split, err := audio.Classify(buf)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	dst := filepath.Join(dir, "right.wav")
	if err := audio.WriteMono(dst, split.Right, 0); err != nil {
		t.Fatalf("WriteMono: %v", err)
	}
	decoded, err := audio.Decode(dst)
	if err != nil {
		t.Fatalf("Decode written file: %v", err)
	}
	if decoded.Format.NumChannels != 1 {
		t.Fatalf("expected mono output, got %d channels", decoded.Format.NumChannels)
	}
	assertSamples(t, "written", decoded, []int{8, 9, 10})
}

func TestWriteMonoRejectsStereoBuffer(t *testing.T) {
	buf := &goaudio.IntBuffer{Format: &goaudio.Format{NumChannels: 2, SampleRate: 16000}, Data: []int{1, 2}}
	if err := audio.WriteMono(filepath.Join(t.TempDir(), "x.wav"), buf, 16); err == nil {
		t.Fatal("expected error writing a stereo buffer as mono")
	}
}

func TestScratchLifecycle(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "scratch")
	scratch, err := audio.NewScratch(parent)
	if err != nil {
		t.Fatalf("NewScratch: %v", err)
	}
	target := scratch.Path("../escape_L.wav")
	if filepath.Dir(target) != scratch.Dir() {
		t.Fatalf("scratch path escaped its directory: %s", target)
	}
	testsupport.WriteFile(t, target, []byte("x"))

	if err := scratch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(scratch.Dir()); !os.IsNotExist(err) {
		t.Fatalf("expected scratch dir removed, stat err=%v", err)
	}
	if err := scratch.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func assertSamples(t *testing.T, label string, buf *goaudio.IntBuffer, want []int) {
	t.Helper()
	if buf == nil {
		t.Fatalf("%s: nil buffer", label)
	}
	if len(buf.Data) != len(want) {
		t.Fatalf("%s: got %d samples, want %d (%v)", label, len(buf.Data), len(want), buf.Data)
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Fatalf("%s: sample %d = %d, want %d", label, i, buf.Data[i], want[i])
		}
	}
}
