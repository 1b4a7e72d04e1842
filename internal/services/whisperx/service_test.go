package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// fakeWhisperX returns a runner that writes payload as the JSON output
// WhisperX would produce for the source in args.
func fakeWhisperX(t *testing.T, payload string, calls *[][]string) func(context.Context, string, ...string) error {
	t.Helper()
	return func(_ context.Context, name string, args ...string) error {
		if name != UVXCommand {
			t.Fatalf("unexpected command %q", name)
		}
		*calls = append(*calls, args)
		source := args[slices.Index(args, "whisperx")+1]
		outputDir := args[slices.Index(args, "--output_dir")+1]
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return os.WriteFile(filepath.Join(outputDir, base+".json"), []byte(payload), 0o644)
	}
}

func TestTranscribeJoinsSegments(t *testing.T) {
	var calls [][]string
	svc := NewService(Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(fakeWhisperX(t, `{"segments":[{"text":" this is "},{"text":""},{"text":"a10 group"}]}`, &calls))

	text, err := svc.Transcribe(context.Background(), "/archive/1990/t1/a_R.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "this is a10 group" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(calls) != 1 {
		t.Fatalf("expected one uvx call, got %d", len(calls))
	}
	entries, err := os.ReadDir(svc.cfg.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected per-call output dir removed, found %d entries", len(entries))
	}
}

func TestTranscribeEmptySegments(t *testing.T) {
	var calls [][]string
	svc := NewService(Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(fakeWhisperX(t, `{"segments":[]}`, &calls))

	text, err := svc.Transcribe(context.Background(), "/archive/1990/t1/a_mono.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	svc := NewService(Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })

	if _, err := svc.Transcribe(context.Background(), "/archive/a.wav"); err == nil {
		t.Fatal("expected error when whisperx writes no json")
	}
}

func TestTranscribeCommandFailure(t *testing.T) {
	boom := errors.New("cuda out of memory")
	svc := NewService(Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return boom })

	if _, err := svc.Transcribe(context.Background(), "/archive/a.wav"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	svc := NewService(Config{VADMethod: VADMethodPyannote, HFToken: "hf", Language: "en"})
	args := svc.buildArgs("/tmp/a.wav", "/tmp/out")

	expectPair := func(flag, value string) {
		t.Helper()
		idx := slices.Index(args, flag)
		if idx < 0 || idx+1 >= len(args) || args[idx+1] != value {
			t.Fatalf("expected %s %s in %v", flag, value, args)
		}
	}
	expectPair("--model", DefaultModel)
	expectPair("--output_format", "json")
	expectPair("--vad_method", VADMethodPyannote)
	expectPair("--hf_token", "hf")
	expectPair("--language", "en")
	expectPair("--device", CPUDevice)
	expectPair("--compute_type", CPUComputeType)
	expectPair("--vad_onset", "0.08")
	expectPair("--beam_size", "10")
	expectPair("--temperature", "0")

	tuned := NewService(Config{Decoding: Decoding{BatchSize: 16, ChunkSize: 30, VADOnset: 0.5, VADOffset: 0.363, BeamSize: 5, BestOf: 5, Patience: 2}})
	tunedArgs := tuned.buildArgs("/tmp/a.wav", "/tmp/out")
	if i := slices.Index(tunedArgs, "--batch_size"); tunedArgs[i+1] != "16" {
		t.Fatalf("expected overridden batch size in %v", tunedArgs)
	}
	if i := slices.Index(tunedArgs, "--vad_offset"); tunedArgs[i+1] != "0.363" {
		t.Fatalf("expected overridden vad offset in %v", tunedArgs)
	}

	cuda := NewService(Config{CUDAEnabled: true, Model: "large-v3-turbo"}).buildArgs("/tmp/a.wav", "/tmp/out")
	if !slices.Contains(cuda, CUDAIndexURL) || !slices.Contains(cuda, CUDADevice) {
		t.Fatalf("expected cuda index and device in %v", cuda)
	}
	if slices.Contains(cuda, "--language") || slices.Contains(cuda, "--hf_token") {
		t.Fatalf("unexpected optional flags in %v", cuda)
	}
}
