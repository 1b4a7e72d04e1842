package transcription_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orchive/internal/annotate"
	"orchive/internal/archive"
	"orchive/internal/asr"
	"orchive/internal/logging"
	"orchive/internal/services"
	"orchive/internal/testsupport"
	"orchive/internal/transcription"
	"orchive/internal/transcripts"
)

type fixture struct {
	root    string
	scratch string
	runDir  *transcripts.RunDir
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	runDir, err := transcripts.NewRunDir(filepath.Join(base, "out"), runClock())
	if err != nil {
		t.Fatalf("NewRunDir: %v", err)
	}
	return &fixture{
		root:    filepath.Join(base, "audio"),
		scratch: filepath.Join(base, "scratch"),
		runDir:  runDir,
	}
}

func (f *fixture) wav(t *testing.T, rel string, channels int) string {
	t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	testsupport.WriteWAV(t, path, channels, 160)
	return path
}

func (f *fixture) runner(tr asr.Transcriber, opts transcription.Options) *transcription.Runner {
	opts.ArchiveRoot = f.root
	opts.ScratchDir = f.scratch
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return transcription.NewRunner(tr, f.runDir, opts)
}

func readUnit(t *testing.T, path string) transcripts.Record {
	t.Helper()
	rec, err := transcripts.ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	return rec
}

func TestMonoProducesSingleRecord(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1985/tape01/call.wav", 1)
	tr := &testsupport.ScriptedTranscriber{ByName: map[string]string{"call": " A10 calling."}}

	result, err := f.runner(tr, transcription.Options{}).Run(context.Background(), []string{src})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Units) != 1 {
		t.Fatalf("expected one record, got %d", len(result.Units))
	}
	unit := result.Units[0]
	if unit.Record.Identifier != "call_mono" || unit.Outcome != transcription.OutcomeTranscribed {
		t.Fatalf("unexpected unit %+v", unit)
	}
	if calls := tr.Calls(); len(calls) != 1 || calls[0] != src {
		t.Fatalf("mono file should be transcribed from its source path, calls=%v", calls)
	}
	rec := readUnit(t, filepath.Join(f.runDir.Path(), "1985", "tape01", "call_mono.csv"))
	if rec.RawText != " A10 calling." {
		t.Fatalf("unexpected persisted text %q", rec.RawText)
	}
}

func TestMonoEmptyResultPersistsSentinel(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1985/tape01/quiet.wav", 1)
	tr := &testsupport.ScriptedTranscriber{ByName: map[string]string{"quiet": "   "}}

	result, err := f.runner(tr, transcription.Options{}).Run(context.Background(), []string{src})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Units[0].Outcome != transcription.OutcomeNoSpeech {
		t.Fatalf("expected no_speech outcome, got %s", result.Units[0].Outcome)
	}
	rec := readUnit(t, result.Units[0].OutputPath)
	if rec.RawText != "no speech detected" {
		t.Fatalf("expected sentinel text, got %q", rec.RawText)
	}
}

func TestStereoLeftSpeechSkipsRight(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1990/tape02/pass.wav", 2)
	tr := &testsupport.ScriptedTranscriber{ByName: map[string]string{"pass_L": "Orcas calling, A10 and A12."}}

	result, err := f.runner(tr, transcription.Options{}).Run(context.Background(), []string{src})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Units) != 2 {
		t.Fatalf("stereo file must yield two records, got %d", len(result.Units))
	}
	if tr.CallCount() != 1 || tr.CalledWith("pass_R") {
		t.Fatalf("right channel must not reach the model; calls=%v", tr.Calls())
	}
	left, right := result.Units[0], result.Units[1]
	if left.Record.Identifier != "pass_L" || right.Record.Identifier != "pass_R" {
		t.Fatalf("unexpected identifiers %s, %s", left.Record.Identifier, right.Record.Identifier)
	}
	if right.Record.RawText != "no speech detected (speech detected in opposite channel)" {
		t.Fatalf("unexpected right text %q", right.Record.RawText)
	}
	if right.Outcome != transcription.OutcomeSkippedOppositeChannel {
		t.Fatalf("unexpected right outcome %s", right.Outcome)
	}
	if rec := readUnit(t, right.OutputPath); rec.RawText != transcription.OppositeChannelSpeech {
		t.Fatalf("persisted right text %q", rec.RawText)
	}
}

func TestStereoSilentLeftTranscribesRight(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1990/tape02/pass.wav", 2)
	tr := &testsupport.ScriptedTranscriber{ByName: map[string]string{
		"pass_L": "",
		"pass_R": "this is a10 group",
	}}

	result, err := f.runner(tr, transcription.Options{}).Run(context.Background(), []string{src})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	calls := tr.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected both channels transcribed, calls=%v", calls)
	}
	if !strings.HasSuffix(calls[0], "pass_L.wav") || !strings.HasSuffix(calls[1], "pass_R.wav") {
		t.Fatalf("left must be transcribed before right, calls=%v", calls)
	}
	left, right := result.Units[0], result.Units[1]
	if left.Record.RawText != "no speech detected" || left.Outcome != transcription.OutcomeNoSpeech {
		t.Fatalf("unexpected left %+v", left)
	}
	if right.Record.RawText != "this is a10 group" || right.Outcome != transcription.OutcomeTranscribed {
		t.Fatalf("unexpected right %+v", right)
	}

	annotated := annotate.Annotate(readUnit(t, right.OutputPath))
	if annotated.Matrilines() != "a10" {
		t.Fatalf("expected a10 extracted from right channel, got %q", annotated.Matrilines())
	}
}

func TestStereoBothSilent(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1990/tape02/pass.wav", 2)
	tr := &testsupport.ScriptedTranscriber{ByName: map[string]string{"pass_L": "", "pass_R": "\n"}}

	result, err := f.runner(tr, transcription.Options{}).Run(context.Background(), []string{src})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, unit := range result.Units {
		if unit.Record.RawText != "no speech detected" {
			t.Fatalf("%s: expected sentinel, got %q", unit.Record.Identifier, unit.Record.RawText)
		}
	}
	if result.Count(transcription.OutcomeNoSpeech) != 2 {
		t.Fatalf("expected two no_speech units, got %d", result.Count(transcription.OutcomeNoSpeech))
	}
}

func TestStereoScratchIsRemoved(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1990/tape02/pass.wav", 2)
	var seen []string
	tr := asr.Func(func(_ context.Context, path string) (string, error) {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("channel file missing during transcription: %v", err)
		}
		seen = append(seen, path)
		return "", nil
	})

	if _, err := f.runner(tr, transcription.Options{}).Run(context.Background(), []string{src}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected two calls, got %v", seen)
	}
	for _, path := range seen {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("scratch file %s should be removed, stat err=%v", path, err)
		}
	}
	entries, err := os.ReadDir(f.scratch)
	if err != nil {
		t.Fatalf("read scratch parent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty scratch parent, found %d entries", len(entries))
	}
}

func TestRunPreservesDiscoveryOrder(t *testing.T) {
	f := newFixture(t)
	paths := []string{
		f.wav(t, "1985/t1/a.wav", 2),
		f.wav(t, "1985/t1/b.wav", 1),
		f.wav(t, "1986/t9/c.wav", 2),
	}
	tr := &testsupport.ScriptedTranscriber{ByName: map[string]string{
		"a_L": "a10", "b": "", "c_L": "", "c_R": "b201",
	}}

	result, err := f.runner(tr, transcription.Options{}).Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var ids []string
	for _, unit := range result.Units {
		ids = append(ids, unit.Record.Identifier)
	}
	if got := strings.Join(ids, ","); got != "a_L,a_R,b_mono,c_L,c_R" {
		t.Fatalf("unexpected record order %s", got)
	}
	if result.Files != 3 || len(result.Failures) != 0 {
		t.Fatalf("unexpected totals %+v", result)
	}
}

func TestFailureAbortsRunByDefault(t *testing.T) {
	f := newFixture(t)
	paths := []string{f.wav(t, "1985/t1/a.wav", 1), f.wav(t, "1985/t1/b.wav", 1)}
	boom := errors.New("model crashed")
	tr := &testsupport.ScriptedTranscriber{Script: []testsupport.ScriptStep{{Err: boom}, {Text: "b"}}}

	result, err := f.runner(tr, transcription.Options{}).Run(context.Background(), paths)
	if !errors.Is(err, boom) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected wrapped model failure, got %v", err)
	}
	if tr.CallCount() != 1 {
		t.Fatalf("run should stop after the first failure, calls=%d", tr.CallCount())
	}
	if len(result.Units) != 0 || len(result.Failures) != 1 {
		t.Fatalf("unexpected partial result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(f.runDir.Path(), "1985", "t1", "a_mono.csv")); !os.IsNotExist(err) {
		t.Fatalf("no record should be written for a failed file, stat err=%v", err)
	}
}

type recordingObserver struct {
	units    []string
	failures []string
}

func (o *recordingObserver) UnitCompleted(_ context.Context, res transcription.UnitResult) error {
	o.units = append(o.units, res.Record.Identifier+":"+string(res.Outcome))
	return nil
}

func (o *recordingObserver) FileFailed(_ context.Context, path string, _ error) error {
	o.failures = append(o.failures, filepath.Base(path))
	return nil
}

func TestContinueOnErrorIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	good := f.wav(t, "1985/t1/b.wav", 2)
	badRel := filepath.Join(f.root, "1985", "t1", "a.wav")
	testsupport.WriteFile(t, badRel, []byte("not audio"))
	tr := &testsupport.ScriptedTranscriber{ByName: map[string]string{"b_L": "speech"}}
	obs := &recordingObserver{}

	result, err := f.runner(tr, transcription.Options{ContinueOnError: true, Observer: obs}).Run(context.Background(), []string{badRel, good})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Failures) != 1 || !errors.Is(result.Failures[0].Err, services.ErrValidation) {
		t.Fatalf("expected one validation failure, got %+v", result.Failures)
	}
	if len(result.Units) != 2 {
		t.Fatalf("expected the good file's records, got %d", len(result.Units))
	}
	if strings.Join(obs.units, ",") != "b_L:transcribed,b_R:skipped_opposite_channel" {
		t.Fatalf("unexpected observed units %v", obs.units)
	}
	if strings.Join(obs.failures, ",") != "a.wav" {
		t.Fatalf("unexpected observed failures %v", obs.failures)
	}
}

func TestMalformedDepthIsRejected(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "loose.wav", 1)
	tr := &testsupport.ScriptedTranscriber{}

	_, err := f.runner(tr, transcription.Options{}).Run(context.Background(), []string{src})
	if !errors.Is(err, archive.ErrMalformedInputPath) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected malformed input path, got %v", err)
	}
	if tr.CallCount() != 0 {
		t.Fatal("model must not be invoked for a malformed path")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1985/t1/a.wav", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.runner(&testsupport.ScriptedTranscriber{}, transcription.Options{ContinueOnError: true}).Run(ctx, []string{src})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestTimeoutIsMarked(t *testing.T) {
	f := newFixture(t)
	src := f.wav(t, "1985/t1/a.wav", 1)
	slow := asr.Func(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := f.runner(asr.WithTimeout(slow, shortTimeout), transcription.Options{}).Run(context.Background(), []string{src})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}
