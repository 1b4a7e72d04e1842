package transcription

import (
	"errors"
	"testing"

	goaudio "github.com/go-audio/audio"

	"orchive/internal/archive"
	"orchive/internal/audio"
)

func TestPairPolicySpeechOnPrimarySkipsSecondary(t *testing.T) {
	p := NewPairPolicy()
	if p.State() != PendingPrimary {
		t.Fatalf("unexpected initial state %s", p.State())
	}
	if err := p.RecordPrimary(false); err != nil {
		t.Fatalf("RecordPrimary: %v", err)
	}
	if p.State() != PrimaryDone {
		t.Fatalf("expected primary_done, got %s", p.State())
	}
	transcribe, err := p.DecideSecondary()
	if err != nil {
		t.Fatalf("DecideSecondary: %v", err)
	}
	if transcribe || p.State() != SecondarySkipped {
		t.Fatalf("expected skip, got transcribe=%v state=%s", transcribe, p.State())
	}
	if err := p.RecordSecondary(); err != nil {
		t.Fatalf("RecordSecondary: %v", err)
	}
	if p.State() != Complete || !p.Skipped() {
		t.Fatalf("expected complete skipped pair, got %s skipped=%v", p.State(), p.Skipped())
	}
}

func TestPairPolicyNoSpeechOnPrimaryTranscribesSecondary(t *testing.T) {
	p := NewPairPolicy()
	if err := p.RecordPrimary(true); err != nil {
		t.Fatalf("RecordPrimary: %v", err)
	}
	transcribe, err := p.DecideSecondary()
	if err != nil {
		t.Fatalf("DecideSecondary: %v", err)
	}
	if !transcribe || p.State() != SecondaryTranscribed {
		t.Fatalf("expected transcription, got transcribe=%v state=%s", transcribe, p.State())
	}
	if err := p.RecordSecondary(); err != nil {
		t.Fatalf("RecordSecondary: %v", err)
	}
	if p.State() != Complete || p.Skipped() {
		t.Fatalf("unexpected final state %s skipped=%v", p.State(), p.Skipped())
	}
}

func TestPairPolicyRejectsOutOfOrderCalls(t *testing.T) {
	p := NewPairPolicy()
	if _, err := p.DecideSecondary(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("decide before primary: got %v", err)
	}
	if err := p.RecordSecondary(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("secondary before primary: got %v", err)
	}
	if err := p.RecordPrimary(false); err != nil {
		t.Fatalf("RecordPrimary: %v", err)
	}
	if err := p.RecordPrimary(false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second primary: got %v", err)
	}
	if err := p.RecordSecondary(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("secondary before decision: got %v", err)
	}
}

func TestPlanMono(t *testing.T) {
	buf := &goaudio.IntBuffer{Format: &goaudio.Format{NumChannels: 1, SampleRate: 16000}, Data: []int{1}}
	file := archive.AudioFile{Path: "/a/1990/t/call.wav", Location: archive.Location{Year: "1990", Tape: "t", File: "call.wav", Base: "call"}}

	units, err := Plan(file, audio.Classification{Layout: audio.LayoutMono, Mono: buf, Channels: 1})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected one unit, got %d", len(units))
	}
	u := units[0]
	if u.Identifier != "call_mono" || u.Channel != ChannelMono || u.Role != RolePrimary || u.AudioPath != file.Path {
		t.Fatalf("unexpected mono unit %+v", u)
	}
}

func TestPlanStereoOrder(t *testing.T) {
	left := &goaudio.IntBuffer{Format: &goaudio.Format{NumChannels: 1}, Data: []int{1}}
	right := &goaudio.IntBuffer{Format: &goaudio.Format{NumChannels: 1}, Data: []int{2}}
	file := archive.AudioFile{Path: "/a/1990/t/call.wav", Location: archive.Location{Base: "call"}}

	units, err := Plan(file, audio.Classification{Layout: audio.LayoutStereo, Left: left, Right: right, Channels: 2})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected two units, got %d", len(units))
	}
	if units[0].Identifier != "call_L" || units[0].Role != RolePrimary || units[0].Signal != left {
		t.Fatalf("unexpected primary %+v", units[0])
	}
	if units[1].Identifier != "call_R" || units[1].Role != RoleSecondary || units[1].Signal != right {
		t.Fatalf("unexpected secondary %+v", units[1])
	}
}

func TestPlanRejectsIncompleteClassification(t *testing.T) {
	file := archive.AudioFile{Path: "/a/1990/t/call.wav", Location: archive.Location{Base: "call"}}
	if _, err := Plan(file, audio.Classification{Layout: audio.LayoutStereo}); err == nil {
		t.Fatal("expected error for stereo without channels")
	}
	if _, err := Plan(archive.AudioFile{Path: "x"}, audio.Classification{Layout: audio.LayoutMono}); !errors.Is(err, archive.ErrMalformedInputPath) {
		t.Fatalf("expected malformed path for empty base, got %v", err)
	}
}

func TestRecordBuilder(t *testing.T) {
	var b RecordBuilder
	if err := b.Append(UnitResult{Record: recordFor("a_L")}, UnitResult{Record: recordFor("a_R")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := b.Append(UnitResult{Record: recordFor("b_mono")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got := b.Finish()
	if len(got) != 3 || got[0].Record.Identifier != "a_L" || got[2].Record.Identifier != "b_mono" {
		t.Fatalf("unexpected order %+v", got)
	}
	if err := b.Append(UnitResult{}); !errors.Is(err, ErrBuilderFinished) {
		t.Fatalf("expected ErrBuilderFinished, got %v", err)
	}
	got[0].Record.Identifier = "mutated"
	if again := b.Finish(); again[0].Record.Identifier != "a_L" {
		t.Fatal("Finish should return a copy")
	}
}
