package annotate

import (
	"slices"
	"testing"

	"orchive/internal/transcripts"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Saw A10, and B201!  ": "saw a10 and b201",
		"no speech detected":     "no speech detected",
		"T-100?":                 "t100",
		"Calm waters, no calls.": "calm waters no calls",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractMatrilinesRoundTrip(t *testing.T) {
	codes := ExtractMatrilines("Saw A10 and a 10s and B201 today")
	if !slices.Equal(codes, []string{"a10", "b201"}) {
		t.Fatalf("unexpected codes %v", codes)
	}
	if got := FormatMatrilines(codes); got != "a10, b201" {
		t.Fatalf("unexpected formatted codes %q", got)
	}
}

func TestExtractMatrilinesVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a10", []string{"a10"}},
		{"a 10", []string{"a10"}},
		{"a10s", []string{"a10"}},
		{"A30s, then a 12 and I15.", []string{"a12", "a30", "i15"}},
		{"the 10s were loud", nil},
		{"a10 b20 c 30s", []string{"a10", "b20", "c30"}},
		{"ña10", nil},
		{"é10 near shore", []string{"é10"}},
		{"a٣٤", []string{"a٣٤"}},
		{"no speech detected", nil},
		{"", nil},
	}
	for _, tc := range tests {
		got := ExtractMatrilines(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !slices.Equal(got, tc.want) {
			t.Fatalf("ExtractMatrilines(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExtractMatrilinesIdempotentUnderNormalization(t *testing.T) {
	inputs := []string{
		"Saw A10 and a 10s and B201 today",
		"  G-12s? Maybe. R 5, and then... A36!! ",
		"This is A10 group.",
		"Transient T100 near A4s",
	}
	for _, raw := range inputs {
		fromRaw := ExtractMatrilines(raw)
		fromNormalized := ExtractMatrilines(Normalize(raw))
		if !slices.Equal(fromRaw, fromNormalized) {
			t.Fatalf("%q: raw %v != normalized %v", raw, fromRaw, fromNormalized)
		}
	}
}

func TestExtractTransientCodes(t *testing.T) {
	got := ExtractTransientCodes("T100 passed, then T 203B2, Then T100 again")
	if !slices.Equal(got, []string{"T100", "T203B2"}) {
		t.Fatalf("unexpected transient codes %v", got)
	}
	if got := ExtractTransientCodes("t100 lowercase"); len(got) != 0 {
		t.Fatalf("expected case-sensitive match, got %v", got)
	}
}

func TestExtractTransientCodesUnicode(t *testing.T) {
	got := ExtractTransientCodes("T\u00a0100 and Tñ9 and Tango")
	if !slices.Equal(got, []string{"T100", "Tñ9"}) {
		t.Fatalf("unexpected transient codes %v", got)
	}
}

func TestTransientFlag(t *testing.T) {
	if !TransientFlag("We spotted a Transient T100 group") {
		t.Fatal("expected transient flag for transient mention")
	}
	if TransientFlag("Calm waters, no calls") {
		t.Fatal("unexpected transient flag")
	}
	if !TransientFlag("transients!") {
		t.Fatal("expected substring containment to match plural")
	}
}

func TestAnnotate(t *testing.T) {
	got := Annotate(transcripts.Record{Identifier: "pass_R", RawText: " This is A10 group. Transient? "})
	if got.Identifier != "pass_R" || got.RawText != " This is A10 group. Transient? " {
		t.Fatalf("identity fields changed: %+v", got)
	}
	if got.NormalizedText != "this is a10 group transient" {
		t.Fatalf("unexpected normalized text %q", got.NormalizedText)
	}
	if got.Matrilines() != "a10" || !got.Transient {
		t.Fatalf("unexpected annotations %+v", got)
	}
	row := got.SummaryRow()
	if row.Matrilines != "a10" || !row.Transient || row.NormalizedText != got.NormalizedText {
		t.Fatalf("unexpected summary row %+v", row)
	}
}

func TestAnnotateSentinels(t *testing.T) {
	for _, raw := range []string{"no speech detected", "no speech detected (speech detected in opposite channel)"} {
		got := Annotate(transcripts.Record{Identifier: "x", RawText: raw})
		if got.NormalizedText == "" || len(got.MatrilineCodes) != 0 || got.Transient {
			t.Fatalf("unexpected annotation for sentinel %q: %+v", raw, got)
		}
	}
}
