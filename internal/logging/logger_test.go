package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"orchive/internal/config"
	"orchive/internal/services"
)

func newTestLogger(t *testing.T, format string, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	addSource := level <= slog.LevelDebug
	var handler slog.Handler
	if format == "json" {
		handler = newJSONHandler(buf, lvl, addSource)
	} else {
		handler = newPrettyHandler(buf, lvl, addSource)
	}
	return slog.New(handler), buf
}

func TestConsoleInfoHeaderAndBullets(t *testing.T) {
	logger, buf := newTestLogger(t, "console", slog.LevelInfo)
	logger = NewComponentLogger(logger, "transcriber")

	logger.Info("unit transcribed",
		slog.String(FieldStage, "transcribe"),
		slog.String(FieldUnit, "tape1_L"),
		slog.String("transcript", "this is a10 group"),
	)

	out := buf.String()
	if !strings.Contains(out, "INFO [transcriber] Transcribe · tape1_L – unit transcribed") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "    - Transcript: this is a10 group") {
		t.Fatalf("expected transcript bullet, got %q", out)
	}
	if strings.Contains(out, "Unit:") {
		t.Fatalf("unit should only appear in the header: %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("info output should not include caller: %q", out)
	}
}

func TestConsoleTruncatesLongValues(t *testing.T) {
	logger, buf := newTestLogger(t, "console", slog.LevelInfo)
	long := strings.Repeat("a", consoleValueLimit+40)
	logger.Info("long", slog.String("transcript", long))

	out := buf.String()
	if strings.Contains(out, long) {
		t.Fatalf("expected value to be truncated")
	}
	if !strings.Contains(out, "…") {
		t.Fatalf("expected ellipsis marker, got %q", out)
	}
}

func TestConsoleHidesExtraFields(t *testing.T) {
	logger, buf := newTestLogger(t, "console", slog.LevelInfo)
	args := make([]any, 0, infoAttrLimit+2)
	for i := 0; i < infoAttrLimit+2; i++ {
		args = append(args, slog.Int("field_"+string(rune('a'+i)), i))
	}
	logger.Info("many fields", args...)

	if !strings.Contains(buf.String(), "+ 2 more fields hidden") {
		t.Fatalf("expected hidden-field summary, got %q", buf.String())
	}
}

func TestConsoleDebugIncludesSourceAndAllFields(t *testing.T) {
	logger, buf := newTestLogger(t, "console", slog.LevelDebug)
	logger.Debug("planning", slog.String(FieldRunID, "run-1"), slog.Int("channels", 2))

	out := buf.String()
	if !strings.Contains(out, "DEBUG") {
		t.Fatalf("expected debug label, got %q", out)
	}
	if !strings.Contains(out, "logger_test.go:") {
		t.Fatalf("expected caller in debug output, got %q", out)
	}
	if !strings.Contains(out, "run_id: run-1") || !strings.Contains(out, "channels: 2") {
		t.Fatalf("expected raw attrs in debug output, got %q", out)
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	logger, buf := newTestLogger(t, "json", slog.LevelInfo)
	logger.Warn("skipped", slog.String(FieldUnit, "tape1_R"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json: %v (%q)", err, buf.String())
	}
	for _, key := range []string{"ts", "level", "msg", FieldUnit} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing key %q in %v", key, payload)
		}
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
}

func TestJSONHandlerFormatsDurationsAndTime(t *testing.T) {
	logger, buf := newTestLogger(t, "json", slog.LevelInfo)
	logger.Info("unit transcribed", Duration(FieldDuration, 1234567891*time.Nanosecond))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if payload[FieldDuration] != "1.235s" {
		t.Fatalf("expected rounded duration string, got %v", payload[FieldDuration])
	}
	ts, _ := payload["ts"].(string)
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("ts %q is not RFC3339: %v", ts, err)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %q", ts)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logger, buf := newTestLogger(t, "json", slog.LevelInfo)
	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithStage(ctx, "annotate")
	ctx = services.WithUnit(ctx, "tape_mono")

	WithContext(ctx, logger).Info("annotated")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if payload[FieldRunID] != "run-42" || payload[FieldStage] != "annotate" || payload[FieldUnit] != "tape_mono" {
		t.Fatalf("context fields missing: %v", payload)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != slog.LevelInfo {
		t.Fatalf("expected info fallback, got %v", got)
	}
	if got := parseLevel(" DEBUG "); got != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", got)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")

	matches, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, "orchive.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected log file, got %v (%v)", matches, err)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, buf := newTestLogger(t, "json", slog.LevelInfo)
	WarnWithContext(logger, "row skipped", "transcript_row_malformed", String(FieldImpact, "row excluded from summary"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if payload[FieldEventType] != "transcript_row_malformed" {
		t.Fatalf("event type missing: %v", payload)
	}
	if payload[FieldErrorHint] != defaultErrorHint {
		t.Fatalf("default hint missing: %v", payload)
	}
	if payload[FieldImpact] != "row excluded from summary" {
		t.Fatalf("impact overridden: %v", payload)
	}
}

func TestErrorWithContextKeepsCallerHint(t *testing.T) {
	logger, buf := newTestLogger(t, "json", slog.LevelInfo)
	ErrorWithContext(logger, "file failed", "file_failed",
		String(FieldErrorHint, "check the wav header"),
		Error(nil),
	)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if payload[FieldErrorHint] != "check the wav header" {
		t.Fatalf("caller hint replaced: %v", payload)
	}
	if _, ok := payload[FieldImpact]; ok {
		t.Fatalf("errors should not get a default impact: %v", payload)
	}
	if payload["error"] != "<nil>" {
		t.Fatalf("expected nil error marker, got %v", payload["error"])
	}
}

func TestNewMirrorsConsoleIntoLogFile(t *testing.T) {
	console := &bytes.Buffer{}
	logFile := filepath.Join(t.TempDir(), "nested", LogFileName)

	logger, err := New(Options{Format: "json", Console: console, LogFile: logFile})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("unit transcribed", String(FieldUnit, "tape1_L"))
	logger.Debug("hidden at info")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(data) != console.String() {
		t.Fatalf("log file %q differs from console %q", data, console.String())
	}
	if !strings.Contains(console.String(), "tape1_L") || strings.Contains(console.String(), "hidden at info") {
		t.Fatalf("unexpected console output: %q", console.String())
	}
}

func TestNewComponentLoggerNilIsSilent(t *testing.T) {
	logger := NewComponentLogger(nil, "annotator")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nil base logger should discard output")
	}
	WarnWithContext(nil, "ignored", "noop")
}
