package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"orchive/internal/asr"
	"orchive/internal/config"
	"orchive/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)...)
	cfg.Logging.Level = "error"
	if err := os.MkdirAll(cfg.Paths.AudioRoot, 0o755); err != nil {
		t.Fatalf("mkdir audio root: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "orchive", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, data)
}

func (e *cliTestEnv) writeArchive(t *testing.T) {
	t.Helper()
	testsupport.WriteWAV(t, filepath.Join(e.cfg.Paths.AudioRoot, "1990", "t1", "a.wav"), 2, 160)
	testsupport.WriteWAV(t, filepath.Join(e.cfg.Paths.AudioRoot, "1990", "t1", "b.wav"), 1, 160)
}

// stubTranscriber replaces the backend factory for the duration of the test.
func stubTranscriber(t *testing.T, tr asr.Transcriber) {
	t.Helper()
	prev := newTranscriber
	newTranscriber = func(*config.Config, *slog.Logger) (asr.Transcriber, error) {
		return tr, nil
	}
	t.Cleanup(func() { newTranscriber = prev })
}

func scriptedArchive() *testsupport.ScriptedTranscriber {
	return &testsupport.ScriptedTranscriber{ByName: map[string]string{
		"a_L": "A12 and a10s, transient nearby",
		"b":   "",
	}}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
