package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Backend names accepted by transcription.backend.
const (
	BackendWhisperX = "whisperx"
	BackendOpenAI   = "openai"
)

// Paths contains directory configuration.
type Paths struct {
	// AudioRoot is the archive root organised as root/year/tape/file.
	AudioRoot string `toml:"audio_root"`
	// OutputDir receives one timestamped run directory per transcription run.
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	// ScratchDir hosts the per-file temporary channel WAVs. Empty uses the OS temp dir.
	ScratchDir string `toml:"scratch_dir"`
}

// Discovery controls which files under the audio root are transcribed.
type Discovery struct {
	Pattern string `toml:"pattern"`
}

// Transcription contains orchestration settings shared by every backend.
type Transcription struct {
	Backend         string `toml:"backend"`
	ContinueOnError bool   `toml:"continue_on_error"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	Language        string `toml:"language"`
}

// WhisperX contains settings for the uvx-launched WhisperX backend.
type WhisperX struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
}

// OpenAI contains settings for an OpenAI-compatible transcription endpoint.
type OpenAI struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Ledger controls the SQLite run ledger.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Notifications controls ntfy run alerts. An empty topic disables them.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for orchive.
//
// Configuration sections by subsystem:
//   - Paths: archive root, run output tree, logs, scratch audio
//   - Discovery: file pattern for archive traversal
//   - Transcription: backend selection, failure isolation, per-call timeout
//   - WhisperX / OpenAI: backend specific settings
//   - Ledger: SQLite run history
//   - Notifications: ntfy alerts when a run ends
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Discovery     Discovery     `toml:"discovery"`
	Transcription Transcription `toml:"transcription"`
	WhisperX      WhisperX      `toml:"whisperx"`
	OpenAI        OpenAI        `toml:"openai"`
	Ledger        Ledger        `toml:"ledger"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPathTilde)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(defaultDotEnvFileName); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads KEY=VALUE pairs into the process environment without
// overriding variables that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPathTilde)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfig)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir}
	if c.Paths.ScratchDir != "" {
		dirs = append(dirs, c.Paths.ScratchDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TranscriptionTimeout returns the bounded wait applied to each ASR call, or
// zero when calls may run indefinitely.
func (c *Config) TranscriptionTimeout() time.Duration {
	if c.Transcription.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Transcription.TimeoutSeconds) * time.Second
}

// NotificationTimeout bounds a single ntfy request.
func (c *Config) NotificationTimeout() time.Duration {
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		return defaultNtfyTimeout * time.Second
	}
	return time.Duration(c.Notifications.RequestTimeoutSeconds) * time.Second
}

// LedgerPath returns the SQLite ledger location.
func (c *Config) LedgerPath() string {
	if strings.TrimSpace(c.Ledger.Path) != "" {
		return c.Ledger.Path
	}
	return filepath.Join(c.Paths.LogDir, defaultLedgerFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
