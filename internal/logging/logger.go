package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"orchive/internal/config"
)

// LogFileName is the file under paths.log_dir that `orchive logs` tails.
const LogFileName = "orchive.log"

// Options controls where a logger writes and how much it says.
type Options struct {
	Level  string // debug, info, warn or error; anything else means info
	Format string // console (default) or json
	// Console receives every record. Nil means os.Stdout.
	Console io.Writer
	// LogFile, when set, gets the same records appended. Its directory is created.
	LogFile string
	// AddSource forces caller locations below debug level.
	AddSource bool
}

// New builds a logger writing to the console and, optionally, the log file.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	addSource := opts.AddSource || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	out, err := openOutput(opts.Console, opts.LogFile)
	if err != nil {
		return nil, err
	}
	if format == "json" {
		return slog.New(newJSONHandler(out, levelVar, addSource)), nil
	}
	return slog.New(newPrettyHandler(out, levelVar, addSource)), nil
}

// NewFromConfig applies [logging] and mirrors output into <log_dir>/orchive.log
// when paths.log_dir is set. A nil config yields an info-level console logger.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		opts.LogFile = filepath.Join(dir, LogFileName)
	}
	return New(opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(console io.Writer, logFile string) (io.Writer, error) {
	if console == nil {
		console = os.Stdout
	}
	logFile = strings.TrimSpace(logFile)
	if logFile == "" {
		return console, nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logFile, err)
	}
	return io.MultiWriter(console, file), nil
}
