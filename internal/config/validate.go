package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateWhisperX(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.AudioRoot != "" && c.Paths.AudioRoot == c.Paths.OutputDir {
		return errors.New("paths.output_dir must differ from paths.audio_root")
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if _, err := filepath.Match(c.Discovery.Pattern, ""); err != nil {
		return fmt.Errorf("discovery.pattern %q is not a valid glob: %w", c.Discovery.Pattern, err)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Backend {
	case BackendWhisperX, BackendOpenAI:
	default:
		return fmt.Errorf("transcription.backend must be %q or %q, got %q", BackendWhisperX, BackendOpenAI, c.Transcription.Backend)
	}
	if c.Transcription.TimeoutSeconds < 0 {
		return errors.New("transcription.timeout_seconds must not be negative (0 disables the limit)")
	}
	if c.Transcription.Backend == BackendOpenAI && c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPathTilde
		}
		return fmt.Errorf("openai.api_key is required for the openai backend. Set OPENAI_API_KEY env var or edit %s (create with 'orchive config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateWhisperX() error {
	switch c.WhisperX.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("whisperx.vad_method must be silero or pyannote, got %q", c.WhisperX.VADMethod)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeoutSeconds < 0 {
		return errors.New("notifications.request_timeout_seconds must be positive")
	}
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
