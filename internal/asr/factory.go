package asr

import (
	"fmt"
	"log/slog"

	"orchive/internal/config"
	"orchive/internal/logging"
	"orchive/internal/services"
	"orchive/internal/services/openaiasr"
	"orchive/internal/services/whisperx"
)

// New builds the Transcriber selected by cfg.Transcription.Backend, bounded by
// the configured per-call timeout.
func New(cfg *config.Config, logger *slog.Logger) (Transcriber, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "select backend", "config is required", nil)
	}
	logger = logging.NewComponentLogger(logger, "asr")

	var backend Transcriber
	switch cfg.Transcription.Backend {
	case config.BackendWhisperX, "":
		svc := whisperx.NewService(whisperx.Config{
			Model:       cfg.WhisperX.Model,
			CUDAEnabled: cfg.WhisperX.CUDAEnabled,
			VADMethod:   cfg.WhisperX.VADMethod,
			HFToken:     cfg.WhisperX.HFToken,
			Language:    cfg.Transcription.Language,
			WorkDir:     cfg.Paths.ScratchDir,
		})
		logger.Info("transcription backend selected",
			logging.String(logging.FieldEventType, "asr_backend"),
			logging.String("backend", config.BackendWhisperX),
			logging.String("model", svc.Model()),
			logging.Bool("cuda", svc.CUDAEnabled()),
		)
		backend = svc
	case config.BackendOpenAI:
		svc, err := openaiasr.NewService(openaiasr.Config{
			APIKey:   cfg.OpenAI.APIKey,
			BaseURL:  cfg.OpenAI.BaseURL,
			Model:    cfg.OpenAI.Model,
			Language: cfg.Transcription.Language,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "transcribe", "select backend", "openai backend unavailable", err)
		}
		logger.Info("transcription backend selected",
			logging.String(logging.FieldEventType, "asr_backend"),
			logging.String("backend", config.BackendOpenAI),
			logging.String("model", svc.Model()),
		)
		backend = svc
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "select backend",
			fmt.Sprintf("unknown backend %q", cfg.Transcription.Backend), nil)
	}

	return WithTimeout(backend, cfg.TranscriptionTimeout()), nil
}
