package openaiasr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Config captures the endpoint and model used for transcription.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

// Service wraps a go-openai client.
type Service struct {
	client   *openai.Client
	model    string
	language string
}

// NewService creates a transcription client for cfg.
func NewService(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.Whisper1
	}
	return &Service{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: cfg.Language,
	}, nil
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.model
}

// Transcribe uploads audioPath and returns the transcript text.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model,
		FilePath: audioPath,
		Language: s.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return resp.Text, nil
}

// HealthCheck verifies the endpoint accepts the configured key by listing models.
func (s *Service) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai health check: %w", err)
	}
	return nil
}
