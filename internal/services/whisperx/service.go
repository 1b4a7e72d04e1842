package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// WorkDirPrefix starts the name of every per-call output directory.
const WorkDirPrefix = "whisperx-"

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	// Force legacy behavior so bundled WhisperX binaries can load checkpoints safely.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs WhisperX on audioPath and returns the raw transcript text.
// An empty string means WhisperX found no speech.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outputDir, err := os.MkdirTemp(s.cfg.WorkDir, WorkDirPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("whisperx: create output dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	result, err := s.TranscribeFile(ctx, audioPath, outputDir)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// TranscribeResult contains the result of a transcription.
type TranscribeResult struct {
	// Text is the plain text transcription.
	Text string
	// JSONPath is the path to the generated JSON file.
	JSONPath string
	// Segments are the parsed WhisperX segments.
	Segments []Segment
}

// TranscribeFile transcribes an audio file, leaving WhisperX output in outputDir.
func (s *Service) TranscribeFile(ctx context.Context, source, outputDir string) (TranscribeResult, error) {
	var result TranscribeResult

	if source == "" {
		return result, fmt.Errorf("transcribe: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := s.buildArgs(source, outputDir)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		return result, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	result.JSONPath = filepath.Join(outputDir, baseName+".json")

	segments, err := LoadSegments(result.JSONPath)
	if err != nil {
		return result, fmt.Errorf("whisperx: read output: %w", err)
	}
	result.Segments = segments
	result.Text = joinSegments(segments)
	return result, nil
}

func (s *Service) decoding() Decoding {
	if s.cfg.Decoding == (Decoding{}) {
		return DefaultDecoding()
	}
	return s.cfg.Decoding
}

// buildArgs constructs the uvx command line for one WhisperX call.
func (s *Service) buildArgs(source, outputDir string) []string {
	args := []string{"--index-url", PypiIndexURL}
	if s.cfg.CUDAEnabled {
		args = []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}

	dec := s.decoding()
	args = append(args,
		"whisperx", source,
		"--model", s.Model(),
		"--output_dir", outputDir,
		"--output_format", outputFormat,
		"--segment_resolution", segmentResolution,
		"--batch_size", strconv.Itoa(dec.BatchSize),
		"--chunk_size", strconv.Itoa(dec.ChunkSize),
		"--vad_onset", formatFloat(dec.VADOnset),
		"--vad_offset", formatFloat(dec.VADOffset),
		"--beam_size", strconv.Itoa(dec.BeamSize),
		"--best_of", strconv.Itoa(dec.BestOf),
		"--temperature", formatFloat(dec.Temperature),
		"--patience", formatFloat(dec.Patience),
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}
	if lang := strings.TrimSpace(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		return append(args, "--device", CUDADevice)
	}
	return append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload.Segments, nil
}

func joinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
