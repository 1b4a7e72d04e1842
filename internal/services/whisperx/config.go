package whisperx

// Config captures runtime settings for one WhisperX service.
type Config struct {
	Model       string
	CUDAEnabled bool
	// VADMethod is "silero" or "pyannote"; pyannote needs HFToken.
	VADMethod string
	HFToken   string
	// Language is an ISO 639-1 code; empty lets WhisperX detect it.
	Language string
	// WorkDir is the parent for per-call output directories. Empty uses the OS temp dir.
	WorkDir string
	// Decoding overrides DefaultDecoding when non-zero.
	Decoding Decoding
}

// Decoding holds the inference knobs passed to whisperx on every call.
type Decoding struct {
	BatchSize   int
	ChunkSize   int
	VADOnset    float64
	VADOffset   float64
	BeamSize    int
	BestOf      int
	Temperature float64
	Patience    float64
}

// DefaultDecoding returns the decoding settings used when Config.Decoding is zero.
func DefaultDecoding() Decoding {
	return Decoding{
		BatchSize:   4,
		ChunkSize:   15,
		VADOnset:    0.08,
		VADOffset:   0.07,
		BeamSize:    10,
		BestOf:      10,
		Temperature: 0,
		Patience:    1,
	}
}

const (
	DefaultModel      = "large-v3"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"

	// UVXCommand is the launcher used to run WhisperX.
	UVXCommand = "uvx"

	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"

	outputFormat      = "json"
	segmentResolution = "sentence"
)
