package config

const (
	defaultOutputDir        = "~/orca_transcripts"
	defaultLogDir           = "~/.local/share/orchive/logs"
	defaultPattern          = "*.wav"
	defaultBackend          = BackendWhisperX
	defaultWhisperXModel    = "large-v3"
	defaultWhisperXVAD      = "silero"
	defaultOpenAIModel      = "whisper-1"
	defaultOpenAIBaseURL    = "https://api.openai.com/v1"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLedgerEnabled    = true
	defaultLedgerFileName   = "ledger.db"
	defaultTimeoutSeconds   = 0
	defaultContinueOnError  = false
	defaultConfigPathTilde  = "~/.config/orchive/config.toml"
	defaultProjectConfig    = "orchive.toml"
	defaultDotEnvFileName   = ".env"
	defaultWhisperXCUDAFlag = false
	defaultNtfyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Discovery: Discovery{
			Pattern: defaultPattern,
		},
		Transcription: Transcription{
			Backend:         defaultBackend,
			ContinueOnError: defaultContinueOnError,
			TimeoutSeconds:  defaultTimeoutSeconds,
		},
		WhisperX: WhisperX{
			Model:       defaultWhisperXModel,
			CUDAEnabled: defaultWhisperXCUDAFlag,
			VADMethod:   defaultWhisperXVAD,
		},
		OpenAI: OpenAI{
			BaseURL: defaultOpenAIBaseURL,
			Model:   defaultOpenAIModel,
		},
		Ledger: Ledger{
			Enabled: defaultLedgerEnabled,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
