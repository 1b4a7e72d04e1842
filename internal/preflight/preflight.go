package preflight

import (
	"context"

	"orchive/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Optional bool
}

// Check executes all applicable preflight checks for the given config.
func Check(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckReadableDirectory("Audio root", cfg.Paths.AudioRoot))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.Paths.ScratchDir != "" {
		results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	}

	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, Result{Name: status.Name, Passed: status.Available, Optional: status.Optional, Detail: status.Summary()})
	}

	if cfg.Transcription.Backend == config.BackendOpenAI {
		results = append(results, CheckOpenAI(ctx, cfg.OpenAI, cfg.Transcription.Language))
	}

	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
