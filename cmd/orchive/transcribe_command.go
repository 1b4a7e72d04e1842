package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"orchive/internal/workflow"
)

type transcribeFlags struct {
	continueOnError bool
	skipPreflight   bool
	audioRoot       string
}

func (f *transcribeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.continueOnError, "continue-on-error", false, "Record failed files and keep going")
	cmd.Flags().BoolVar(&f.skipPreflight, "skip-preflight", false, "Start without directory, binary and credential checks")
	cmd.Flags().StringVar(&f.audioRoot, "audio-root", "", "Override paths.audio_root")
}

func (f *transcribeFlags) apply(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("continue-on-error") {
		cfg.Transcription.ContinueOnError = f.continueOnError
	}
	if f.audioRoot != "" {
		cfg.Paths.AudioRoot = f.audioRoot
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var flags transcribeFlags

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe every recording under the audio root into a new run directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, ctx, &flags, false, false)
		},
	}
	flags.register(cmd)
	return cmd
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags transcribeFlags
	var show bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe the archive, then annotate the new run directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, ctx, &flags, true, show)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&show, "show", false, "Print the annotation table")
	return cmd
}

func runPipeline(cmd *cobra.Command, ctx *commandContext, flags *transcribeFlags, annotateRun, show bool) error {
	if err := flags.apply(cmd, ctx); err != nil {
		return err
	}
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mgr, cleanup, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := mgr.Transcribe(signalCtx, workflow.RunOptions{
		SkipPreflight: flags.skipPreflight,
		Annotate:      annotateRun,
	})
	out := cmd.OutOrStdout()
	printRunReport(out, report)
	if err != nil {
		return err
	}
	if report.Annotation != nil {
		printAnnotationSummary(out, *report.Annotation, show)
	}
	return nil
}
