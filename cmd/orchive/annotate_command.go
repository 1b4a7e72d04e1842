package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"orchive/internal/annotate"
	"orchive/internal/config"
	"orchive/internal/transcripts"
)

func newAnnotateCommand(ctx *commandContext) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "annotate [run-dir]",
		Short: "Annotate a run directory (defaults to the most recent run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runDir, err := resolveRunDir(cfg, trimArg(args))
			if err != nil {
				return err
			}

			summary, err := annotate.NewAnnotator(logger).Run(cmd.Context(), runDir)
			if err != nil {
				return err
			}
			printAnnotationSummary(cmd.OutOrStdout(), summary, show)
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "Print the annotation table")
	return cmd
}

func resolveRunDir(cfg *config.Config, arg string) (string, error) {
	if arg != "" {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return "", fmt.Errorf("resolve run dir: %w", err)
		}
		return path, nil
	}
	latest, err := transcripts.LatestRunDir(cfg.Paths.OutputDir)
	if err != nil {
		return "", err
	}
	return latest.Path(), nil
}
