package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"orchive/internal/notifications"
	"orchive/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var testNotify bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, binaries and credentials needed for a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Backend", statusInfo, cfg.Transcription.Backend, colorize),
				renderStatusLine("Continue on error", statusInfo, yesNo(cfg.Transcription.ContinueOnError), colorize),
				renderStatusLine("Ledger", statusInfo, ledgerDetail(cfg.Ledger.Enabled, cfg.LedgerPath()), colorize),
				renderStatusLine("Notifications", statusInfo, notifyDetail(cfg.Notifications.NtfyTopic), colorize),
				"",
			)
			lines = append(lines, renderSectionHeader("Checks", colorize)...)

			results := preflight.Check(cmd.Context(), cfg)
			if testNotify {
				results = append(results, notificationCheck(cmd, cfg.Notifications.NtfyTopic, notifications.NewService(cfg)))
			}
			lines = append(lines, renderCheckLines(results, colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&testNotify, "test-notify", false, "Send a test notification to the configured ntfy topic")
	return cmd
}

func notificationCheck(cmd *cobra.Command, topic string, svc notifications.Service) preflight.Result {
	result := preflight.Result{Name: "Notifications"}
	if strings.TrimSpace(topic) == "" {
		result.Detail = "ntfy_topic not configured"
		return result
	}
	if err := svc.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
		result.Detail = err.Error()
		return result
	}
	result.Passed = true
	result.Detail = "test notification sent"
	return result
}

func notifyDetail(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return "disabled"
	}
	return topic
}

func ledgerDetail(enabled bool, path string) string {
	if !enabled {
		return "disabled"
	}
	return path
}
