package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"orchive/internal/ledger"
	"orchive/internal/textutil"
)

const runTimeLayout = "2006-01-02 15:04:05"

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List transcription runs recorded in the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			printRunsTable(out, runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.AddCommand(newRunsShowCommand(ctx))
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show unit outcomes and failures for one run (id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.FindRun(cmd.Context(), trimArg(args))
			if err != nil {
				return err
			}
			units, err := store.Units(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			failures, err := store.Failures(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRunDetail(out, run)
			if len(units) > 0 {
				fmt.Fprintln(out)
				printUnitsTable(out, units)
			}
			if len(failures) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Failures:")
				for _, f := range failures {
					fmt.Fprintf(out, "  %s: %s\n", f.SourcePath, f.ErrorMessage)
				}
			}
			return nil
		},
	}
}

func printRunsTable(out io.Writer, runs []ledger.Run) {
	columns := []tableColumn{
		{Header: "ID"},
		{Header: "Started"},
		{Header: "Status"},
		{Header: "Files", Align: alignRight},
		{Header: "Units", Align: alignRight},
		{Header: "Failed", Align: alignRight},
		{Header: "Elapsed", Align: alignRight},
		{Header: "Run Dir"},
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(runTimeLayout),
			string(run.Status),
			strconv.Itoa(run.FilesTotal),
			strconv.Itoa(run.UnitCount),
			strconv.Itoa(run.FailureCount),
			formatElapsed(run),
			run.RunDir,
		})
	}
	fmt.Fprintln(out, renderTable(columns, rows))
}

func printRunDetail(out io.Writer, run ledger.Run) {
	fmt.Fprintf(out, "Run ID: %s\n", run.ID)
	fmt.Fprintf(out, "Status: %s\n", run.Status)
	fmt.Fprintf(out, "Run directory: %s\n", run.RunDir)
	if run.AudioRoot != "" {
		fmt.Fprintf(out, "Audio root: %s\n", run.AudioRoot)
	}
	if run.Backend != "" {
		fmt.Fprintf(out, "Backend: %s\n", run.Backend)
	}
	fmt.Fprintf(out, "Started: %s\n", run.StartedAt.Local().Format(runTimeLayout))
	if run.FinishedAt != nil {
		fmt.Fprintf(out, "Finished: %s (%s)\n", run.FinishedAt.Local().Format(runTimeLayout), formatElapsed(run))
	}
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "Error: %s\n", run.ErrorMessage)
	}
}

func printUnitsTable(out io.Writer, units []ledger.UnitEntry) {
	columns := []tableColumn{
		{Header: "Identifier"},
		{Header: "Channel"},
		{Header: "Outcome"},
		{Header: "Elapsed", Align: alignRight},
		{Header: "Transcript", MaxWidth: transcriptColumnWidth},
	}
	rows := make([][]string, 0, len(units))
	for _, unit := range units {
		rows = append(rows, []string{
			unit.Identifier,
			unit.Channel,
			unit.Outcome,
			unit.Elapsed.Round(time.Millisecond).String(),
			textutil.Preview(unit.RawText, transcriptColumnWidth*3),
		})
	}
	fmt.Fprintln(out, renderTable(columns, rows))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatElapsed(run ledger.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.Elapsed().Round(time.Second).String()
}
