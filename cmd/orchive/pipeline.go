package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"orchive/internal/annotate"
	"orchive/internal/textutil"
	"orchive/internal/transcription"
	"orchive/internal/workflow"
)

// newManager wires the workflow manager for the current config. The returned
// cleanup closes the ledger.
func newManager(ctx *commandContext) (*workflow.Manager, func(), error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	store, err := ctx.openLedger()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}
	transcriber, err := newTranscriber(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return workflow.NewManager(cfg, store, transcriber, logger), cleanup, nil
}

func printRunReport(out io.Writer, report workflow.Report) {
	if report.RunDir == "" {
		fmt.Fprintln(out, "No audio files found; nothing transcribed")
		return
	}
	result := report.Result
	fmt.Fprintf(out, "Run directory: %s\n", report.RunDir)
	if report.RunID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", report.RunID)
	}
	fmt.Fprintf(out, "Status: %s\n", report.Status)
	fmt.Fprintf(out, "Files: %d processed, %d failed\n", result.Files-len(result.Failures), len(result.Failures))
	fmt.Fprintf(out, "Units: %d (%d transcribed, %d no speech, %d skipped for opposite channel)\n",
		len(result.Units),
		result.Count(transcription.OutcomeTranscribed),
		result.Count(transcription.OutcomeNoSpeech),
		result.Count(transcription.OutcomeSkippedOppositeChannel),
	)
	fmt.Fprintf(out, "Elapsed: %s\n", result.Elapsed.Round(time.Millisecond))
	for _, failure := range result.Failures {
		fmt.Fprintf(out, "  failed: %s (%v)\n", failure.Path, failure.Err)
	}
}

func printAnnotationSummary(out io.Writer, summary annotate.Summary, show bool) {
	fmt.Fprintf(out, "Summary: %s\n", summary.SummaryPath)
	fmt.Fprintf(out, "Transcripts: %d (%d with matriline codes, %d mentioning transients)\n",
		len(summary.Rows), summary.WithMatrilines(), summary.TransientMentions())
	if !show || len(summary.Rows) == 0 {
		return
	}
	columns := []tableColumn{
		{Header: "Identifier"},
		{Header: "Transcript", MaxWidth: transcriptColumnWidth},
		{Header: "Matrilines"},
		{Header: "Transient"},
	}
	rows := make([][]string, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		rows = append(rows, []string{
			row.Identifier,
			textutil.Preview(row.NormalizedText, transcriptColumnWidth*3),
			row.Matrilines(),
			yesNo(row.Transient),
		})
	}
	fmt.Fprintln(out, renderTable(columns, rows))
}

func trimArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}
