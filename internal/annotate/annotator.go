package annotate

import (
	"context"
	"log/slog"
	"time"

	"orchive/internal/logging"
	"orchive/internal/services"
	"orchive/internal/textutil"
	"orchive/internal/transcripts"
)

const stageName = "annotate"

// Summary describes one completed annotation pass.
type Summary struct {
	RunDir      string
	SummaryPath string
	Rows        []AnnotatedTranscript
	Elapsed     time.Duration
}

// WithMatrilines counts transcripts with at least one matriline code.
func (s Summary) WithMatrilines() int {
	n := 0
	for _, row := range s.Rows {
		if len(row.MatrilineCodes) > 0 {
			n++
		}
	}
	return n
}

// TransientMentions counts transcripts whose transient flag is set.
func (s Summary) TransientMentions() int {
	n := 0
	for _, row := range s.Rows {
		if row.Transient {
			n++
		}
	}
	return n
}

// Annotator reads every transcript in a run directory and writes the summary.
type Annotator struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewAnnotator constructs an Annotator. A nil logger discards output.
func NewAnnotator(logger *slog.Logger) *Annotator {
	return &Annotator{
		logger: logging.NewComponentLogger(logger, "annotator"),
		now:    time.Now,
	}
}

// WithClock overrides the clock used to name the summary file (for testing).
func (a *Annotator) WithClock(now func() time.Time) {
	a.now = now
}

// Run annotates every transcript under runDir in lexicographic path order and
// writes processedTranscripts_{timestamp}.csv into runDir. A malformed
// transcript aborts the pass before any summary is written.
func (a *Annotator) Run(ctx context.Context, runDir string) (Summary, error) {
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, a.logger)
	started := a.now()

	dir, err := transcripts.OpenRunDir(runDir)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrNotFound, stageName, "open run dir", runDir, err)
	}
	paths, err := transcripts.Discover(dir.Path())
	if err != nil {
		return Summary{}, services.Wrap(services.ErrExternalTool, stageName, "discover transcripts", dir.Path(), err)
	}
	logger.Info("annotation started",
		logging.String(logging.FieldEventType, "annotate_start"),
		logging.String("run_dir", dir.Path()),
		logging.Int("transcripts", len(paths)),
	)

	rows := make([]AnnotatedTranscript, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		rec, err := transcripts.ReadRecord(path)
		if err != nil {
			logging.ErrorWithContext(logger, "transcript rejected", "transcript_malformed",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "re-run transcription for this file; the row violates the transcript format"),
			)
			return Summary{}, services.Wrap(services.ErrValidation, stageName, "read transcript", path, err)
		}
		annotated := Annotate(rec)
		rows = append(rows, annotated)
		logger.Debug("transcript annotated",
			logging.String(logging.FieldUnit, annotated.Identifier),
			logging.String("normalized", textutil.Preview(annotated.NormalizedText, 80)),
			logging.String("matrilines", annotated.Matrilines()),
			logging.Bool("transient", annotated.Transient),
		)
	}

	summaryPath := dir.SummaryPath(a.now())
	summaryRows := make([]transcripts.SummaryRow, 0, len(rows))
	for _, row := range rows {
		summaryRows = append(summaryRows, row.SummaryRow())
	}
	if err := transcripts.WriteSummary(summaryPath, summaryRows); err != nil {
		return Summary{}, services.Wrap(services.ErrExternalTool, stageName, "write summary", summaryPath, err)
	}

	summary := Summary{
		RunDir:      dir.Path(),
		SummaryPath: summaryPath,
		Rows:        rows,
		Elapsed:     a.now().Sub(started),
	}
	logger.Info("annotation complete",
		logging.String(logging.FieldEventType, "annotate_complete"),
		logging.String("summary", summaryPath),
		logging.Int("transcripts", len(rows)),
		logging.Int("with_matrilines", summary.WithMatrilines()),
		logging.Int("transient_mentions", summary.TransientMentions()),
		logging.Duration(logging.FieldDuration, summary.Elapsed),
	)
	return summary, nil
}
