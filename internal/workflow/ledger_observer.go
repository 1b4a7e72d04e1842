package workflow

import (
	"context"

	"orchive/internal/ledger"
	"orchive/internal/transcription"
)

// ledgerObserver mirrors runner progress into the run ledger.
type ledgerObserver struct {
	ledger *ledger.Ledger
	runID  string
}

func newLedgerObserver(l *ledger.Ledger, runID string) *ledgerObserver {
	return &ledgerObserver{ledger: l, runID: runID}
}

func (o *ledgerObserver) UnitCompleted(ctx context.Context, result transcription.UnitResult) error {
	return o.ledger.RecordUnit(ctx, o.runID, ledger.UnitEntry{
		Identifier: result.Record.Identifier,
		SourcePath: result.SourcePath,
		Channel:    string(result.Channel),
		Outcome:    string(result.Outcome),
		RawText:    result.Record.RawText,
		OutputPath: result.OutputPath,
		Elapsed:    result.Elapsed,
	})
}

func (o *ledgerObserver) FileFailed(ctx context.Context, path string, err error) error {
	return o.ledger.RecordFailure(context.WithoutCancel(ctx), o.runID, path, err)
}
