package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// UnitEntry is one persisted transcription unit.
type UnitEntry struct {
	Identifier string
	SourcePath string
	Channel    string
	Outcome    string
	RawText    string
	OutputPath string
	Elapsed    time.Duration
	RecordedAt time.Time
}

// FailureEntry is one failed source file.
type FailureEntry struct {
	SourcePath   string
	ErrorMessage string
	RecordedAt   time.Time
}

// RecordUnit appends a unit to a run. Recording the same identifier twice replaces the earlier row.
func (l *Ledger) RecordUnit(ctx context.Context, runID string, unit UnitEntry) error {
	if strings.TrimSpace(unit.Identifier) == "" {
		return fmt.Errorf("record unit: identifier is required")
	}
	_, err := l.exec(ctx, `INSERT INTO units
        (run_id, identifier, source_path, channel, outcome, raw_text, output_path, elapsed_ms, recorded_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id, identifier) DO UPDATE SET
            source_path = excluded.source_path,
            channel = excluded.channel,
            outcome = excluded.outcome,
            raw_text = excluded.raw_text,
            output_path = excluded.output_path,
            elapsed_ms = excluded.elapsed_ms,
            recorded_at = excluded.recorded_at`,
		runID,
		unit.Identifier,
		unit.SourcePath,
		unit.Channel,
		unit.Outcome,
		unit.RawText,
		nullableString(unit.OutputPath),
		unit.Elapsed.Milliseconds(),
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("record unit %s: %w", unit.Identifier, err)
	}
	return nil
}

// RecordFailure appends a failed file to a run.
func (l *Ledger) RecordFailure(ctx context.Context, runID, sourcePath string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	_, err := l.exec(ctx, `INSERT INTO failures (run_id, source_path, error_message, recorded_at) VALUES (?, ?, ?, ?)`,
		runID, sourcePath, msg, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("record failure %s: %w", sourcePath, err)
	}
	return nil
}

// Units returns the units of a run in insertion order.
func (l *Ledger) Units(ctx context.Context, runID string) ([]UnitEntry, error) {
	ctx = ensureContext(ctx)
	rows, err := l.db.QueryContext(ctx, `SELECT identifier, source_path, channel, outcome, raw_text,
        output_path, elapsed_ms, recorded_at FROM units WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []UnitEntry
	for rows.Next() {
		var (
			unit       UnitEntry
			outputPath sql.NullString
			elapsedMS  int64
			recordedAt string
		)
		if err := rows.Scan(&unit.Identifier, &unit.SourcePath, &unit.Channel, &unit.Outcome,
			&unit.RawText, &outputPath, &elapsedMS, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		unit.OutputPath = outputPath.String
		unit.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if t, err := parseTimeString(recordedAt); err == nil {
			unit.RecordedAt = t
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

// Failures returns the failed files of a run in insertion order.
func (l *Ledger) Failures(ctx context.Context, runID string) ([]FailureEntry, error) {
	ctx = ensureContext(ctx)
	rows, err := l.db.QueryContext(ctx,
		`SELECT source_path, error_message, recorded_at FROM failures WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var failures []FailureEntry
	for rows.Next() {
		var (
			entry      FailureEntry
			recordedAt string
		)
		if err := rows.Scan(&entry.SourcePath, &entry.ErrorMessage, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		if t, err := parseTimeString(recordedAt); err == nil {
			entry.RecordedAt = t
		}
		failures = append(failures, entry)
	}
	return failures, rows.Err()
}
