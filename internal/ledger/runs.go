package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	// StatusPartial marks a run that finished with per-file failures under continue_on_error.
	StatusPartial  Status = "partial"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// ErrRunNotFound is returned when no run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when an id prefix matches more than one run.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// RunInfo describes a run at start.
type RunInfo struct {
	RunDir    string
	AudioRoot string
	Backend   string
	Files     int
}

// Run is a persisted run row with aggregate counts.
type Run struct {
	ID           string
	Status       Status
	RunDir       string
	AudioRoot    string
	Backend      string
	FilesTotal   int
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
	UnitCount    int
	FailureCount int
}

// Elapsed reports the run duration, or zero while it is still running.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// BeginRun inserts a running row and returns its generated id.
func (l *Ledger) BeginRun(ctx context.Context, info RunInfo) (string, error) {
	id := uuid.NewString()
	_, err := l.exec(ctx, `INSERT INTO runs (id, status, run_dir, audio_root, backend, files_total, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		string(StatusRunning),
		info.RunDir,
		nullableString(info.AudioRoot),
		nullableString(info.Backend),
		info.Files,
		formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun records the terminal status of a run.
func (l *Ledger) FinishRun(ctx context.Context, runID string, status Status, errMsg string) error {
	res, err := l.exec(ctx, `UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(status),
		nullableString(errMsg),
		formatTime(time.Now()),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `r.id, r.status, r.run_dir, r.audio_root, r.backend, r.files_total, r.error_message,
    r.started_at, r.finished_at,
    (SELECT COUNT(1) FROM units u WHERE u.run_id = r.id),
    (SELECT COUNT(1) FROM failures f WHERE f.run_id = r.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		status     string
		audioRoot  sql.NullString
		backend    sql.NullString
		errMsg     sql.NullString
		startedAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(
		&run.ID, &status, &run.RunDir, &audioRoot, &backend, &run.FilesTotal, &errMsg,
		&startedAt, &finishedAt, &run.UnitCount, &run.FailureCount,
	); err != nil {
		return Run{}, err
	}
	run.Status = Status(status)
	run.AudioRoot = audioRoot.String
	run.Backend = backend.String
	run.ErrorMessage = errMsg.String
	if t, err := parseTimeString(startedAt); err == nil {
		run.StartedAt = t
	}
	run.FinishedAt = parseNullTime(finishedAt)
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs r ORDER BY r.started_at DESC, r.rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindRun looks up a run by full id or unique id prefix.
func (l *Ledger) FindRun(ctx context.Context, idOrPrefix string) (Run, error) {
	ctx = ensureContext(ctx)
	key := strings.TrimSpace(idOrPrefix)
	if key == "" {
		return Run{}, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	exact, err := scanRun(l.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, key))
	if err == nil {
		return exact, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("find run: %w", err)
	}

	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(key)
	rows, err := l.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r WHERE r.id LIKE ? ESCAPE '\' ORDER BY r.started_at DESC LIMIT 2`,
		escaped+"%",
	)
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, key)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, key)
	}
}
