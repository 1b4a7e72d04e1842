package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orchive/internal/annotate"
	"orchive/internal/archive"
	"orchive/internal/asr"
	"orchive/internal/config"
	"orchive/internal/ledger"
	"orchive/internal/logging"
	"orchive/internal/notifications"
	"orchive/internal/preflight"
	"orchive/internal/runlock"
	"orchive/internal/services"
	"orchive/internal/staging"
	"orchive/internal/transcription"
	"orchive/internal/transcripts"
)

// Manager runs the transcription and annotation stages against one config.
type Manager struct {
	cfg         *config.Config
	ledger      *ledger.Ledger
	transcriber asr.Transcriber
	notifier    notifications.Service
	logger      *slog.Logger
	now         func() time.Time
}

// RunOptions tune a single run.
type RunOptions struct {
	// SkipPreflight bypasses directory, binary and credential checks.
	SkipPreflight bool
	// Annotate writes the summary table once transcription succeeds.
	Annotate bool
}

// Report describes a finished run.
type Report struct {
	RunID      string
	RunDir     string
	Files      []string
	Status     ledger.Status
	Result     transcription.Result
	Annotation *annotate.Summary
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithClock overrides the clock used to name run directories (for testing).
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithNotifier overrides the notifier built from the config.
func WithNotifier(notifier notifications.Service) ManagerOption {
	return func(m *Manager) {
		if notifier != nil {
			m.notifier = notifier
		}
	}
}

// NewManager constructs a Manager. The ledger may be nil when run history is disabled.
func NewManager(cfg *config.Config, store *ledger.Ledger, transcriber asr.Transcriber, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:         cfg,
		ledger:      store,
		transcriber: transcriber,
		notifier:    notifications.NewService(cfg),
		logger:      logging.NewComponentLogger(logger, "workflow-manager"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transcribe runs one transcription pass over the configured archive.
//
// A run directory is created only when at least one file is discovered. The
// returned Report is populated as far as the run progressed even when an
// error is returned.
func (m *Manager) Transcribe(ctx context.Context, opts RunOptions) (Report, error) {
	if m.cfg == nil || m.transcriber == nil {
		return Report{}, services.Wrap(services.ErrConfiguration, "workflow", "transcribe", "config and transcriber are required", nil)
	}
	logger := logging.WithContext(ctx, m.logger)

	if !opts.SkipPreflight {
		if err := m.runPreflightChecks(ctx, logger); err != nil {
			return Report{}, err
		}
	}

	lock, err := runlock.Acquire(m.cfg.Paths.OutputDir)
	if err != nil {
		if errors.Is(err, runlock.ErrLocked) {
			return Report{}, services.Wrap(services.ErrValidation, "workflow", "lock output", m.cfg.Paths.OutputDir, err)
		}
		return Report{}, services.Wrap(services.ErrConfiguration, "workflow", "lock output", m.cfg.Paths.OutputDir, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(logger, "run lock release failed", "lock_release",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run may report the output directory as locked"),
			)
		}
	}()

	if m.cfg.Paths.ScratchDir != "" {
		staging.CleanStale(ctx, m.cfg.Paths.ScratchDir, staging.DefaultMaxAge, m.logger)
	}

	files, err := archive.Discover(m.cfg.Paths.AudioRoot, m.cfg.Discovery.Pattern)
	if err != nil {
		return Report{}, services.Wrap(services.ErrValidation, "workflow", "discover", m.cfg.Paths.AudioRoot, err)
	}
	report := Report{Files: files}
	if len(files) == 0 {
		logging.WarnWithContext(logger, "no audio files discovered", "discover_empty",
			logging.String("audio_root", m.cfg.Paths.AudioRoot),
			logging.String("pattern", m.cfg.Discovery.Pattern),
			logging.String(logging.FieldImpact, "nothing to transcribe"),
			logging.String(logging.FieldErrorHint, "check paths.audio_root and discovery.pattern"),
		)
		report.Status = ledger.StatusCompleted
		return report, nil
	}

	runDir, err := transcripts.NewRunDir(m.cfg.Paths.OutputDir, m.now())
	if err != nil {
		return report, services.Wrap(services.ErrConfiguration, "workflow", "create run dir", m.cfg.Paths.OutputDir, err)
	}
	report.RunDir = runDir.Path()

	var observer transcription.Observer
	if m.ledger != nil {
		runID, err := m.ledger.BeginRun(ctx, ledger.RunInfo{
			RunDir:    runDir.Path(),
			AudioRoot: m.cfg.Paths.AudioRoot,
			Backend:   m.cfg.Transcription.Backend,
			Files:     len(files),
		})
		if err != nil {
			return report, services.Wrap(services.ErrConfiguration, "workflow", "begin run", m.ledger.Path(), err)
		}
		report.RunID = runID
		ctx = services.WithRunID(ctx, runID)
		observer = newLedgerObserver(m.ledger, runID)
	}
	logger = logging.WithContext(ctx, m.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("run_dir", runDir.Path()),
		logging.Int("files", len(files)),
		logging.String("backend", m.cfg.Transcription.Backend),
	)

	runner := transcription.NewRunner(m.transcriber, runDir, transcription.Options{
		ArchiveRoot:     m.cfg.Paths.AudioRoot,
		ScratchDir:      m.cfg.Paths.ScratchDir,
		ContinueOnError: m.cfg.Transcription.ContinueOnError,
		Observer:        observer,
		Logger:          m.logger,
	})
	result, runErr := runner.Run(ctx, files)
	report.Result = result
	report.Status = runStatus(ctx, result, runErr)
	m.finishRun(ctx, logger, report.RunID, report.Status, runErr)
	m.notifyRun(ctx, logger, report, runErr)
	if runErr != nil {
		return report, runErr
	}

	if opts.Annotate {
		summary, err := m.Annotate(ctx, runDir.Path())
		if err != nil {
			return report, err
		}
		report.Annotation = &summary
	}
	return report, nil
}

// Annotate writes the summary table for an existing run directory.
func (m *Manager) Annotate(ctx context.Context, runDir string) (annotate.Summary, error) {
	annotator := annotate.NewAnnotator(m.logger)
	annotator.WithClock(m.now)
	summary, err := annotator.Run(ctx, runDir)
	if err != nil {
		return summary, err
	}
	m.publish(ctx, logging.WithContext(ctx, m.logger), notifications.EventAnnotationCompleted, notifications.Payload{
		"runDir":      summary.RunDir,
		"transcripts": len(summary.Rows),
		"withCodes":   summary.WithMatrilines(),
		"transients":  summary.TransientMentions(),
	})
	return summary, nil
}

func (m *Manager) notifyRun(ctx context.Context, logger *slog.Logger, report Report, runErr error) {
	if report.Status == ledger.StatusCanceled {
		return
	}
	if runErr != nil {
		m.publish(ctx, logger, notifications.EventRunFailed, notifications.Payload{
			"runDir": report.RunDir,
			"error":  runErr.Error(),
		})
		return
	}
	m.publish(ctx, logger, notifications.EventRunCompleted, notifications.Payload{
		"runDir":  report.RunDir,
		"status":  string(report.Status),
		"files":   len(report.Files),
		"failed":  len(report.Result.Failures),
		"elapsed": report.Result.Elapsed,
	})
}

// publish never fails the run; delivery problems are logged.
func (m *Manager) publish(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run result unaffected"),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}

func runStatus(ctx context.Context, result transcription.Result, runErr error) ledger.Status {
	switch {
	case runErr == nil && len(result.Failures) == 0:
		return ledger.StatusCompleted
	case runErr == nil:
		return ledger.StatusPartial
	case errors.Is(runErr, context.Canceled) || ctx.Err() != nil:
		return ledger.StatusCanceled
	default:
		return ledger.StatusFailed
	}
}

func (m *Manager) finishRun(ctx context.Context, logger *slog.Logger, runID string, status ledger.Status, runErr error) {
	if m.ledger == nil || runID == "" {
		return
	}
	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}
	// The run context may already be canceled; the terminal status must still land.
	if err := m.ledger.FinishRun(context.WithoutCancel(ctx), runID, status, errMsg); err != nil {
		logging.WarnWithContext(logger, "ledger update failed", "ledger_finish",
			logging.Error(err),
			logging.String("status", string(status)),
			logging.String(logging.FieldImpact, "run stays marked running in history"),
		)
		return
	}
	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_finish"),
		logging.String("status", string(status)),
	)
}

// runPreflightChecks returns nil when all required checks pass, or an error describing all failures.
func (m *Manager) runPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	results := preflight.Check(ctx, m.cfg)
	for _, r := range results {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		if r.Optional {
			logging.WarnWithContext(logger, "optional preflight check failed", "preflight_optional",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldImpact, "run continues"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "run `orchive doctor` and fix the reported issue"),
		)
	}

	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	failures := make([]string, 0, len(failed))
	for _, r := range failed {
		failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "workflow", "preflight",
		"checks failed: "+strings.Join(failures, "; "), nil)
}
