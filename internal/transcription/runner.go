package transcription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orchive/internal/archive"
	"orchive/internal/asr"
	"orchive/internal/audio"
	"orchive/internal/logging"
	"orchive/internal/services"
	"orchive/internal/textutil"
	"orchive/internal/transcripts"
)

const (
	stageName          = "transcribe"
	previewLimit       = 120
	scratchAudioSuffix = ".wav"
)

// Sink persists transcript records.
type Sink interface {
	WriteUnit(loc archive.Location, rec transcripts.Record) (string, error)
}

// Observer receives run progress, e.g. to keep a ledger. Observer errors are
// logged and never fail the run.
type Observer interface {
	UnitCompleted(ctx context.Context, result UnitResult) error
	FileFailed(ctx context.Context, path string, err error) error
}

// Failure is a file that could not be transcribed.
type Failure struct {
	Path string
	Err  error
}

// Result summarises a transcription run.
type Result struct {
	Units    []UnitResult
	Failures []Failure
	Files    int
	Elapsed  time.Duration
}

// Count returns how many units finished with outcome.
func (r Result) Count(outcome Outcome) int {
	n := 0
	for _, unit := range r.Units {
		if unit.Outcome == outcome {
			n++
		}
	}
	return n
}

// Options configure a Runner.
type Options struct {
	// ArchiveRoot, when set, requires inputs to sit at root/year/tape/file.
	ArchiveRoot string
	// ScratchDir is the parent of per-file scratch directories.
	ScratchDir string
	// ContinueOnError records failed files and moves on instead of aborting.
	ContinueOnError bool
	Observer        Observer
	Logger          *slog.Logger
}

// Runner transcribes files sequentially.
type Runner struct {
	transcriber asr.Transcriber
	sink        Sink
	opts        Options
	logger      *slog.Logger
	now         func() time.Time
}

// NewRunner constructs a Runner.
func NewRunner(transcriber asr.Transcriber, sink Sink, opts Options) *Runner {
	return &Runner{
		transcriber: transcriber,
		sink:        sink,
		opts:        opts,
		logger:      logging.NewComponentLogger(opts.Logger, "transcriber"),
		now:         time.Now,
	}
}

// Run transcribes paths in order. Each file is decoded, planned, transcribed
// and persisted before the next begins. Unless ContinueOnError is set, the
// first failing file aborts the run and the error is returned together with
// the results completed so far.
func (r *Runner) Run(ctx context.Context, paths []string) (Result, error) {
	if r.transcriber == nil || r.sink == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, stageName, "run", "transcriber and sink are required", nil)
	}
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, r.logger)
	started := r.now()

	logger.Info("transcription started",
		logging.String(logging.FieldEventType, "transcribe_start"),
		logging.Int("files", len(paths)),
		logging.Bool("continue_on_error", r.opts.ContinueOnError),
	)

	var builder RecordBuilder
	result := Result{}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			result.Units = builder.Finish()
			result.Elapsed = r.now().Sub(started)
			return result, err
		}
		fileCtx := services.WithFile(ctx, path)
		fileLogger := logging.WithContext(fileCtx, r.logger)
		fileLogger.Info("processing file",
			logging.String(logging.FieldEventType, "file_start"),
			logging.String("progress", fmt.Sprintf("%d/%d", i+1, len(paths))),
		)

		fileStarted := r.now()
		units, err := r.processFile(fileCtx, path)
		result.Files++
		if err != nil {
			if ctx.Err() != nil {
				result.Units = builder.Finish()
				result.Elapsed = r.now().Sub(started)
				return result, ctx.Err()
			}
			r.notifyFailure(fileCtx, fileLogger, path, err)
			result.Failures = append(result.Failures, Failure{Path: path, Err: err})
			if !r.opts.ContinueOnError {
				result.Units = builder.Finish()
				result.Elapsed = r.now().Sub(started)
				return result, err
			}
			continue
		}
		if err := builder.Append(units...); err != nil {
			return result, err
		}
		fileLogger.Info("file complete",
			logging.String(logging.FieldEventType, "file_complete"),
			logging.Int("units", len(units)),
			logging.Duration(logging.FieldDuration, r.now().Sub(fileStarted)),
		)
	}

	result.Units = builder.Finish()
	result.Elapsed = r.now().Sub(started)
	logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcribe_complete"),
		logging.Int("files", result.Files),
		logging.Int("units", len(result.Units)),
		logging.Int("transcribed", result.Count(OutcomeTranscribed)),
		logging.Int("no_speech", result.Count(OutcomeNoSpeech)),
		logging.Int("skipped_opposite_channel", result.Count(OutcomeSkippedOppositeChannel)),
		logging.Int("failed_files", len(result.Failures)),
		logging.Duration(logging.FieldDuration, result.Elapsed),
	)
	return result, nil
}

// processFile runs one recording through decode, plan, transcription and
// persistence. Records are persisted only once every unit has a result.
func (r *Runner) processFile(ctx context.Context, path string) ([]UnitResult, error) {
	file, err := archive.DescribeUnder(r.opts.ArchiveRoot, path)
	if err != nil {
		return nil, classifyInputError("describe", path, err)
	}
	buf, err := audio.Decode(file.Path)
	if err != nil {
		return nil, classifyInputError("decode", path, err)
	}
	cls, err := audio.Classify(buf)
	if err != nil {
		return nil, classifyInputError("classify", path, err)
	}
	if ignored := cls.IgnoredChannels(); ignored > 0 {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "extra channels ignored", "channels_ignored",
			logging.Int("channels", cls.Channels),
			logging.Int("ignored", ignored),
			logging.String(logging.FieldImpact, "only channels 0 and 1 are transcribed"),
			logging.String(logging.FieldErrorHint, "downmix the recording if later channels carry distinct audio"),
		)
	}

	units, err := Plan(file, cls)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, stageName, "plan", path, err)
	}

	var results []UnitResult
	if cls.Layout == audio.LayoutMono {
		res, err := r.transcribeUnit(ctx, file, units[0])
		if err != nil {
			return nil, err
		}
		results = []UnitResult{res}
	} else {
		results, err = r.transcribePair(ctx, file, cls, units[0], units[1])
		if err != nil {
			return nil, err
		}
	}

	for i := range results {
		out, err := r.sink.WriteUnit(file.Location, results[i].Record)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, stageName, "persist", results[i].Record.Identifier, err)
		}
		results[i].OutputPath = out
		r.notifyUnit(ctx, results[i])
	}
	return results, nil
}

// transcribePair applies the stereo short-circuit to the left and right units.
func (r *Runner) transcribePair(ctx context.Context, file archive.AudioFile, cls audio.Classification, left, right Unit) ([]UnitResult, error) {
	scratch, err := audio.NewScratch(r.opts.ScratchDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, stageName, "scratch", file.Path, err)
	}
	defer func() {
		if err := scratch.Close(); err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, r.logger), "scratch cleanup failed", "scratch_cleanup",
				logging.Error(err),
				logging.String(logging.FieldImpact, "temporary channel audio left on disk"),
			)
		}
	}()

	policy := NewPairPolicy()

	if err := r.materialize(scratch, &left, cls.BitDepth); err != nil {
		return nil, err
	}
	primary, err := r.transcribeUnit(ctx, file, left)
	if err != nil {
		return nil, err
	}
	if err := policy.RecordPrimary(primary.NoSpeech()); err != nil {
		return nil, err
	}

	transcribeRight, err := policy.DecideSecondary()
	if err != nil {
		return nil, err
	}
	var secondary UnitResult
	if transcribeRight {
		if err := r.materialize(scratch, &right, cls.BitDepth); err != nil {
			return nil, err
		}
		secondary, err = r.transcribeUnit(ctx, file, right)
		if err != nil {
			return nil, err
		}
	} else {
		secondary = r.skipUnit(ctx, file, right)
	}
	if err := policy.RecordSecondary(); err != nil {
		return nil, err
	}
	return []UnitResult{primary, secondary}, nil
}

func (r *Runner) materialize(scratch *audio.Scratch, unit *Unit, bitDepth int) error {
	target := scratch.Path(unit.Identifier + scratchAudioSuffix)
	if err := audio.WriteMono(target, unit.Signal, bitDepth); err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, "split channel", unit.Identifier, err)
	}
	unit.AudioPath = target
	return nil
}

func (r *Runner) transcribeUnit(ctx context.Context, file archive.AudioFile, unit Unit) (UnitResult, error) {
	ctx = services.WithUnit(ctx, unit.Identifier)
	started := r.now()

	raw, err := r.transcriber.Transcribe(ctx, unit.AudioPath)
	if err != nil {
		if services.Marker(err) != nil {
			return UnitResult{}, fmt.Errorf("transcribe %s: %w", unit.Identifier, err)
		}
		return UnitResult{}, services.Wrap(services.ErrExternalTool, stageName, "asr", unit.Identifier, err)
	}

	text, noSpeech := asr.NormalizeResult(raw)
	outcome := OutcomeTranscribed
	if noSpeech {
		outcome = OutcomeNoSpeech
	}
	res := UnitResult{
		Record:     transcripts.Record{Identifier: unit.Identifier, RawText: text},
		SourcePath: file.Path,
		Location:   file.Location,
		Channel:    unit.Channel,
		Outcome:    outcome,
		Elapsed:    r.now().Sub(started),
	}
	r.logUnit(ctx, res)
	return res, nil
}

func (r *Runner) skipUnit(ctx context.Context, file archive.AudioFile, unit Unit) UnitResult {
	ctx = services.WithUnit(ctx, unit.Identifier)
	res := UnitResult{
		Record:     transcripts.Record{Identifier: unit.Identifier, RawText: OppositeChannelSpeech},
		SourcePath: file.Path,
		Location:   file.Location,
		Channel:    unit.Channel,
		Outcome:    OutcomeSkippedOppositeChannel,
	}
	r.logUnit(ctx, res)
	return res
}

func (r *Runner) logUnit(ctx context.Context, res UnitResult) {
	logging.WithContext(ctx, r.logger).Info("unit transcribed",
		logging.String(logging.FieldEventType, "unit_complete"),
		logging.String(logging.FieldChannel, string(res.Channel)),
		logging.String("outcome", string(res.Outcome)),
		logging.String("transcript", textutil.Preview(res.Record.RawText, previewLimit)),
		logging.Duration(logging.FieldDuration, res.Elapsed),
	)
}

func (r *Runner) notifyUnit(ctx context.Context, res UnitResult) {
	if r.opts.Observer == nil {
		return
	}
	if err := r.opts.Observer.UnitCompleted(ctx, res); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "ledger update failed", "ledger_unit",
			logging.String(logging.FieldUnit, res.Record.Identifier),
			logging.Error(err),
			logging.String(logging.FieldImpact, "unit missing from run history"),
		)
	}
}

func (r *Runner) notifyFailure(ctx context.Context, logger *slog.Logger, path string, err error) {
	impact := "run aborted"
	if r.opts.ContinueOnError {
		impact = "file skipped; no transcript written"
	}
	logging.ErrorWithContext(logger, "file failed", "file_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.ErrorHint(err)),
		logging.String(logging.FieldImpact, impact),
	)
	if r.opts.Observer == nil {
		return
	}
	if obsErr := r.opts.Observer.FileFailed(ctx, path, err); obsErr != nil {
		logging.WarnWithContext(logger, "ledger update failed", "ledger_failure",
			logging.Error(obsErr),
			logging.String(logging.FieldImpact, "failure missing from run history"),
		)
	}
}

func classifyInputError(op, path string, err error) error {
	if errors.Is(err, archive.ErrMalformedInputPath) || errors.Is(err, audio.ErrUnsupportedAudio) {
		return services.Wrap(services.ErrValidation, stageName, op, path, err)
	}
	return services.Wrap(services.ErrExternalTool, stageName, op, path, err)
}
