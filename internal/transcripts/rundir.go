package transcripts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"orchive/internal/archive"
)

// RunDir is the timestamped output directory of one transcription run.
type RunDir struct {
	path string
}

// NewRunDir creates outputDir/YYYYMMDD_HHMMSS for a run started at now.
func NewRunDir(outputDir string, now time.Time) (*RunDir, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("run dir: output directory is required")
	}
	path := filepath.Join(outputDir, Timestamp(now))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	return &RunDir{path: path}, nil
}

// OpenRunDir returns an existing run directory.
func OpenRunDir(path string) (*RunDir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open run dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open run dir: %s is not a directory", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open run dir: %w", err)
	}
	return &RunDir{path: abs}, nil
}

// Path returns the run directory location.
func (d *RunDir) Path() string {
	return d.path
}

// UnitPath returns where the record for identifier under loc is stored.
func (d *RunDir) UnitPath(loc archive.Location, identifier string) string {
	return filepath.Join(d.path, loc.Year, loc.Tape, identifier+unitFileExt)
}

// WriteUnit persists rec as a one-row file and returns its path.
func (d *RunDir) WriteUnit(loc archive.Location, rec Record) (string, error) {
	if rec.Identifier == "" {
		return "", fmt.Errorf("write unit: identifier is required")
	}
	if rec.RawText == "" {
		return "", fmt.Errorf("write unit %s: raw text must not be empty", rec.Identifier)
	}
	path := d.UnitPath(loc, rec.Identifier)
	header := []string{ColumnFilename, ColumnRawTranscript}
	if err := writeTSV(path, header, [][]string{{rec.Identifier, rec.RawText}}); err != nil {
		return "", fmt.Errorf("write unit %s: %w", rec.Identifier, err)
	}
	return path, nil
}

// SummaryPath returns the summary file location for an annotation pass at now.
func (d *RunDir) SummaryPath(now time.Time) string {
	return filepath.Join(d.path, "processedTranscripts_"+Timestamp(now)+unitFileExt)
}

// ErrNoRuns reports an output directory without any run directories.
var ErrNoRuns = errors.New("no run directories found")

// LatestRunDir returns the most recent run directory under outputDir. Only
// directories named with TimestampLayout are considered.
func LatestRunDir(outputDir string) (*RunDir, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	latest := ""
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := time.ParseInLocation(TimestampLayout, entry.Name(), time.Local); err != nil {
			continue
		}
		// The layout sorts lexically in time order.
		if entry.Name() > latest {
			latest = entry.Name()
		}
	}
	if latest == "" {
		return nil, fmt.Errorf("%w in %s", ErrNoRuns, outputDir)
	}
	return OpenRunDir(filepath.Join(outputDir, latest))
}
