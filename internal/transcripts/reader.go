package transcripts

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover returns every per-unit transcript file under runDir, sorted
// lexicographically. Only files at year/tape/file depth are returned, so
// summaries and stray files at other levels are skipped.
func Discover(runDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(runDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if filepath.Ext(d.Name()) != unitFileExt || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(runDir, path)
		if err != nil {
			return err
		}
		if len(strings.Split(filepath.ToSlash(rel), "/")) != 3 {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover transcripts in %s: %w", runDir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadRecord reads the first data row of a per-unit transcript file.
func ReadRecord(path string) (Record, error) {
	rows, err := readTSV(path)
	if err != nil {
		return Record{}, fmt.Errorf("read transcript %s: %w", path, err)
	}
	if len(rows) == 0 {
		return Record{}, fmt.Errorf("%w: %s: missing header", ErrMalformedRow, path)
	}
	header := rows[0]
	filenameIdx := indexOf(header, ColumnFilename)
	if filenameIdx < 0 {
		return Record{}, fmt.Errorf("%w: %s: missing column %q", ErrMalformedRow, path, ColumnFilename)
	}
	rawIdx := indexOf(header, ColumnRawTranscript)
	if rawIdx < 0 {
		return Record{}, fmt.Errorf("%w: %s: missing column %q", ErrMalformedRow, path, ColumnRawTranscript)
	}
	if len(rows) < 2 {
		return Record{}, fmt.Errorf("%w: %s: no data row", ErrMalformedRow, path)
	}
	row := rows[1]
	if len(row) <= filenameIdx || len(row) <= rawIdx {
		return Record{}, fmt.Errorf("%w: %s row 1: expected %d columns, found %d", ErrMalformedRow, path, len(header), len(row))
	}
	rec := Record{Identifier: row[filenameIdx], RawText: row[rawIdx]}
	if strings.TrimSpace(rec.Identifier) == "" {
		return Record{}, fmt.Errorf("%w: %s row 1: empty %q", ErrMalformedRow, path, ColumnFilename)
	}
	if strings.TrimSpace(rec.RawText) == "" {
		return Record{}, fmt.Errorf("%w: %s row 1: empty %q", ErrMalformedRow, path, ColumnRawTranscript)
	}
	return rec, nil
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if strings.TrimSpace(v) == want {
			return i
		}
	}
	return -1
}
