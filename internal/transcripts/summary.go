package transcripts

import (
	"fmt"
	"strconv"
)

// SummaryRow is one annotated transcript in the summary file.
type SummaryRow struct {
	Identifier     string
	RawText        string
	NormalizedText string
	Matrilines     string
	Transient      bool
}

// summaryHeader leads with an unnamed row-index column.
var summaryHeader = []string{"", ColumnFilename, ColumnRawTranscript, ColumnTranscript, ColumnMatrilines, ColumnTransients}

// WriteSummary writes rows to path in the given order, prefixed with a
// zero-based row index.
func WriteSummary(path string, rows []SummaryRow) error {
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		out = append(out, []string{
			strconv.Itoa(i),
			row.Identifier,
			row.RawText,
			row.NormalizedText,
			row.Matrilines,
			strconv.FormatBool(row.Transient),
		})
	}
	if err := writeTSV(path, summaryHeader, out); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// ReadSummary parses a summary file written by WriteSummary.
func ReadSummary(path string) ([]SummaryRow, error) {
	rows, err := readTSV(path)
	if err != nil {
		return nil, fmt.Errorf("read summary %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header", ErrMalformedRow, path)
	}
	out := make([]SummaryRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(summaryHeader) {
			return nil, fmt.Errorf("%w: %s row %d: expected %d columns, found %d", ErrMalformedRow, path, i+1, len(summaryHeader), len(row))
		}
		transient, err := strconv.ParseBool(row[5])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: transients %q", ErrMalformedRow, path, i+1, row[5])
		}
		out = append(out, SummaryRow{
			Identifier:     row[1],
			RawText:        row[2],
			NormalizedText: row[3],
			Matrilines:     row[4],
			Transient:      transient,
		})
	}
	return out, nil
}
