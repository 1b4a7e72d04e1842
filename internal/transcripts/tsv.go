package transcripts

import (
	"encoding/csv"
	"io"
	"os"

	"orchive/internal/fileutil"
)

func newTSVWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	return writer
}

func newTSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	return reader
}

func writeTSV(path string, header []string, rows [][]string) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		writer := newTSVWriter(w)
		if err := writer.Write(header); err != nil {
			return err
		}
		if err := writer.WriteAll(rows); err != nil {
			return err
		}
		return writer.Error()
	})
}

func readTSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return newTSVReader(file).ReadAll()
}
