package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	maxLineBytes        = 1024 * 1024
)

// TailOptions controls Tail.
type TailOptions struct {
	// Lines is how many trailing lines to print first. Zero prints none.
	Lines int
	// Follow keeps reading appended lines until ctx is done.
	Follow bool
	// Poll is the follow-mode polling interval.
	Poll time.Duration
	// Match keeps only lines containing this substring.
	Match string
}

// Tail writes the end of the log at path to w. A missing file prints nothing
// and, in follow mode, is waited for.
func Tail(ctx context.Context, path string, w io.Writer, opts TailOptions) error {
	offset, err := writeLastLines(path, w, opts)
	if err != nil {
		return err
	}
	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
		offset, err = writeFrom(path, offset, w, opts.Match)
		if err != nil {
			return err
		}
	}
}

// writeLastLines prints the trailing lines and returns the end offset.
func writeLastLines(path string, w io.Writer, opts TailOptions) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("log path %q is a directory", path)
	}
	if opts.Lines <= 0 {
		return info.Size(), nil
	}

	ring := make([]string, opts.Lines)
	count := 0
	next := 0
	consumed, err := scanLines(file, func(line string) {
		if !matches(line, opts.Match) {
			return
		}
		ring[next] = line
		next = (next + 1) % len(ring)
		if count < len(ring) {
			count++
		}
	})
	if err != nil {
		return 0, err
	}

	start := 0
	if count == len(ring) {
		start = next
	}
	for i := 0; i < count; i++ {
		if _, err := fmt.Fprintln(w, ring[(start+i)%len(ring)]); err != nil {
			return 0, err
		}
	}
	return consumed, nil
}

// writeFrom prints complete lines appended after offset and returns the new
// offset. A truncated file restarts from the beginning.
func writeFrom(path string, offset int64, w io.Writer, match string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}

	var writeErr error
	consumed, err := scanLines(file, func(line string) {
		if writeErr != nil || !matches(line, match) {
			return
		}
		_, writeErr = fmt.Fprintln(w, line)
	})
	if err != nil {
		return offset, err
	}
	if writeErr != nil {
		return offset, writeErr
	}
	return offset + consumed, nil
}

// scanLines calls fn for every newline-terminated line and returns the bytes
// consumed. A trailing partial line is left for the next read.
func scanLines(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			consumed += int64(len(line))
			if len(line) > maxLineBytes {
				line = line[:maxLineBytes]
			}
			fn(strings.TrimRight(line, "\r\n"))
			continue
		}
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		return consumed, fmt.Errorf("read log file: %w", err)
	}
}

func matches(line, match string) bool {
	return match == "" || strings.Contains(line, match)
}
