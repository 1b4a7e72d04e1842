package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrMalformedInputPath reports a path that lacks the year/tape/file layout.
var ErrMalformedInputPath = errors.New("malformed input path")

// Location is the structured position of a recording within the archive.
type Location struct {
	Year string
	Tape string
	// File is the file name including its extension.
	File string
	// Base is File without its extension; unit identifiers derive from it.
	Base string
}

// Dir returns the year/tape directory relative to an archive or run root.
func (l Location) Dir() string {
	return filepath.Join(l.Year, l.Tape)
}

// Decompose splits the last three elements of path into year, tape and file.
func Decompose(path string) (Location, error) {
	parts := splitPath(filepath.Clean(path))
	if len(parts) < 3 {
		return Location{}, fmt.Errorf("%w: %s: expected year/tape/file, found %d path elements", ErrMalformedInputPath, path, len(parts))
	}
	return newLocation(path, parts[len(parts)-3:])
}

// DecomposeUnder decomposes path relative to root, requiring the file to sit
// exactly at root/year/tape/file.
func DecomposeUnder(root, path string) (Location, error) {
	if root == "" {
		return Decompose(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %s: %v", ErrMalformedInputPath, path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Location{}, fmt.Errorf("%w: %s is outside archive root %s", ErrMalformedInputPath, path, root)
	}
	parts := splitPath(rel)
	if len(parts) != 3 {
		return Location{}, fmt.Errorf("%w: %s: expected root/year/tape/file, found %d levels below %s", ErrMalformedInputPath, path, len(parts), root)
	}
	return newLocation(path, parts)
}

func newLocation(path string, parts []string) (Location, error) {
	file := parts[2]
	base := strings.TrimSuffix(file, filepath.Ext(file))
	if base == "" {
		return Location{}, fmt.Errorf("%w: %s: empty file name", ErrMalformedInputPath, path)
	}
	return Location{Year: parts[0], Tape: parts[1], File: file, Base: base}, nil
}

func splitPath(path string) []string {
	raw := strings.Split(filepath.ToSlash(path), "/")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
