package archive

import (
	"fmt"
	"path/filepath"

	"orchive/internal/audio"
)

// AudioFile describes one discovered recording. It is never mutated after
// Describe returns it.
type AudioFile struct {
	Path       string
	Location   Location
	Layout     audio.Layout
	Channels   int
	SampleRate int
	BitDepth   int
}

// Describe decomposes path and reads its WAV header.
func Describe(path string) (AudioFile, error) {
	return DescribeUnder("", path)
}

// DescribeUnder is Describe with the year/tape/file depth checked relative to root.
func DescribeUnder(root, path string) (AudioFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return AudioFile{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	loc, err := DecomposeUnder(root, abs)
	if err != nil {
		return AudioFile{}, err
	}
	header, err := audio.Probe(abs)
	if err != nil {
		return AudioFile{}, err
	}
	return AudioFile{
		Path:       abs,
		Location:   loc,
		Layout:     audio.LayoutForChannels(header.Channels),
		Channels:   header.Channels,
		SampleRate: header.SampleRate,
		BitDepth:   header.BitDepth,
	}, nil
}
