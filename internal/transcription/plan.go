package transcription

import (
	"fmt"

	goaudio "github.com/go-audio/audio"

	"orchive/internal/archive"
	"orchive/internal/audio"
)

// Channel is the origin of a unit's signal.
type Channel string

const (
	ChannelMono  Channel = "mono"
	ChannelLeft  Channel = "left"
	ChannelRight Channel = "right"
)

// Role orders units within a file. Secondary units depend on the primary
// unit's result.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// Identifier suffixes appended to the file base name.
const (
	suffixMono  = "_mono"
	suffixLeft  = "_L"
	suffixRight = "_R"
)

// Unit is one mono signal to transcribe. For mono files AudioPath is the
// source recording; stereo units carry a split Signal that the runner writes
// to scratch storage before transcription.
type Unit struct {
	Identifier string
	Channel    Channel
	Role       Role
	Signal     *goaudio.IntBuffer
	AudioPath  string
}

// Plan returns the ordered units for file. Mono files yield one primary unit;
// stereo files yield left (primary) then right (secondary).
func Plan(file archive.AudioFile, cls audio.Classification) ([]Unit, error) {
	base := file.Location.Base
	if base == "" {
		return nil, fmt.Errorf("%w: %s: empty base name", archive.ErrMalformedInputPath, file.Path)
	}
	switch cls.Layout {
	case audio.LayoutMono:
		if cls.Mono == nil {
			return nil, fmt.Errorf("plan %s: mono classification without signal", file.Path)
		}
		return []Unit{{
			Identifier: base + suffixMono,
			Channel:    ChannelMono,
			Role:       RolePrimary,
			Signal:     cls.Mono,
			AudioPath:  file.Path,
		}}, nil
	case audio.LayoutStereo:
		if cls.Left == nil || cls.Right == nil {
			return nil, fmt.Errorf("plan %s: stereo classification without both channels", file.Path)
		}
		return []Unit{
			{Identifier: base + suffixLeft, Channel: ChannelLeft, Role: RolePrimary, Signal: cls.Left},
			{Identifier: base + suffixRight, Channel: ChannelRight, Role: RoleSecondary, Signal: cls.Right},
		}, nil
	default:
		return nil, fmt.Errorf("plan %s: unknown layout %q", file.Path, cls.Layout)
	}
}
