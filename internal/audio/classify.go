package audio

import (
	"fmt"

	goaudio "github.com/go-audio/audio"
)

// Layout is the channel layout of a recording.
type Layout string

const (
	LayoutMono   Layout = "mono"
	LayoutStereo Layout = "stereo"
)

// LayoutForChannels maps a channel count to a layout. Any count of two or
// more is stereo.
func LayoutForChannels(channels int) Layout {
	if channels >= 2 {
		return LayoutStereo
	}
	return LayoutMono
}

// Classification is the result of splitting a decoded buffer.
type Classification struct {
	Layout     Layout
	SampleRate int
	BitDepth   int
	// Channels is the channel count of the source buffer, including any
	// channels beyond the first two that were ignored.
	Channels int
	// Mono is the unchanged source buffer for mono input.
	Mono *goaudio.IntBuffer
	// Left and Right hold channels 0 and 1 of a stereo buffer.
	Left  *goaudio.IntBuffer
	Right *goaudio.IntBuffer
}

// IgnoredChannels returns how many source channels Classify dropped.
func (c Classification) IgnoredChannels() int {
	if c.Channels <= 2 {
		return 0
	}
	return c.Channels - 2
}

// Classify reports whether buf is mono or stereo. Mono buffers are returned
// as-is; stereo buffers are split into independent left and right mono
// buffers. buf is never modified.
func Classify(buf *goaudio.IntBuffer) (Classification, error) {
	if buf == nil || buf.Format == nil {
		return Classification{}, fmt.Errorf("%w: buffer has no format", ErrUnsupportedAudio)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return Classification{}, fmt.Errorf("%w: buffer reports %d channels", ErrUnsupportedAudio, channels)
	}

	result := Classification{
		Layout:     LayoutForChannels(channels),
		SampleRate: buf.Format.SampleRate,
		BitDepth:   buf.SourceBitDepth,
		Channels:   channels,
	}
	if result.Layout == LayoutMono {
		result.Mono = buf
		return result, nil
	}
	result.Left = extractChannel(buf, 0)
	result.Right = extractChannel(buf, 1)
	return result, nil
}

// extractChannel copies one channel out of an interleaved buffer. A trailing
// partial frame is dropped.
func extractChannel(buf *goaudio.IntBuffer, channel int) *goaudio.IntBuffer {
	stride := buf.Format.NumChannels
	frames := len(buf.Data) / stride
	data := make([]int, frames)
	for i := 0; i < frames; i++ {
		data[i] = buf.Data[i*stride+channel]
	}
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: buf.Format.SampleRate},
		Data:           data,
		SourceBitDepth: buf.SourceBitDepth,
	}
}
