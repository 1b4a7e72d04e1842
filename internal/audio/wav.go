package audio

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedAudio reports a file that is not a readable PCM WAV recording.
var ErrUnsupportedAudio = errors.New("unsupported audio")

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
	defaultBitDepth     = 16
)

// Header captures the stream properties read from a WAV header.
type Header struct {
	Channels   int
	SampleRate int
	BitDepth   int
}

// Probe reads only the WAV header of path.
func Probe(path string) (Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if err := validate(decoder, path); err != nil {
		return Header{}, err
	}
	return Header{
		Channels:   int(decoder.NumChans),
		SampleRate: int(decoder.SampleRate),
		BitDepth:   int(decoder.BitDepth),
	}, nil
}

// Decode reads the full PCM payload of path into an interleaved buffer.
func Decode(path string) (*goaudio.IntBuffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if err := validate(decoder, path); err != nil {
		return nil, err
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf.Format == nil {
		buf.Format = &goaudio.Format{NumChannels: int(decoder.NumChans), SampleRate: int(decoder.SampleRate)}
	}
	if buf.SourceBitDepth == 0 {
		buf.SourceBitDepth = int(decoder.BitDepth)
	}
	return buf, nil
}

func validate(decoder *wav.Decoder, path string) error {
	decoder.ReadInfo()
	if err := decoder.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedAudio, path, err)
	}
	if !decoder.IsValidFile() {
		return fmt.Errorf("%w: %s: not a valid wav file", ErrUnsupportedAudio, path)
	}
	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return fmt.Errorf("%w: %s: wav format %d is not integer pcm", ErrUnsupportedAudio, path, decoder.WavAudioFormat)
	}
	return nil
}

// WriteMono encodes a single-channel buffer as a PCM WAV file at path. A
// bitDepth of zero keeps the buffer's source depth.
func WriteMono(path string, buf *goaudio.IntBuffer, bitDepth int) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("write %s: empty buffer", path)
	}
	if buf.Format.NumChannels != 1 {
		return fmt.Errorf("write %s: expected mono buffer, got %d channels", path, buf.Format.NumChannels)
	}
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = defaultBitDepth
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	encoder := wav.NewEncoder(file, buf.Format.SampleRate, bitDepth, 1, wavFormatPCM)
	if err := encoder.Write(buf); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return file.Close()
}
