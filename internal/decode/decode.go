// Package decode turns WAV files, raw PCM streams and other media into mono signals.
//
// Decoders never mix channels: they extract the requested one.
package decode

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/farcloser/primordium/fault"
	"github.com/go-audio/wav"

	"github.com/farcloser/audiosync/internal/audit/shared"
	"github.com/farcloser/audiosync/internal/integration/ffmpeg"
	"github.com/farcloser/audiosync/internal/integration/ffprobe"
	"github.com/farcloser/audiosync/internal/types"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

var (
	ErrEmpty            = errors.New("no samples in recording")
	ErrUnsupported      = errors.New("unsupported audio format")
	ErrChannelRange     = errors.New("channel out of range")
	errNoAudioStream    = errors.New("no audio stream found")
	errInvalidRate      = errors.New("invalid sample rate")
	errInvalidChannels  = errors.New("invalid channel count")
	errInvalidWAVHeader = errors.New("invalid wav header")
)

// WAV decodes one channel of an integer PCM WAV file.
func WAV(r io.ReadSeeker, channel int) (types.Signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return types.Signal{}, errInvalidWAVHeader
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return types.Signal{}, fmt.Errorf("%w: wav format tag %d", ErrUnsupported, dec.WavAudioFormat)
	}

	scale := shared.Scale(types.BitDepth(dec.BitDepth))
	if scale == 0 {
		return types.Signal{}, fmt.Errorf("%w: %d-bit wav", ErrUnsupported, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return types.Signal{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	channels := buf.Format.NumChannels
	if channel < 0 || channel >= channels {
		return types.Signal{}, fmt.Errorf("%w: %d (file has %d)", ErrChannelRange, channel, channels)
	}

	frames := len(buf.Data) / channels
	if frames == 0 {
		return types.Signal{}, ErrEmpty
	}

	samples := make([]float64, frames)
	for i := range frames {
		samples[i] = float64(buf.Data[i*channels+channel]) / scale
	}

	return types.Signal{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// PCM decodes one channel of a raw interleaved little-endian PCM stream.
func PCM(r io.Reader, format types.PCMFormat, channel int) (types.Signal, error) {
	scale := shared.Scale(format.BitDepth)
	if scale == 0 {
		return types.Signal{}, fmt.Errorf("%w: %d-bit pcm", ErrUnsupported, format.BitDepth)
	}

	if format.SampleRate <= 0 {
		return types.Signal{}, fmt.Errorf("%w: %d", errInvalidRate, format.SampleRate)
	}

	bytesPerSample := int(format.BitDepth / 8) //nolint:gosec // bit depth and channel count are small constants
	numChannels := int(format.Channels)        //nolint:gosec // bit depth and channel count are small constants

	if channel < 0 || channel >= numChannels {
		return types.Signal{}, fmt.Errorf("%w: %d (stream has %d)", ErrChannelRange, channel, numChannels)
	}

	frameSize := bytesPerSample * numChannels
	buf := make([]byte, frameSize*4096)

	var (
		samples []float64
		pending int
	)

	for {
		n, err := r.Read(buf[pending:])
		n += pending

		completeFrames := (n / frameSize) * frameSize
		for i := 0; i < completeFrames; i += frameSize {
			samples = append(samples, readSample(buf[i+channel*bytesPerSample:], format.BitDepth)/scale)
		}

		// Keep a trailing partial frame for the next read.
		pending = copy(buf, buf[completeFrames:n])

		if err == io.EOF {
			break
		}

		if err != nil {
			return types.Signal{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
	}

	if len(samples) == 0 {
		return types.Signal{}, ErrEmpty
	}

	return types.Signal{Samples: samples, SampleRate: format.SampleRate}, nil
}

func readSample(data []byte, depth types.BitDepth) float64 {
	switch depth {
	case types.Depth16:
		return float64(int16(binary.LittleEndian.Uint16(data))) //nolint:gosec // two's complement conversion for signed PCM samples
	case types.Depth24:
		raw := int32(data[0]) | int32(data[1])<<8 | int32(data[2])<<16
		if raw&0x800000 != 0 {
			raw |= ^0xFFFFFF
		}

		return float64(raw)
	case types.Depth32:
		return float64(int32(binary.LittleEndian.Uint32(data))) //nolint:gosec // two's complement conversion for signed PCM samples
	default:
		return 0
	}
}

// File decodes one channel of the recording at path. WAV files are read directly,
// anything else goes through ffprobe and ffmpeg.
func File(ctx context.Context, path string, channel int) (types.Signal, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
		if err != nil {
			return types.Signal{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
		defer file.Close()

		slog.Debug("decode.File", "path", path, "decoder", "wav")

		return WAV(file, channel)
	}

	slog.Debug("decode.File", "path", path, "decoder", "ffmpeg")

	return Media(ctx, path, channel)
}

// Media extracts the first audio stream of any container ffmpeg understands.
func Media(ctx context.Context, path string, channel int) (types.Signal, error) {
	probe, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return types.Signal{}, fmt.Errorf("probing %s: %w", path, err)
	}

	stream := probe.FirstAudio()
	if stream == nil {
		return types.Signal{}, fmt.Errorf("%s: %w", path, errNoAudioStream)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return types.Signal{}, fmt.Errorf("%w from probe: %q", errInvalidRate, stream.SampleRate)
	}

	if stream.Channels <= 0 {
		return types.Signal{}, fmt.Errorf("%w from probe: %d", errInvalidChannels, stream.Channels)
	}

	format := types.PCMFormat{
		SampleRate: sampleRate,
		BitDepth:   types.Depth32,
		Channels:   uint(stream.Channels), //nolint:gosec // validated positive value
	}

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return types.Signal{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	var pcm bytes.Buffer

	if err = ffmpeg.ExtractStream(ctx, file, &pcm, 0, &format); err != nil {
		return types.Signal{}, fmt.Errorf("extracting PCM: %w", err)
	}

	return PCM(&pcm, format, channel)
}
