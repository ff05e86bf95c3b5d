package synth

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/farcloser/audiosync/internal/audit/shared"
	"github.com/farcloser/audiosync/internal/types"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

var (
	errUnsupportedDepth = fmt.Errorf("%w: bit depth must be 16, 24, or 32", errInvalidConfig)
	errWriteFailure     = errors.New("failed writing wav")
)

// WriteWAV encodes a mono signal as integer PCM WAV.
func WriteWAV(out io.WriteSeeker, signal types.Signal, depth types.BitDepth) error {
	scale := shared.Scale(depth)
	if scale == 0 {
		return errUnsupportedDepth
	}

	data := make([]int, len(signal.Samples))
	for i, sample := range signal.Samples {
		data[i] = quantize(sample, scale)
	}

	enc := wav.NewEncoder(out, signal.SampleRate, int(depth), 1, wavFormatPCM) //nolint:gosec // bit depth is a small constant

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: signal.SampleRate},
		Data:           data,
		SourceBitDepth: int(depth), //nolint:gosec // bit depth is a small constant
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: %w", errWriteFailure, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", errWriteFailure, err)
	}

	return nil
}

func quantize(sample, scale float64) int {
	v := math.Round(sample * scale)

	return int(min(max(v, -scale), scale-1))
}
