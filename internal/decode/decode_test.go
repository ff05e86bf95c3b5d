package decode

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/audiosync/internal/synth"
	"github.com/farcloser/audiosync/internal/types"
)

func writeWAV(t *testing.T, signal types.Signal, depth types.BitDepth) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "signal.wav")

	file, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, synth.WriteWAV(file, signal, depth))
	require.NoError(t, file.Close())

	return path
}

func TestWAV_RoundTrip(t *testing.T) {
	cfg := synth.DefaultConfig()
	cfg.Duration = 0.5

	signal, err := synth.Generate(cfg)
	require.NoError(t, err)

	for _, depth := range []types.BitDepth{types.Depth16, types.Depth24, types.Depth32} {
		t.Run(fmt.Sprintf("%d-bit", depth), func(t *testing.T) {
			path := writeWAV(t, signal, depth)

			decoded, err := File(context.Background(), path, 0)
			require.NoError(t, err)

			assert.Equal(t, signal.SampleRate, decoded.SampleRate)
			require.Len(t, decoded.Samples, len(signal.Samples))

			for i := range signal.Samples {
				require.InDelta(t, signal.Samples[i], decoded.Samples[i], 1.0/32768, "sample %d", i)
			}
		})
	}
}

func TestWAV_ChannelRange(t *testing.T) {
	signal := types.Signal{Samples: []float64{0, 0.5, -0.5}, SampleRate: 8000}
	path := writeWAV(t, signal, types.Depth16)

	file, err := os.Open(path)
	require.NoError(t, err)

	defer file.Close()

	_, err = WAV(file, 1)
	require.ErrorIs(t, err, ErrChannelRange)
}

func TestWAV_InvalidHeader(t *testing.T) {
	_, err := WAV(bytes.NewReader([]byte("definitely not a wav file")), 0)
	require.Error(t, err)
}

func frames16(values ...[2]int16) []byte {
	buf := make([]byte, 0, len(values)*4)
	for _, frame := range values {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(frame[0]))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(frame[1]))
	}

	return buf
}

func TestPCM(t *testing.T) {
	format := types.PCMFormat{SampleRate: 8000, BitDepth: types.Depth16, Channels: 2}
	data := frames16([2]int16{16384, -16384}, [2]int16{0, 8192}, [2]int16{-32768, 32767})

	t.Run("selects a channel", func(t *testing.T) {
		left, err := PCM(bytes.NewReader(data), format, 0)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0, -1}, left.Samples)
		assert.Equal(t, 8000, left.SampleRate)

		right, err := PCM(bytes.NewReader(data), format, 1)
		require.NoError(t, err)
		assert.Equal(t, []float64{-0.5, 0.25, 32767.0 / 32768}, right.Samples)
	})

	t.Run("partial reads carry over", func(t *testing.T) {
		signal, err := PCM(iotest.OneByteReader(bytes.NewReader(data)), format, 1)
		require.NoError(t, err)
		assert.Equal(t, []float64{-0.5, 0.25, 32767.0 / 32768}, signal.Samples)
	})

	t.Run("trailing partial frame is dropped", func(t *testing.T) {
		signal, err := PCM(bytes.NewReader(append(data, 0x01, 0x02)), format, 0)
		require.NoError(t, err)
		assert.Len(t, signal.Samples, 3)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := PCM(bytes.NewReader(data), format, 2)
		require.ErrorIs(t, err, ErrChannelRange)

		_, err = PCM(bytes.NewReader(data), types.PCMFormat{SampleRate: 8000, BitDepth: 8, Channels: 2}, 0)
		require.ErrorIs(t, err, ErrUnsupported)

		_, err = PCM(bytes.NewReader(nil), format, 0)
		require.ErrorIs(t, err, ErrEmpty)

		_, err = PCM(bytes.NewReader(data), types.PCMFormat{BitDepth: types.Depth16, Channels: 2}, 0)
		require.Error(t, err)
	})
}

func TestReadSample(t *testing.T) {
	assert.InDelta(t, -8388608.0, readSample([]byte{0x00, 0x00, 0x80}, types.Depth24), 0)
	assert.InDelta(t, 8388607.0, readSample([]byte{0xff, 0xff, 0x7f}, types.Depth24), 0)
	assert.InDelta(t, -1.0, readSample([]byte{0xff, 0xff, 0xff, 0xff}, types.Depth32), 0)
	assert.InDelta(t, 0.0, readSample([]byte{0x01}, 8), 0)
}
