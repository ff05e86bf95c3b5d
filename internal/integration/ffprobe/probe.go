//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/audiosync/internal/integration/binary"
)

// Result contains the parts of ffprobe output the decoders rely on.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is a single stream of the container.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`                // pcm_s16le, flac
	CodecType     string `json:"codec_type"`                // audio
	SampleRate    string `json:"sample_rate,omitempty"`     // 48000
	Channels      int    `json:"channels,omitempty"`        // 1
	ChannelLayout string `json:"channel_layout,omitempty"`  // mono
	Duration      string `json:"duration,omitempty"`        // 60.000000
	BitsPerSample int    `json:"bits_per_sample,omitempty"` // 16 for wav, often 0 for compressed codecs
}

// Format describes the container.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`      // wav, flac, mov,mp4,m4a,3gp,3g2,mj2
	FormatLongName string `json:"format_long_name"` // WAV / WAVE (Waveform Audio)
	Duration       string `json:"duration,omitempty"`
	NbStreams      int    `json:"nb_streams"`
}

// FirstAudio returns the first audio stream, or nil.
func (r *Result) FirstAudio() *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			return &r.Streams[i]
		}
	}

	return nil
}

// DurationSeconds parses the stream duration, falling back to the container duration.
func (r *Result) DurationSeconds() float64 {
	candidates := []string{r.Format.Duration}
	if stream := r.FirstAudio(); stream != nil {
		candidates = append([]string{stream.Duration}, candidates...)
	}

	for _, raw := range candidates {
		if d, err := strconv.ParseFloat(raw, 64); err == nil {
			return d
		}
	}

	return 0
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Require(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return parse(output)
}

func parse(output []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}
