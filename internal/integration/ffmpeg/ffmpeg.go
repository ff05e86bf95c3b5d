// Package ffmpeg wraps the ffmpeg binary to extract raw PCM from arbitrary media.
package ffmpeg

import (
	"strconv"
	"time"

	"github.com/farcloser/audiosync/internal/types"
)

const (
	name = "ffmpeg"
	timeout = 5 * time.Minute
)

// sampleSpec maps a bit depth to ffmpeg's raw format and codec names (s32le, pcm_s32le...).
func sampleSpec(bitDepth types.BitDepth) (string, string) {
	spec := "s" + strconv.Itoa(int(bitDepth)) + "le" //nolint:gosec // bit depth is a small constant

	return spec, "pcm_" + spec
}
