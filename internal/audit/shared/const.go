// Package shared holds PCM normalization constants used by decoders and encoders.
package shared

import "github.com/farcloser/audiosync/internal/types"

const (
	MaxValue16 = 32768.0      // 2^15
	MaxValue24 = 8388608.0    // 2^23
	MaxValue32 = 2147483648.0 // 2^31
)

// Scale returns the normalization divisor for a bit depth, or 0 if the depth is unsupported.
func Scale(depth types.BitDepth) float64 {
	switch depth {
	case types.Depth16:
		return MaxValue16
	case types.Depth24:
		return MaxValue24
	case types.Depth32:
		return MaxValue32
	default:
		return 0
	}
}
