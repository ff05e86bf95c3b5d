package peak

import "math"

// Result of a peak search. Index is relative to the searched slice and only
// meaningful when Found is true.
type Result struct {
	Found     bool
	Index     int
	Amplitude float64
}

// Locate finds the sample of maximum absolute amplitude. Ties resolve to the lowest index.
// The peak is only reported as found if its amplitude strictly exceeds threshold.
func Locate(samples []float64, threshold float64) Result {
	if len(samples) == 0 {
		return Result{}
	}

	best := 0
	bestAmp := math.Abs(samples[0])

	for i := 1; i < len(samples); i++ {
		if amp := math.Abs(samples[i]); amp > bestAmp {
			best = i
			bestAmp = amp
		}
	}

	return Result{
		Found:     bestAmp > threshold,
		Index:     best,
		Amplitude: bestAmp,
	}
}

// Isolated reports whether every sample above threshold lies within spread samples of index.
// A false result means the slice holds a second candidate pulse.
func Isolated(samples []float64, threshold float64, index, spread int) bool {
	for i, sample := range samples {
		if i >= index-spread && i <= index+spread {
			continue
		}

		if math.Abs(sample) > threshold {
			return false
		}
	}

	return true
}
