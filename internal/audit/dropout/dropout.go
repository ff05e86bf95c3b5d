// Package dropout turns missing pulses and silent stretches into dropout intervals.
package dropout

import (
	"cmp"
	"math"
	"slices"

	"github.com/farcloser/audiosync/internal/types"
)

// NoGap is the largest distance, in seconds, between two intervals that are still fused.
const NoGap = 0.001

// Run is a maximal sequence of consecutive flagged windows.
type Run struct {
	First int // index of the first flagged window
	Last  int // index of the last flagged window
	Start float64
	End   float64
}

// Windows is the number of windows in the run.
func (r Run) Windows() int {
	return r.Last - r.First + 1
}

// Interval converts the run to a dropout interval.
func (r Run) Interval() types.Dropout {
	return types.Dropout{Start: r.Start, End: r.End}
}

// Merge coalesces consecutive flagged windows into runs. bounds returns the start and
// end time of window n. Runs are returned in ascending order and are never adjacent.
func Merge(flags []bool, bounds func(n int) (float64, float64)) []Run {
	var (
		runs []Run
		open *Run
	)

	for n, flagged := range flags {
		if !flagged {
			if open != nil {
				runs = append(runs, *open)
				open = nil
			}

			continue
		}

		start, end := bounds(n)

		if open == nil {
			open = &Run{First: n, Last: n, Start: start, End: end}

			continue
		}

		open.Last = n
		open.End = end
	}

	if open != nil {
		runs = append(runs, *open)
	}

	return runs
}

// ScanSilence reports the stretches of samples whose absolute value stays below threshold
// for longer than minDuration seconds. offset is the absolute sample index of samples[0].
// A stretch reaching the end of the slice is closed at the last sample.
func ScanSilence(samples []float64, offset, sampleRate int, threshold, minDuration float64) []types.Dropout {
	if sampleRate <= 0 || threshold <= 0 {
		return nil
	}

	rate := float64(sampleRate)
	minSamples := int(math.Ceil(minDuration * rate))

	var (
		found     []types.Dropout
		zeroStart = -1
	)

	for i, sample := range samples {
		if math.Abs(sample) < threshold {
			if zeroStart < 0 {
				zeroStart = i
			}

			continue
		}

		if zeroStart >= 0 && i-zeroStart > minSamples {
			found = append(found, types.Dropout{
				Start: float64(offset+zeroStart) / rate,
				End:   float64(offset+i) / rate,
			})
		}

		zeroStart = -1
	}

	// Still silent at the end of the slice.
	if zeroStart >= 0 && len(samples)-zeroStart > minSamples {
		found = append(found, types.Dropout{
			Start: float64(offset+zeroStart) / rate,
			End:   float64(offset+len(samples)-1) / rate,
		})
	}

	return found
}

// Collapse sorts intervals by start and fuses any two separated by less than gap seconds.
// The result is ascending, disjoint, and holds no mergeable neighbours.
func Collapse(intervals []types.Dropout, gap float64) []types.Dropout {
	if len(intervals) == 0 {
		return nil
	}

	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, func(a, b types.Dropout) int {
		return cmp.Compare(a.Start, b.Start)
	})

	merged := []types.Dropout{sorted[0]}

	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if next.Start-last.End < gap {
			last.End = max(last.End, next.End)

			continue
		}

		merged = append(merged, next)
	}

	return merged
}
