// Package report turns latencies and dropouts into statistics and text renderings.
package report

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/audiosync/internal/types"
)

// DefaultPercentiles are the percentiles printed by the CLI.
//
//nolint:gochecknoglobals // configuration data, effectively const
var DefaultPercentiles = []float64{0, 50, 75, 90, 95, 99, 100}

// Stats summarizes the numeric latencies. Max and Min are chosen by magnitude but keep
// their sign, so that a reader can tell ahead from behind. All fields are NaN when no
// numeric latency exists.
type Stats struct {
	Max   float64
	Min   float64
	Mean  float64
	Count int
}

// Percentile is the magnitude of latency at a given percentile (0-100).
type Percentile struct {
	Percentile float64
	Value      float64
}

// Values returns the numeric delays, skipping NaN entries.
func Values(latencies []types.Latency) []float64 {
	values := make([]float64, 0, len(latencies))

	for _, l := range latencies {
		if l.IsValid() {
			values = append(values, l.Delay)
		}
	}

	return values
}

// ComputeStats returns max, min (by magnitude) and mean latency.
func ComputeStats(latencies []types.Latency) Stats {
	values := Values(latencies)
	if len(values) == 0 {
		return Stats{Max: math.NaN(), Min: math.NaN(), Mean: math.NaN()}
	}

	result := Stats{Max: values[0], Min: values[0], Count: len(values)}

	for _, v := range values[1:] {
		if math.Abs(v) > math.Abs(result.Max) {
			result.Max = v
		}

		if math.Abs(v) < math.Abs(result.Min) {
			result.Min = v
		}
	}

	result.Mean = stat.Mean(values, nil)

	return result
}

// Percentiles computes the requested percentiles of |latency|, ignoring NaN entries.
// Values are NaN when there is no numeric latency.
func Percentiles(latencies []types.Latency, percentiles []float64) []Percentile {
	values := Values(latencies)
	for i, v := range values {
		values[i] = math.Abs(v)
	}

	slices.Sort(values)

	result := make([]Percentile, len(percentiles))

	for i, p := range percentiles {
		result[i] = Percentile{Percentile: p, Value: math.NaN()}

		if len(values) > 0 {
			result[i].Value = stat.Quantile(min(max(p/100, 0), 1), stat.Empirical, values, nil)
		}
	}

	return result
}
