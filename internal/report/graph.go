package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/audiosync/internal/types"
)

// MissingMicros is how a NaN latency is drawn on the ASCII graph.
const MissingMicros = 10000

var errInvalidGraph = errors.New("invalid graph parameters")

// Graph draws one line per latency: wall-clock time (start plus offset), elapsed
// minutes:seconds, the delay in microseconds, then one dot per 1/dotsPerMsec ms up to
// the threshold marker and one star per dot beyond it. A closing line holds the count
// and mean, in seconds, of the numeric delays.
func Graph(latencies []types.Latency, start time.Time, dotsPerMsec, threshold float64) (string, error) {
	if dotsPerMsec < 0 || threshold < 0 {
		return "", fmt.Errorf("%w: dots per msec %v, threshold %v", errInvalidGraph, dotsPerMsec, threshold)
	}

	thresholdDots := int(threshold * 1000 * dotsPerMsec)

	var out strings.Builder

	for _, l := range latencies {
		micros := float64(MissingMicros)
		if l.IsValid() {
			micros = l.Delay * 1e6
		}

		dots := int(math.Abs(micros) / 1000 * dotsPerMsec)
		below := min(dots, thresholdDots)

		elapsed := int(l.Time)
		wall := start.Add(time.Duration(elapsed) * time.Second)

		fmt.Fprintf(&out, "%s %02d:%02d > %+05d %s%s|%s\n",
			wall.Format(time.TimeOnly),
			elapsed/60, elapsed%60,
			int(micros),
			strings.Repeat(".", below),
			strings.Repeat(" ", thresholdDots-below),
			strings.Repeat("*", max(dots-thresholdDots, 0)),
		)
	}

	if values := Values(latencies); len(values) > 0 {
		fmt.Fprintf(&out, "\navg[%d]=%.6f\n", len(values), stat.Mean(values, nil))
	}

	return out.String(), nil
}

// WriteJSON writes the parsable output: latencies as [time, delay] pairs (delay null
// when unmeasurable) and dropouts as [start, end] pairs.
func WriteJSON(w io.Writer, latencies []types.Latency, dropouts []types.Dropout) error {
	if latencies == nil {
		latencies = []types.Latency{}
	}

	if dropouts == nil {
		dropouts = []types.Dropout{}
	}

	return json.NewEncoder(w).Encode(struct {
		Latencies []types.Latency `json:"latencies"`
		Dropouts  []types.Dropout `json:"dropouts"`
	}{latencies, dropouts})
}
