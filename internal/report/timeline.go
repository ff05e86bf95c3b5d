package report

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/farcloser/audiosync/internal/types"
)

// Timeline conditions.
const (
	ConditionNone   = '.'
	ConditionBehind = '<' // actual later than reference by more than the threshold
	ConditionAhead  = '>' // actual earlier than reference by more than the threshold
	ConditionDrop   = 'o'

	conditionRows = 3
)

var (
	errInvalidIntervals = errors.New("number of intervals must be a positive multiple of the number of ticks")
	errInvalidTimeframe = errors.New("timeframe must be positive")
)

// Conditions returns, for each of intervals equal slices of [0, timeframe), the set of
// conditions seen in it, in the order behind, ahead, dropout. A slice without any
// condition holds ConditionNone alone.
func Conditions(
	latencies []types.Latency,
	dropouts []types.Dropout,
	timeframe float64,
	intervals int,
	threshold float64,
) [][]rune {
	step := timeframe / float64(intervals)
	timeline := make([][]rune, 0, intervals)

	lat, drop := 0, 0

	for n := range intervals {
		start := float64(n) * step
		end := start + step

		var behind, ahead, dropped bool

		for lat < len(latencies) && latencies[lat].Time < end {
			l := latencies[lat]
			lat++

			if l.Time < start || !l.IsValid() {
				continue
			}

			switch {
			case l.Delay > threshold:
				behind = true
			case l.Delay < -threshold:
				ahead = true
			}
		}

		for drop < len(dropouts) {
			if dropouts[drop].Intersects(start, end) {
				dropped = true
			}

			if dropouts[drop].End >= end {
				break
			}

			drop++
		}

		var set []rune
		if behind {
			set = append(set, ConditionBehind)
		}

		if ahead {
			set = append(set, ConditionAhead)
		}

		if dropped {
			set = append(set, ConditionDrop)
		}

		if len(set) == 0 {
			set = append(set, ConditionNone)
		}

		slog.Debug("report.Conditions", "start", start, "end", end, "conditions", string(set))

		timeline = append(timeline, set)
	}

	return timeline
}

// PlotTimeline renders a conditions timeline: three rows of stacked conditions, a tick
// line and a line of tick times.
func PlotTimeline(timeline [][]rune, timeframe float64, ticks int) (string, error) {
	intervals := len(timeline)
	if ticks <= 0 || intervals == 0 || intervals%ticks != 0 {
		return "", fmt.Errorf("%w: %d intervals, %d ticks", errInvalidIntervals, intervals, ticks)
	}

	rows := make([]strings.Builder, conditionRows)

	for _, set := range timeline {
		padded := make([]rune, 0, conditionRows)
		for range conditionRows - len(set) {
			padded = append(padded, ' ')
		}

		padded = append(padded, set...)

		for row := range rows {
			rows[row].WriteRune(padded[row])
		}
	}

	perTick := intervals / ticks
	tickDuration := timeframe / float64(ticks)

	var out strings.Builder

	for row := range rows {
		out.WriteString(rows[row].String())
		out.WriteByte('\n')
	}

	out.WriteString(strings.Repeat(strings.Repeat(" ", perTick-1)+"|", ticks))
	out.WriteByte('\n')

	for i := 1; i <= ticks; i++ {
		label := fmt.Sprintf("%.2fs", float64(i)*tickDuration)
		out.WriteString(strings.Repeat(" ", max(perTick-len(label), 0)))
		out.WriteString(label)
	}

	return out.String(), nil
}

// TimelineReport is the full timeline block printed by the CLI, legend included.
func TimelineReport(
	latencies []types.Latency,
	dropouts []types.Dropout,
	timeframe float64,
	dots, ticks int,
	threshold float64,
) (string, error) {
	if timeframe <= 0 {
		return "", fmt.Errorf("%w: %v", errInvalidTimeframe, timeframe)
	}

	if dots <= 0 {
		return "", fmt.Errorf("%w: %d intervals, %d ticks", errInvalidIntervals, dots, ticks)
	}

	plot, err := PlotTimeline(Conditions(latencies, dropouts, timeframe, dots, threshold), timeframe, ticks)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Timeline:\n%s\n\n"+
		"< = Act more than %.3f secs behind ref\n"+
		"> = Act more than %.3f secs ahead of ref\n"+
		"o = Dropout\n"+
		". = %.3f secs\n",
		plot, threshold, threshold, timeframe/float64(dots)), nil
}
