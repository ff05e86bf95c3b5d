//nolint:wrapcheck
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/audiosync"
	"github.com/farcloser/audiosync/internal/config"
	"github.com/farcloser/audiosync/internal/output"
	"github.com/farcloser/audiosync/internal/report"
)

func setDebug(cfg *config.Config) {
	slog.SetDefault(cfg.NewLogger(os.Stderr, true))
}

func outputResult(filePath string, result *audiosync.Result, threshold float64, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: filePath,
		Meta:   output.ResultToMap(result, threshold),
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// printReports writes the optional text reports, in the order graph, timeline, stats,
// percentiles.
func printReports(
	cmd *cli.Command,
	result *audiosync.Result,
	duration float64,
	start time.Time,
	threshold float64,
) error {
	var out strings.Builder

	if cmd.Bool("plot-ascii-graph") {
		graph, err := report.Graph(result.Latencies, start, cmd.Float("dots-per-msec"), threshold)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}

		out.WriteString(graph)
	}

	if cmd.Bool("plot-timeline") {
		timeline, err := report.TimelineReport(
			result.Latencies, result.Dropouts, duration, timelineDots, timelineTicks, threshold,
		)
		if err != nil {
			return err
		}

		out.WriteString(timeline)
		out.WriteByte('\n')
	}

	if cmd.Bool("print-stats") {
		stats := report.ComputeStats(result.Latencies)
		fmt.Fprintf(&out, "Max latency: %f secs\nMin latency: %f secs\nMean latency: %f secs\n\n",
			stats.Max, stats.Min, stats.Mean)
	}

	if cmd.Bool("print-percentiles") {
		out.WriteString("Percentiles (secs):\n")

		for _, p := range report.Percentiles(result.Latencies, report.DefaultPercentiles) {
			fmt.Fprintf(&out, "%d%%: %.6f\n", int(p.Percentile), p.Value)
		}

		out.WriteByte('\n')
	}

	_, err := os.Stdout.WriteString(out.String())

	return err
}
