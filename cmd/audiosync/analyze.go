//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/farcloser/audiosync"
	"github.com/farcloser/audiosync/internal/config"
	"github.com/farcloser/audiosync/internal/decode"
	"github.com/farcloser/audiosync/internal/report"
	"github.com/farcloser/audiosync/internal/types"
)

const (
	timelineDots  = 70
	timelineTicks = 5
)

var errAnalyzeArgs = errors.New("expected exactly two arguments: reference and actual recordings")

func analyzeCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:         "analyze",
		Usage:        "Measure latencies and dropouts of a recording against its reference",
		ArgsUsage:    "<reference> <actual>",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			// Detection settings.
			&cli.FloatFlag{
				Name:  "period",
				Usage: "Fundamental period of the recordings (secs)",
				Value: cfg.Period,
			},
			&cli.FloatFlag{
				Name:  "pulse-length",
				Usage: "Duration of a pulse (secs)",
				Value: cfg.PulseLength,
			},
			&cli.FloatFlag{
				Name:    "detection-threshold",
				Aliases: []string{"dropout-threshold"},
				Usage:   "Peaks at or below this amplitude count as missing, range (0, 1)",
				Value:   cfg.DetectionThreshold,
			},
			&cli.FloatFlag{
				Name:  "silence-threshold",
				Usage: "Amplitude under which samples count as silence inside valid periods, 0 disables the scan",
			},
			&cli.FloatFlag{
				Name:  "min-silence-length",
				Usage: "Silences shorter than this are ignored (secs)",
			},
			&cli.FloatFlag{
				Name:  "latency-threshold",
				Usage: "Latencies equal or greater than this are excessive (secs)",
				Value: cfg.LatencyThreshold,
			},
			&cli.IntFlag{
				Name:  "channel",
				Usage: "Channel to analyze in both recordings (0-based)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of periods analyzed concurrently",
				Value: cfg.Workers,
			},

			// Output selection.
			&cli.BoolFlag{
				Name:  "parsable-output",
				Usage: "Print latencies and dropouts as JSON",
			},
			&cli.BoolFlag{
				Name:  "print-stats",
				Usage: "Print latency stats (max, min, and mean)",
			},
			&cli.BoolFlag{
				Name:  "print-percentiles",
				Usage: "Print latency percentiles",
			},
			&cli.BoolFlag{
				Name:  "plot-timeline",
				Usage: "Plot the conditions in a timeline",
			},
			&cli.BoolFlag{
				Name:  "plot-ascii-graph",
				Usage: "Plot every latency as ASCII art",
			},
			&cli.StringFlag{
				Name:  "start-time",
				Usage: "hh:mm:ss of when playback started, for the ASCII graph",
				Value: "00:00:00",
			},
			&cli.FloatFlag{
				Name:  "dots-per-msec",
				Usage: "ASCII dots used per msec of latency",
				Value: 10,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Summary format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("%w: %w: got %d", errUsage, errAnalyzeArgs, cmd.NArg())
			}

			if cmd.Bool("debug") {
				setDebug(cfg)
			}

			start, err := time.Parse(time.TimeOnly, cmd.String("start-time"))
			if err != nil {
				return fmt.Errorf("%w: --start-time: %w", errUsage, err)
			}

			opts := audiosync.Options{
				Properties: audiosync.Properties{
					Period:             cmd.Float("period"),
					PulseDuration:      cmd.Float("pulse-length"),
					DetectionThreshold: cmd.Float("detection-threshold"),
					SilenceThreshold:   cmd.Float("silence-threshold"),
					MinSilenceDuration: cmd.Float("min-silence-length"),
				},
				Workers: cmd.Int("workers"),
			}

			if err = opts.Properties.Validate(); err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}

			ref, act, err := decodePair(ctx, cmd.Args().Get(0), cmd.Args().Get(1), cmd.Int("channel"))
			if err != nil {
				return err
			}

			result, err := audiosync.Analyze(ref, act, opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			threshold := cmd.Float("latency-threshold")

			if cmd.Bool("parsable-output") {
				if err = report.WriteJSON(os.Stdout, result.Latencies, result.Dropouts); err != nil {
					return err
				}
			} else {
				err = printReports(cmd, result, ref.Duration(), start, threshold)
				if err != nil {
					return err
				}

				err = outputResult(cmd.Args().Get(1), result, threshold, cmd.String("format"))
				if err != nil {
					return err
				}
			}

			return outcome(result, threshold)
		},
	}
}

// decodePair decodes both recordings concurrently.
func decodePair(ctx context.Context, refPath, actPath string, channel int) (types.Signal, types.Signal, error) {
	var ref, act types.Signal

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error

		ref, err = decode.File(ctx, refPath, channel)
		if err != nil {
			return fmt.Errorf("decoding reference %s: %w", refPath, err)
		}

		return nil
	})

	group.Go(func() error {
		var err error

		act, err = decode.File(ctx, actPath, channel)
		if err != nil {
			return fmt.Errorf("decoding actual %s: %w", actPath, err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return types.Signal{}, types.Signal{}, err
	}

	return ref, act, nil
}

// outcome maps the measurement to the process exit status. Excessive latency wins
// over dropouts.
func outcome(result *audiosync.Result, threshold float64) error {
	if worst := result.MaxAbsLatency(); !math.IsNaN(worst) && math.Abs(worst) >= threshold {
		return &statusError{code: exitLatencyExceeded}
	}

	if result.HasDropouts() {
		return &statusError{code: exitDropoutsDetected}
	}

	return nil
}
