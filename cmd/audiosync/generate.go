//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/audiosync/internal/config"
	"github.com/farcloser/audiosync/internal/synth"
	"github.com/farcloser/audiosync/internal/types"
)

var (
	errGenerateArgs    = errors.New("expected exactly one argument: output wav path")
	errInvalidSpan     = errors.New("silence must be start:end in seconds")
	errInvalidBitDepth = errors.New("must be 16, 24, or 32")
)

func generateCommand(cfg *config.Config) *cli.Command {
	defaults := synth.DefaultConfig()

	return &cli.Command{
		Name:         "generate",
		Usage:        "Write the crafted pulse waveform to a WAV file",
		ArgsUsage:    "<output.wav>",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "duration",
				Usage: "Length of the recording (secs)",
				Value: defaults.Duration,
			},
			&cli.FloatFlag{
				Name:  "period",
				Usage: "Distance between pulses (secs)",
				Value: cfg.Period,
			},
			&cli.FloatFlag{
				Name:  "pulse-length",
				Usage: "Duration of a pulse (secs)",
				Value: cfg.PulseLength,
			},
			&cli.IntFlag{
				Name:    "sample-rate",
				Aliases: []string{"s"},
				Usage:   "Sample rate in Hz",
				Value:   defaults.SampleRate,
			},
			&cli.IntFlag{
				Name:    "bit-depth",
				Aliases: []string{"b"},
				Usage:   "Bit depth (16, 24, or 32)",
				Value:   16,
			},
			&cli.FloatFlag{
				Name:  "delay",
				Usage: "Shift every pulse by this much (secs, negative plays ahead)",
			},
			&cli.StringSliceFlag{
				Name:  "silence",
				Usage: "Zero the span start:end (secs), repeatable",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Enable debug logging",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: %w: got %d", errUsage, errGenerateArgs, cmd.NArg())
			}

			if cmd.Bool("debug") {
				setDebug(cfg)
			}

			depth, err := toBitDepth(cmd.Int("bit-depth"))
			if err != nil {
				return fmt.Errorf("%w: --bit-depth: %w", errUsage, err)
			}

			silences, err := parseSpans(cmd.StringSlice("silence"))
			if err != nil {
				return fmt.Errorf("%w: --silence: %w", errUsage, err)
			}

			gen := defaults
			gen.Duration = cmd.Float("duration")
			gen.Period = cmd.Float("period")
			gen.PulseDuration = cmd.Float("pulse-length")
			gen.SampleRate = cmd.Int("sample-rate")
			gen.Delay = cmd.Float("delay")
			gen.Silences = silences

			signal, err := synth.Generate(gen)
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}

			path := cmd.Args().First()

			file, err := os.Create(path) //nolint:gosec // CLI tool writes user-specified files
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer file.Close()

			if err = synth.WriteWAV(file, signal, depth); err != nil {
				return err
			}

			slog.Debug("generate", "path", path, "samples", len(signal.Samples), "depth", depth)

			return nil
		},
	}
}

func parseSpans(raw []string) ([]synth.Span, error) {
	spans := make([]synth.Span, 0, len(raw))

	for _, entry := range raw {
		startRaw, endRaw, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errInvalidSpan, entry)
		}

		start, err := strconv.ParseFloat(strings.TrimSpace(startRaw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidSpan, entry)
		}

		end, err := strconv.ParseFloat(strings.TrimSpace(endRaw), 64)
		if err != nil || end < start {
			return nil, fmt.Errorf("%w: %q", errInvalidSpan, entry)
		}

		spans = append(spans, synth.Span{Start: start, End: end})
	}

	return spans, nil
}

func toBitDepth(v int) (types.BitDepth, error) {
	switch v {
	case 16:
		return types.Depth16, nil
	case 24:
		return types.Depth24, nil
	case 32:
		return types.Depth32, nil
	default:
		return 0, errInvalidBitDepth
	}
}
