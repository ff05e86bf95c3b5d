//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/audiosync/internal/config"
	"github.com/farcloser/audiosync/internal/decode"
	"github.com/farcloser/audiosync/internal/integration/binary"
	"github.com/farcloser/audiosync/internal/integration/ffprobe"
	"github.com/farcloser/audiosync/internal/output"
)

var errProbeArgs = errors.New("expected at least one argument: file path")

func probeCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:         "probe",
		Usage:        "Describe recordings as the analyzer sees them",
		ArgsUsage:    "<file>...",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "channel",
				Usage: "Channel to decode (0-based)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("%w: %w", errUsage, errProbeArgs)
			}

			if cmd.Bool("debug") {
				setDebug(cfg)
			}

			formatter, err := format.GetFormatter(cmd.String("format"))
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}

			data := make([]*format.Data, 0, cmd.NArg())

			for _, path := range cmd.Args().Slice() {
				signal, err := decode.File(ctx, path, cmd.Int("channel"))
				if err != nil {
					return fmt.Errorf("decoding %s: %w", path, err)
				}

				var probe *ffprobe.Result

				// WAV files decode without ffprobe.
				_, found := binary.Available("ffprobe")
				if found || !strings.EqualFold(filepath.Ext(path), ".wav") {
					probe, err = ffprobe.Probe(ctx, path)
					if err != nil {
						return fmt.Errorf("probing %s: %w", path, err)
					}
				}

				data = append(data, &format.Data{
					Object: path,
					Meta:   output.SignalToMap(signal, probe),
				})
			}

			return formatter.PrintAll(data, os.Stdout)
		},
	}
}
