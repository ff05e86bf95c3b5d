package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/audiosync/internal/config"
	"github.com/farcloser/audiosync/version"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(exitUnknown)
	}

	slog.SetDefault(cfg.NewLogger(os.Stderr, false))

	appl := &cli.Command{
		Name:         version.Name(),
		Usage:        "Audio latency and dropout measurement tool",
		Version:      version.Version() + " " + version.Commit(),
		OnUsageError: usageError,
		Commands: []*cli.Command{
			analyzeCommand(cfg),
			generateCommand(cfg),
			probeCommand(cfg),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		var status *statusError
		if errors.As(err, &status) {
			os.Exit(status.code)
		}

		slog.Error("failed to run", "error", err)
		os.Exit(exitCode(err))
	}
}
