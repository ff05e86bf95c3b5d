package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Exit codes.
const (
	exitSuccess          = 0
	exitLatencyExceeded  = 1
	exitDropoutsDetected = 2
	exitUsage            = 127
	exitUnknown          = 255
)

var errUsage = errors.New("invalid usage")

// statusError carries a measurement outcome, not a failure.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return exitUsage
	}

	return exitUnknown
}

func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return fmt.Errorf("%w: %w", errUsage, err)
}
