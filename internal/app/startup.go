// Package app prepares a recording run from the command line. Everything
// that can reject a run happens here, before a device or process is opened.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/vedantwpatil/time-elapse-recorder/internal/capture"
	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
	"github.com/vedantwpatil/time-elapse-recorder/internal/hotkey"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError marks a problem with the command line or the configuration.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Start to the process exit status.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Deps are the steps of startup that touch the machine.
type Deps struct {
	// CheckEncoder fails when the named encoder backend cannot run.
	CheckEncoder func(backend string) error
	OpenSource   capture.Opener
}

// Run is a validated configuration with its capture source open.
type Run struct {
	Config *config.Config
	Hotkey []string
	Source capture.Source
}

// Start parses args, validates the result, checks the encoder and only then
// opens the source. On error nothing is left open.
func Start(ctx context.Context, name string, args []string, output io.Writer, deps Deps) (*Run, error) {
	cfg, err := config.ParseFlags(name, args, output)
	if errors.Is(err, flag.ErrHelp) {
		return nil, err
	}
	if err != nil {
		return nil, &UsageError{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &UsageError{Err: err}
	}

	var combo []string
	if cfg.Hotkey != "" {
		if combo, err = hotkey.ParseCombo(cfg.Hotkey); err != nil {
			return nil, &UsageError{Err: err}
		}
	}

	if err := deps.CheckEncoder(cfg.Recording.Encoder); err != nil {
		return nil, err
	}

	src, err := deps.OpenSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture source: %w", err)
	}
	return &Run{Config: cfg, Hotkey: combo, Source: src}, nil
}
