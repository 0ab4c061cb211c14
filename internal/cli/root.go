// Package cli wires the cobra command tree the scheduler is driven from:
// run, backfill, visualize, info.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ningyanhui/scheduler-dag/internal/logger"
	"github.com/spf13/cobra"
)

// Exit codes (spec.md §6).
const (
	ExitSuccess       = 0
	ExitTaskFailure   = 1
	ExitConfigInvalid = 2
	ExitInternalError = 3
)

// New builds the root `dagflow` command.
func New() *cobra.Command {
	var debug bool
	var logFormat string

	root := &cobra.Command{
		Use:           "dagflow",
		Short:         "configuration-driven workflow scheduler for data-engineering pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := []logger.Option{logger.WithFormat(logFormat)}
			if debug {
				opts = append(opts, logger.WithDebug())
			}
			lg := logger.NewLogger(opts...)
			ctx := logger.WithLogger(cmd.Context(), lg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format: text|json")

	root.AddCommand(newRunCmd())
	root.AddCommand(newBackfillCmd())
	root.AddCommand(newVisualizeCmd())
	root.AddCommand(newInfoCmd())

	return root
}

// Execute runs the root command against a signal-cancellable context
// (SIGINT/SIGTERM → context cancellation, adapted from the teacher's
// listenSignals/Agent.Signal pattern to a single context.Context instead
// of a raw-signal relay loop).
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := New()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			fmt.Fprintln(os.Stderr, ce.msg)
			return ce.code
		}
		fmt.Fprintln(os.Stderr, err)
		return ExitInternalError
	}
	return ExitSuccess
}

// cliError carries an explicit process exit code alongside the error
// message, so commands can signal config-invalid (2) vs. task-failure (1)
// vs. internal-error (3) distinctly (spec.md §6).
type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }

func newCliError(code int, format string, args ...any) error {
	return &cliError{code: code, msg: fmt.Sprintf(format, args...)}
}
