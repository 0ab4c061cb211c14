// Package runner implements the concrete task runners the execution
// engine dispatches to, one per config.TaskType, behind a common Runner
// interface (spec.md §4.6).
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/ningyanhui/scheduler-dag/internal/params"
	"github.com/ningyanhui/scheduler-dag/internal/util"
)

// maxCapturedBytes bounds how much of a task's stdout/stderr is retained
// in the outcome record.
const maxCapturedBytes = 64 * 1024

// Status is the coarse outcome of one task invocation.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Outcome is the result of one Runner.Invoke call.
type Outcome struct {
	Status       Status
	ExitCode     int
	Stdout       string
	Stderr       string
	DurationMs   int64
	ErrorMessage string
}

// Input bundles everything a Runner needs to execute one task: the task
// descriptor, the task's own parameters after template resolution (the
// params.<name> namespace and --key=value flag source), a resolver scoped
// to the full merged overlay, and the working directory to run in.
type Input struct {
	Task           config.TaskDescriptor
	ResolvedParams map[string]string
	Resolver       *params.Resolver
	WorkingDir     string
}

// Runner is the abstract contract the engine dispatches a task through.
type Runner interface {
	Invoke(ctx context.Context, in Input) (Outcome, error)
}

// Table maps a task type to the runner that handles it (spec.md §9's
// tagged-variant dispatch).
type Table map[config.TaskType]Runner

// DefaultTable returns the standard dispatch table wiring every recognised
// task type to its concrete runner.
func DefaultTable() Table {
	return Table{
		config.TaskShell:    ShellRunner{},
		config.TaskPython:   ScriptRunner{Interpreter: "python3"},
		config.TaskPySpark:  ScriptRunner{Interpreter: "spark-submit"},
		config.TaskSparkSQL: SQLRunner{DefaultEngineBin: "spark-sql"},
		config.TaskHiveSQL:  SQLRunner{DefaultEngineBin: "hive"},
	}
}

// For looks up the runner for task.Type.
func (t Table) For(taskType config.TaskType) (Runner, bool) {
	r, ok := t[taskType]
	return r, ok
}

// runProcess executes program with args in workingDir, capturing bounded
// stdout/stderr, and maps the result onto Outcome.
func runProcess(ctx context.Context, workingDir, program string, args []string) (Outcome, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, program, args...)
	if workingDir != "" {
		cmd.Dir = workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &boundedWriter{buf: &stdout, limit: maxCapturedBytes}
	cmd.Stderr = &boundedWriter{buf: &stderr, limit: maxCapturedBytes}

	runErr := cmd.Run()
	duration := time.Since(start).Milliseconds()

	outcome := Outcome{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: duration,
	}

	if runErr == nil {
		outcome.Status = StatusOK
		outcome.ExitCode = 0
		return outcome, nil
	}

	outcome.Status = StatusError
	outcome.ErrorMessage = runErr.Error()
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		outcome.ExitCode = exitErr.ExitCode()
	} else {
		outcome.ExitCode = -1
	}
	return outcome, nil
}

// boundedWriter discards writes past limit, so a runaway task cannot blow
// up memory while its captured output is assembled.
type boundedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}

// splitAndRun resolves cmdline through util.SplitCommand and runs it.
func splitAndRun(ctx context.Context, workingDir, cmdline string) (Outcome, error) {
	program, args := util.SplitCommand(cmdline)
	if program == "" {
		return Outcome{Status: StatusError, ErrorMessage: "empty command"}, nil
	}
	return runProcess(ctx, workingDir, program, args)
}
