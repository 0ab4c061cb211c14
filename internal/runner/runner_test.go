package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/ningyanhui/scheduler-dag/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, overlay map[string]string) *params.Resolver {
	t.Helper()
	store := params.NewStore(nil, overlay, nil)
	ref, err := time.Parse("2006-01-02", "2024-07-15")
	require.NoError(t, err)
	return params.NewResolver(context.Background(), store, ref)
}

func TestShellRunnerSuccess(t *testing.T) {
	task := config.TaskDescriptor{ID: "A", Type: config.TaskShell, Command: "echo ${msg}"}
	in := Input{
		Task:           task,
		ResolvedParams: map[string]string{"msg": "hello"},
		Resolver:       newResolver(t, map[string]string{"msg": "hello"}),
	}

	out, err := ShellRunner{}.Invoke(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, out.Status)
	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, out.Stdout, "hello")
}

func TestShellRunnerNonZeroExit(t *testing.T) {
	task := config.TaskDescriptor{ID: "A", Type: config.TaskShell, Command: "sh -c 'exit 3'"}
	in := Input{Task: task, Resolver: newResolver(t, nil)}

	out, err := ShellRunner{}.Invoke(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, 3, out.ExitCode)
}

func TestScriptRunnerFlagArgsDeterministicOrder(t *testing.T) {
	params := map[string]string{"b": "2", "a": "1"}
	flags := flagArgs(params)
	assert.Equal(t, []string{"--a=1", "--b=2"}, flags)
}

func TestScriptRunnerCustomCommand(t *testing.T) {
	task := config.TaskDescriptor{
		ID:            "A",
		Type:          config.TaskPython,
		ScriptPath:    "/opt/jobs/x.py",
		CustomCommand: "python3 ${script_path} --day=${params.day_id}",
	}
	in := Input{
		Task:           task,
		ResolvedParams: map[string]string{"day_id": "2024-07-15"},
		Resolver:       newResolver(t, nil),
	}

	out, err := ScriptRunner{Interpreter: "python3"}.Invoke(context.Background(), in)
	require.NoError(t, err)
	// python3 almost certainly isn't importable as a real script here, but
	// the runner still reports a completed invocation either way —
	// asserting on Status would be environment-dependent, so just assert
	// the command didn't panic and produced a duration.
	assert.GreaterOrEqual(t, out.DurationMs, int64(0))
}

func TestSQLRunnerResolvesAndInvokesEngine(t *testing.T) {
	dir := t.TempDir()
	sqlPath := filepath.Join(dir, "query.sql")
	require.NoError(t, os.WriteFile(sqlPath, []byte("SELECT '${day_id}'"), 0644))

	// Stand in for the real "hive -f <file>" / "spark-sql -f <file>"
	// convention with a tiny script that cats its "-f" argument, so the
	// test doesn't depend on a real SQL engine being installed.
	fakeEngine := filepath.Join(dir, "fake-engine.sh")
	require.NoError(t, os.WriteFile(fakeEngine, []byte("#!/bin/sh\ncat \"$2\"\n"), 0755))

	task := config.TaskDescriptor{
		ID:           "A",
		Type:         config.TaskHiveSQL,
		SQLFile:      sqlPath,
		EngineConfig: map[string]string{"engine_bin": fakeEngine},
	}
	in := Input{
		Task:           task,
		ResolvedParams: map[string]string{"day_id": "2024-07-15"},
		Resolver:       newResolver(t, map[string]string{"day_id": "2024-07-15"}),
	}

	out, err := SQLRunner{DefaultEngineBin: "hive"}.Invoke(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, out.Status)
	assert.Contains(t, out.Stdout, "SELECT '2024-07-15'")
}

func TestDefaultTableDispatch(t *testing.T) {
	table := DefaultTable()
	r, ok := table.For(config.TaskShell)
	require.True(t, ok)
	assert.IsType(t, ShellRunner{}, r)

	_, ok = table.For(config.TaskType("unknown"))
	assert.False(t, ok)
}
