package runner

import (
	"context"
	"fmt"
	"sort"

	"github.com/ningyanhui/scheduler-dag/internal/params"
)

// ScriptRunner executes python/pyspark-style tasks: Interpreter is
// "python3" for config.TaskPython and "spark-submit" for
// config.TaskPySpark. By default it invokes the interpreter against the
// task's script_path, passing resolved task parameters as "--key=value"
// flags; a custom_command template, if present, overrides this entirely
// (spec.md §4.6).
type ScriptRunner struct {
	Interpreter string
}

func (s ScriptRunner) Invoke(ctx context.Context, in Input) (Outcome, error) {
	if in.Task.CustomCommand != "" {
		cmdline := resolveCustomCommand(in)
		return splitAndRun(ctx, in.WorkingDir, cmdline)
	}

	args := []string{in.Task.ScriptPath}
	args = append(args, flagArgs(in.ResolvedParams)...)
	return runProcess(ctx, in.WorkingDir, s.Interpreter, args)
}

// flagArgs renders a parameter map as "--key=value" flags. Task parameter
// maps are decoded from JSON objects, which Go's encoding/json does not
// preserve the original key order of; flags are emitted in sorted key
// order so the resulting command line is at least deterministic across
// runs.
func flagArgs(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("--%s=%s", k, params[k]))
	}
	return out
}

// resolveCustomCommand expands a task's custom_command template through
// the extended scope exposing script_path and the params.<name> accessor.
func resolveCustomCommand(in Input) string {
	extra := map[string]string{"script_path": in.Task.ScriptPath}
	scope := params.NewCustomCommandScope(params.MapLookuper(in.ResolvedParams), in.ResolvedParams, extra)
	r := params.NewResolver(context.Background(), scope, in.Resolver.RefDate())
	return r.Resolve(in.Task.CustomCommand)
}
