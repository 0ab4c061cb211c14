package runner

import "context"

// ShellRunner executes a task's resolved `command` string verbatim
// (spec.md §4.6: "Shell-type tasks always use the resolved command
// string" — custom_command only applies to script-style runners).
type ShellRunner struct{}

func (ShellRunner) Invoke(ctx context.Context, in Input) (Outcome, error) {
	resolved := in.Resolver.Resolve(in.Task.Command)
	return splitAndRun(ctx, in.WorkingDir, resolved)
}
