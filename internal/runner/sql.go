package runner

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/ningyanhui/scheduler-dag/internal/util"
)

// SQLRunner executes spark-sql/hive-sql tasks: the task's SQL file is read
// from disk, resolved through the template resolver (all "${...}"
// expanded), written to a scratch file, and passed to the configured
// engine binary together with the task's engine_config map rendered as
// "--key=value" flags (spec.md §4.6). DefaultEngineBin is used when the
// task's engine_config does not override it via an "engine_bin" entry.
type SQLRunner struct {
	DefaultEngineBin string
}

func (s SQLRunner) Invoke(ctx context.Context, in Input) (Outcome, error) {
	raw, err := os.ReadFile(in.Task.SQLFile)
	if err != nil {
		return Outcome{Status: StatusError, ErrorMessage: fmt.Sprintf("reading sql_file: %v", err)}, nil
	}

	resolvedSQL := in.Resolver.Resolve(string(raw))

	dir := util.MustTempDir("sql-task")
	defer os.RemoveAll(dir)
	scratch := dir + "/query.sql"
	if err := os.WriteFile(scratch, []byte(resolvedSQL), 0644); err != nil {
		return Outcome{Status: StatusError, ErrorMessage: fmt.Sprintf("writing scratch sql file: %v", err)}, nil
	}

	engineBin := s.DefaultEngineBin
	engineConfig := make(map[string]string, len(in.Task.EngineConfig))
	for k, v := range in.Task.EngineConfig {
		if k == "engine_bin" {
			engineBin = v
			continue
		}
		engineConfig[k] = v
	}

	args := []string{"-f", scratch}
	args = append(args, engineConfigFlags(engineConfig)...)

	return runProcess(ctx, in.WorkingDir, engineBin, args)
}

func engineConfigFlags(cfg map[string]string) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("--%s=%s", k, cfg[k]))
	}
	return out
}
