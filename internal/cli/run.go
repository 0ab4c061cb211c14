package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ningyanhui/scheduler-dag/internal/alert"
	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/ningyanhui/scheduler-dag/internal/dag"
	"github.com/ningyanhui/scheduler-dag/internal/engine"
	"github.com/ningyanhui/scheduler-dag/internal/util"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var configPath, paramsPath string
	var jobIDs []string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "execute a workflow once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, configPath, paramsPath, jobIDs, concurrency)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the workflow configuration JSON (required)")
	cmd.Flags().StringVar(&paramsPath, "params", "", "path to a runtime parameter overlay JSON")
	cmd.Flags().StringSliceVar(&jobIDs, "job-ids", nil, "restrict execution to these task ids (only_tasks)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max concurrent tasks per layer (0 = unlimited)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// runWorkflow loads, builds, and executes one workflow run, printing the
// per-task summary table and returning a *cliError carrying the process
// exit code (spec.md §6, §7).
func runWorkflow(cmd *cobra.Command, configPath, paramsPath string, jobIDs []string, concurrency int) error {
	ctx := cmd.Context()
	loader := config.NewLoader()

	wf, err := loader.Load(configPath)
	if err != nil {
		return newCliError(ExitConfigInvalid, "%v", err)
	}

	overlay, err := loader.LoadRuntimeOverlay(paramsPath)
	if err != nil {
		return newCliError(ExitConfigInvalid, "%v", err)
	}

	graph, err := dag.Build(wf)
	if err != nil {
		return newCliError(ExitConfigInvalid, "%v", err)
	}

	emitter, err := buildEmitter(wf)
	if err != nil {
		return newCliError(ExitConfigInvalid, "%v", err)
	}

	e := engine.New(graph, emitter, concurrency)
	outcome, err := e.Run(ctx, overlay, jobIDs)
	if err != nil {
		return newCliError(ExitInternalError, "%v", err)
	}

	printSummary(outcome)

	if !outcome.Success {
		return newCliError(ExitTaskFailure, "workflow %q failed", wf.Name)
	}
	return nil
}

// buildEmitter constructs the alert emitter for wf's `alert` block, or a
// nil-transport emitter if none is configured.
func buildEmitter(wf *config.WorkflowDescriptor) (*alert.Emitter, error) {
	if wf.Alert == nil {
		return alert.NewEmitter(wf.Name, alert.Config{}, nil), nil
	}
	transport, err := alert.ResolveTransport(wf.Alert.Transport)
	if err != nil {
		return nil, err
	}
	cfg := alert.Config{
		Transport:  wf.Alert.Transport,
		Endpoint:   wf.Alert.Endpoint,
		AtAll:      wf.Alert.AtAll,
		Recipients: wf.Alert.Recipients,
		Subject:    wf.Alert.Subject,
	}
	return alert.NewEmitter(wf.Name, cfg, transport), nil
}

// printSummary renders the per-task state/duration/error table (spec.md
// §7's CLI summary) with go-pretty, matching the teacher's renderTable.
func printSummary(outcome *engine.Outcome) {
	fmt.Printf("run_id: %s\n", outcome.RunID)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Task", "State", "Duration", "Error"})
	for i, r := range outcome.Results {
		duration := "-"
		if !r.Start.IsZero() && !r.End.IsZero() {
			duration = util.FormatDuration(r.End.Sub(r.Start), "-")
		}
		t.AppendRow(table.Row{i + 1, r.TaskID, r.State, duration, util.TruncString(r.ErrorText, 80)})
	}
	t.Render()
}
