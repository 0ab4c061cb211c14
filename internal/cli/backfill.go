package cli

import (
	"fmt"

	"github.com/ningyanhui/scheduler-dag/internal/backfill"
	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/ningyanhui/scheduler-dag/internal/dag"
	"github.com/ningyanhui/scheduler-dag/internal/engine"
	"github.com/ningyanhui/scheduler-dag/internal/logger"
	"github.com/spf13/cobra"
)

func newBackfillCmd() *cobra.Command {
	var configPath, backfillParamsPath string
	var jobIDs []string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "re-execute a workflow across a sequence of historical dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd, configPath, backfillParamsPath, jobIDs, concurrency)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the workflow configuration JSON (required)")
	cmd.Flags().StringVar(&backfillParamsPath, "backfill-params", "", "path to the backfill configuration JSON (required)")
	cmd.Flags().StringSliceVar(&jobIDs, "job-ids", nil, "restrict execution to these task ids (only_tasks)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max concurrent tasks per layer (0 = unlimited)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("backfill-params")

	return cmd
}

// runBackfill builds the date-point plan and walks it strictly
// sequentially (spec.md §4.3, §5), aborting the remaining points on the
// first cancellation signal or — once a point fails — continuing per
// fail_fast the same way a single run would within that point.
func runBackfill(cmd *cobra.Command, configPath, backfillParamsPath string, jobIDs []string, concurrency int) error {
	ctx := cmd.Context()
	loader := config.NewLoader()

	wf, err := loader.Load(configPath)
	if err != nil {
		return newCliError(ExitConfigInvalid, "%v", err)
	}

	spec, err := loader.LoadBackfillSpec(backfillParamsPath)
	if err != nil {
		return newCliError(ExitConfigInvalid, "%v", err)
	}

	plan, err := backfill.Build(spec)
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

	allSucceeded := true
	for i, point := range plan.Points {
		if ctx.Err() != nil {
			return newCliError(ExitTaskFailure, "backfill aborted after %d/%d date points: %v", i, len(plan.Points), ctx.Err())
		}

		logger.Info(ctx, "backfill date point starting", "date", point.Date.Format("2006-01-02"), "index", i+1, "total", len(plan.Points))

		if plan.DryRun {
			fmt.Printf("[dry-run] %s: %v\n", point.Date.Format("2006-01-02"), backfill.SortedKeys(point.Overlay))
			continue
		}

		e := engine.New(graph, emitter, concurrency)
		outcome, runErr := e.Run(ctx, point.Overlay, jobIDs)
		if runErr != nil {
			return newCliError(ExitInternalError, "%v", runErr)
		}

		printSummary(outcome)
		if !outcome.Success {
			allSucceeded = false
		}
	}

	if !allSucceeded {
		return newCliError(ExitTaskFailure, "backfill completed with at least one failed date point")
	}
	return nil
}
