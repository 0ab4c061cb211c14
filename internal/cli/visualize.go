package cli

import (
	"fmt"
	"os"

	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/ningyanhui/scheduler-dag/internal/dag"
	"github.com/ningyanhui/scheduler-dag/internal/visualize"
	"github.com/spf13/cobra"
)

func newVisualizeCmd() *cobra.Command {
	var configPath, outputPath, paramsPath string

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "render a workflow's DAG structure as Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			wf, err := loader.Load(configPath)
			if err != nil {
				return newCliError(ExitConfigInvalid, "%v", err)
			}

			// A runtime overlay doesn't change the DAG's structure, only
			// the values tasks would see at dispatch time — it's
			// accepted here for interface parity with `run`/`backfill`
			// but has no effect on the structural rendering.
			if _, err := loader.LoadRuntimeOverlay(paramsPath); err != nil {
				return newCliError(ExitConfigInvalid, "%v", err)
			}

			graph, err := dag.Build(wf)
			if err != nil {
				return newCliError(ExitConfigInvalid, "%v", err)
			}

			dot, err := visualize.Render(graph)
			if err != nil {
				return newCliError(ExitInternalError, "%v", err)
			}

			if outputPath == "" {
				fmt.Print(dot)
				return nil
			}
			if err := os.WriteFile(outputPath, []byte(dot), 0644); err != nil {
				return newCliError(ExitInternalError, "writing output: %v", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the workflow configuration JSON (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "write the DOT output to this path instead of stdout")
	cmd.Flags().StringVar(&paramsPath, "params", "", "path to a runtime parameter overlay JSON")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
