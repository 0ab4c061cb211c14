package cli

import (
	"fmt"
	"sort"

	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "print a workflow's task list, edge list, and parameter map",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := config.NewLoader().Load(configPath)
			if err != nil {
				return newCliError(ExitConfigInvalid, "%v", err)
			}
			printInfo(wf)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the workflow configuration JSON (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func printInfo(wf *config.WorkflowDescriptor) {
	fmt.Printf("name: %s\n", wf.Name)
	if wf.Description != "" {
		fmt.Printf("description: %s\n", wf.Description)
	}
	fmt.Printf("fail_fast: %t\n", wf.FailFast)

	fmt.Println("\nparams:")
	for _, k := range sortedKeys(wf.Params) {
		fmt.Printf("  %s = %s\n", k, wf.Params[k])
	}

	fmt.Println("\ntasks:")
	for _, t := range wf.Tasks {
		fmt.Printf("  %s (%s)\n", t.ID, t.Type)
	}

	fmt.Println("\ndependencies:")
	for _, d := range wf.Dependencies {
		fmt.Printf("  %s -> %s\n", d.From, d.To)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
