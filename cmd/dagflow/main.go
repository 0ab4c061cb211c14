// Command dagflow drives the workflow scheduler: run, backfill,
// visualize, info.
package main

import (
	"os"

	"github.com/ningyanhui/scheduler-dag/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
