package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/ipynb2/internal/config"
)

const listLongDescription = `List the tests collected from notebook test cells.

Each test is printed as notebook::CellN::name, followed by a summary per
notebook. Cells that failed to parse are reported and left out of the
test modules; a notebook that cannot be read is reported as an error.`

// listCmd represents the list command.
var listCmd = newListCmd()
var listExcludeFlags []string
var listParallelFlag int

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List tests collected from notebooks",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), newCollectArgs(cmd, args, listExcludeFlags, listParallelFlag))
		},
	}
	addCollectFlags(cmd, &listExcludeFlags, &listParallelFlag)

	return cmd
}

// addCollectFlags registers the flags shared by commands that collect notebooks.
func addCollectFlags(cmd *cobra.Command, exclude *[]string, parallel *int) {
	cmd.Flags().StringArrayVarP(exclude, "exclude", "x", nil, "exclude notebooks matching regex (can be repeated)")
	cmd.Flags().IntVarP(parallel, "parallel", "p", config.DefaultWorkers, "number of parallel workers (default from the workers config key)")
}

func init() {
	rootCmd.AddCommand(listCmd)
}
