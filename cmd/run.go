package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/ipynb2/internal/domain"
)

const runLongDescription = `Run every test cell as its own pytest module.

The module for a test cell holds the code cells above it followed by the
test cell body. It is written to a temporary directory and the runner
(python -m pytest -q by default, see the runner config key) is started in
the notebook's directory. The command fails when any cell fails.

Use --shard INDEX/TOTAL to split the test cells across CI jobs.`

var runParallelFlag int
var runShardFlag string
var runExcludeFlags []string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run notebook test cells",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			shardIndex, totalShards := parseShardFlag(runShardFlag)

			return workflow.Run(cmd.Context(), domain.RunArgs{
				CollectArgs:     newCollectArgs(cmd, args, runExcludeFlags, runParallelFlag),
				ShardIndex:      shardIndex,
				TotalShardCount: totalShards,
			})
		},
	}
	addCollectFlags(cmd, &runExcludeFlags, &runParallelFlag)
	cmd.Flags().StringVarP(&runShardFlag, "shard", "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
