package cmd

import (
	"github.com/spf13/cobra"
)

var magicsExcludeFlags []string
var magicsParallelFlag int

// magicsCmd represents the magics command.
var magicsCmd = newMagicsCmd()

func newMagicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "magics [paths...]",
		Short: "Report IPython lines that are commented out",
		Long: `Report, per cell, the lines that are commented out when a notebook is
turned into test modules, together with the IPython names that caused it.
Line numbers are relative to the cell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Magics(cmd.Context(), newCollectArgs(cmd, args, magicsExcludeFlags, magicsParallelFlag))
		},
	}
	addCollectFlags(cmd, &magicsExcludeFlags, &magicsParallelFlag)

	return cmd
}

func init() {
	rootCmd.AddCommand(magicsCmd)
}
