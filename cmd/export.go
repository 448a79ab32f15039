package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	"github.com/mouse-blink/ipynb2/internal/config"
	"github.com/mouse-blink/ipynb2/internal/domain"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

var exportOutFlag string
var exportExcludeFlags []string
var exportParallelFlag int

// exportCmd represents the export command.
var exportCmd = newExportCmd()

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [paths...]",
		Short: "Write test cells as Python modules",
		Long: `Write one Python test module per test cell into a directory, together
with ` + adapter.IndexFileName + ` mapping every module back to its notebook cell and the
line at which the test cell body starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir := exportOutFlag
			if outDir == "" {
				outDir = cfg.ExportDir
			}

			return workflow.Export(cmd.Context(), domain.ExportArgs{
				CollectArgs: newCollectArgs(cmd, args, exportExcludeFlags, exportParallelFlag),
				OutDir:      m.Path(outDir),
			})
		},
	}
	addCollectFlags(cmd, &exportExcludeFlags, &exportParallelFlag)
	cmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "output directory (default "+config.DefaultExportDir+" or the export_dir config key)")

	return cmd
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
