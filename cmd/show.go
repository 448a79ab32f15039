package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/ipynb2/internal/domain"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <address>",
		Short: "Print the module generated for a test cell",
		Long: `Print the Python module generated for one test cell.

The address is either a token such as "<nb/demo.ipynb>[Cell3]", optionally
followed by "::test_name", or the displayed form "nb/demo.ipynb::Cell3".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Show(cmd.Context(), domain.ShowArgs{Address: args[0]})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(showCmd)
}
