// Package cmd provides the root command and CLI setup for ipynb2.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	"github.com/mouse-blink/ipynb2/internal/config"
	"github.com/mouse-blink/ipynb2/internal/controller"
	"github.com/mouse-blink/ipynb2/internal/domain"
	"github.com/mouse-blink/ipynb2/internal/domain/transforms"
	m "github.com/mouse-blink/ipynb2/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var cfg = config.DefaultConfig()
var logger = zap.NewNop()
var workflow domain.Workflow
var ui controller.UI

// buildWorkflow wires the workflow once configuration and logger are known.
var buildWorkflow = newWorkflow

var configFlag string
var verboseFlag bool
var listFlag bool
var parallelFlag int
var shardFlag string
var excludeFlags []string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ipynb2 [paths...]",
		Short: "Collect and run tests written in Jupyter notebooks",
		Long: `ipynb2 finds test cells in Jupyter notebooks, turns each one into a plain
Python test module and runs it with pytest.

A cell is a test cell when its first line starts with the %%ipytest cell
magic. Every code cell above a test cell becomes its setup. IPython-only
lines such as %magics, !shell commands and get_ipython() calls are
commented out so the module is valid Python.

Paths may be notebooks, directories, or directories ending in /... to
search recursively. Without a subcommand all test cells are run; with
--list they are only collected.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			collectArgs := newCollectArgs(cmd, args, excludeFlags, parallelFlag)
			if listFlag {
				return workflow.List(cmd.Context(), collectArgs)
			}

			shardIndex, totalShards := parseShardFlag(shardFlag)

			return workflow.Run(cmd.Context(), domain.RunArgs{
				CollectArgs:     collectArgs,
				ShardIndex:      shardIndex,
				TotalShardCount: totalShards,
			})
		},
	}
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to a YAML config file (default "+config.DefaultConfigFile+" if present)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVarP(&listFlag, "list", "l", false, "only list collected tests")
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", config.DefaultWorkers, "number of parallel workers")
	cmd.Flags().StringVarP(&shardFlag, "shard", "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
	cmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude notebooks matching regex (can be repeated)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, domain.ErrTestsFailed) {
		return 1
	}

	return 2
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error

	logger, err = newLogger(verboseFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err = config.Load(configFlag)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		zap.String("marker", cfg.Marker),
		zap.Strings("runner", cfg.Runner),
		zap.Int("workers", cfg.Workers),
	)

	workflow = buildWorkflow(cmd, cfg, logger)

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return zapConfig.Build()
}

func newWorkflow(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) domain.Workflow {
	ui = controller.NewUI(cmd.Root(), useTTY(cmd))

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	python := adapter.NewTreeSitterPythonAdapter()

	detector := domain.NewMagicDetector(transforms.NewIPythonTransformer(), python, cfg.RuntimeNames, cfg.MagicModules)
	loader := domain.NewLoader(fsAdapter, adapter.NewLocalNotebookAdapter())
	session := domain.NewSession(loader, domain.NewMuggler(detector), cfg.Marker, logger)
	collector := domain.NewCollector(python, cfg.TestPrefix, cfg.TestClassPrefix)
	orchestrator := domain.NewOrchestrator(fsAdapter, adapter.NewLocalTestRunnerAdapter(), cfg.Runner, logger)

	return domain.NewWorkflow(
		fsAdapter,
		adapter.NewIndexStore(),
		ui,
		session,
		detector,
		collector,
		orchestrator,
		domain.WorkflowOptions{Extensions: cfg.Extensions, Logger: logger},
	)
}

// useTTY selects the interactive UI only when output goes to the process
// stdout, which is a terminal, and keyboard input is available.
func useTTY(cmd *cobra.Command) bool {
	out, ok := cmd.Root().OutOrStdout().(*os.File)
	if !ok || out != os.Stdout {
		return false
	}

	return controller.IsTTY(out) && term.IsTerminal(int(os.Stdin.Fd()))
}

func newCollectArgs(cmd *cobra.Command, args []string, excludes []string, parallel int) domain.CollectArgs {
	workers := cfg.Workers
	if cmd.Flags().Changed("parallel") {
		workers = parallel
	}

	exclude := make([]string, 0, len(cfg.Exclude)+len(excludes))
	exclude = append(exclude, cfg.Exclude...)
	exclude = append(exclude, excludes...)

	return domain.CollectArgs{
		Paths:   parsePaths(args),
		Exclude: exclude,
		Workers: workers,
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
