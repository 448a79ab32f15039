package controller

import (
	"fmt"
	"sync"

	m "github.com/mouse-blink/ipynb2/internal/model"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI with plain text written to the command output.
// It is used when stdout is not a terminal.
type SimpleUI struct {
	cmd *cobra.Command

	mu      sync.Mutex
	mode    StartMode
	results []m.RunResult
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start records the mode and resets collected run results.
func (s *SimpleUI) Start(options ...StartOption) error {
	cfg := newStartConfig(options...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = cfg.mode
	s.results = nil

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {
}

// Wait prints the run summary in run mode. There is nothing to wait for.
func (s *SimpleUI) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeRun {
		writeRunSummary(s.cmd.OutOrStdout(), s.results)
	}
}

// DisplayCollection prints one line per test item followed by a table of
// per-notebook counts.
func (s *SimpleUI) DisplayCollection(results []m.NotebookResult) error {
	writeCollection(s.cmd.OutOrStdout(), results)
	return nil
}

// DisplayModule prints the generated module source.
func (s *SimpleUI) DisplayModule(module m.Module) error {
	writeModule(s.cmd.OutOrStdout(), module)
	return nil
}

// DisplayMagics prints the lines muggling comments out.
func (s *SimpleUI) DisplayMagics(reports []m.MagicReport) error {
	writeMagics(s.cmd.OutOrStdout(), reports)
	return nil
}

// DisplayExport prints the exported modules.
func (s *SimpleUI) DisplayExport(dir m.Path, entries []m.ExportEntry) error {
	writeExport(s.cmd.OutOrStdout(), dir, entries)
	return nil
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(workers int, shardIndex int, shardCount int) {
	s.printf("Running with %d worker(s), shard %d/%d\n", workers, shardIndex, shardCount)
}

// DisplayUpcomingRuns shows the number of test cells about to run.
func (s *SimpleUI) DisplayUpcomingRuns(count int) {
	s.printf("Upcoming test cells: %d\n", count)
}

// DisplayStartingRun is silent; completed runs carry the useful output.
func (s *SimpleUI) DisplayStartingRun(_ m.CellAddress, _ int) {
}

// DisplayCompletedRun prints the status of one test cell, and its runner
// output when it did not pass.
func (s *SimpleUI) DisplayCompletedRun(result m.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, result)

	s.printf("%-8s %s\n", statusLabel(result.Status), pathColor.Sprint(result.Address.Display()))

	if result.Status == m.Passed {
		return
	}

	if result.Output != "" {
		s.printf("%s\n", faintColor.Sprint(result.Output))
	}

	if result.Err != nil {
		s.printf("  %v\n", result.Err)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
