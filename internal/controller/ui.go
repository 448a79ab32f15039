// Package controller provides the output adapters that present collection,
// inspection and run results.
package controller

import (
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeCollect StartMode = iota
	ModeRun
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithCollectMode sets the UI to the collection browser.
func WithCollectMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCollect
	}
}

// WithRunMode sets the UI to test execution mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{mode: ModeCollect}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI presents the results of the workflow. Implementations can use different
// output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayCollection(results []m.NotebookResult) error
	DisplayModule(module m.Module) error
	DisplayMagics(reports []m.MagicReport) error
	DisplayExport(dir m.Path, entries []m.ExportEntry) error
	DisplayConcurrencyInfo(workers int, shardIndex int, shardCount int)
	DisplayUpcomingRuns(count int)
	DisplayStartingRun(addr m.CellAddress, workerID int)
	DisplayCompletedRun(result m.RunResult)
}
