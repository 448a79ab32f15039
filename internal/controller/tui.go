package controller

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. Collection and
// run results are shown in a program; single-shot outputs such as a module
// listing are written to the output directly.
type TUI struct {
	output io.Writer
	input  io.Reader

	mu      sync.Mutex
	program *tea.Program
	started bool
	done    chan struct{}
	err     error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the program for the requested mode.
func (t *TUI) Start(options ...StartOption) error {
	cfg := newStartConfig(options...)

	if cfg.mode == ModeRun {
		return t.startWithModel(newRunModel(), tea.WithMouseCellMotion())
	}

	return t.startWithModel(newCollectionModel())
}

func (t *TUI) startWithModel(model tea.Model, opts ...tea.ProgramOption) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	options := []tea.ProgramOption{tea.WithOutput(t.output)}
	if t.input != nil {
		options = append(options, tea.WithInput(t.input))
	}

	options = append(options, opts...)

	program := tea.NewProgram(model, options...)
	done := make(chan struct{})

	t.program = program
	t.started = true
	t.done = done
	t.err = nil

	go func() {
		_, err := program.Run()

		t.mu.Lock()
		t.err = err
		t.mu.Unlock()

		close(done)
	}()

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(msg)
}

func (t *TUI) ensureStarted() {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if started {
		return
	}

	_ = t.startWithModel(newRunModel(), tea.WithMouseCellMotion())
}

func (t *TUI) running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.program != nil
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	<-done

	t.mu.Lock()
	err := t.err
	t.mu.Unlock()

	if err != nil {
		_, _ = fmt.Fprintf(t.output, "ui error: %v\n", err)
	}
}

// Close stops the program if it is still running.
func (t *TUI) Close() {
	t.mu.Lock()
	program := t.program
	done := t.done
	t.program = nil
	t.started = false
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// DisplayCollection feeds the collection browser, or prints the collection
// when no program is running.
func (t *TUI) DisplayCollection(results []m.NotebookResult) error {
	if !t.running() {
		writeCollection(t.output, results)
		return nil
	}

	t.send(newCollectionMsg(results))

	return nil
}

// DisplayModule prints the generated module source.
func (t *TUI) DisplayModule(module m.Module) error {
	writeModule(t.output, module)
	return nil
}

// DisplayMagics prints the lines muggling comments out.
func (t *TUI) DisplayMagics(reports []m.MagicReport) error {
	writeMagics(t.output, reports)
	return nil
}

// DisplayExport prints the exported modules.
func (t *TUI) DisplayExport(dir m.Path, entries []m.ExportEntry) error {
	writeExport(t.output, dir, entries)
	return nil
}

// DisplayConcurrencyInfo shows concurrency settings.
func (t *TUI) DisplayConcurrencyInfo(workers int, shardIndex int, shardCount int) {
	t.ensureStarted()
	t.send(concurrencyMsg{workers: workers, shardIndex: shardIndex, shards: shardCount})
}

// DisplayUpcomingRuns shows the number of test cells about to run.
func (t *TUI) DisplayUpcomingRuns(count int) {
	t.send(upcomingMsg{count: count})
}

// DisplayStartingRun marks a worker busy with a test cell.
func (t *TUI) DisplayStartingRun(addr m.CellAddress, workerID int) {
	t.send(startRunMsg{key: addr.Key(), label: addr.Display(), worker: workerID})
}

// DisplayCompletedRun adds a finished test cell to the results.
func (t *TUI) DisplayCompletedRun(result m.RunResult) {
	output := result.Output
	if result.Err != nil && result.Status != m.Passed {
		output = strings.TrimRight(output, "\n") + "\n" + result.Err.Error()
	}

	t.send(completedRunMsg{
		key:    result.Address.Key(),
		label:  result.Address.Display(),
		status: result.Status.String(),
		output: output,
	})
}

func newCollectionMsg(results []m.NotebookResult) collectionMsg {
	msg := collectionMsg{notebooks: len(results)}

	for _, result := range results {
		msg.cells += len(result.Tests)

		if result.Err != nil {
			msg.items = append(msg.items, collectionItem{label: string(result.Path), kind: kindError, detail: result.Err.Error()})
			continue
		}

		for _, item := range result.Items {
			msg.items = append(msg.items, collectionItem{label: itemLabel(item), kind: kindTest})
		}

		indices := make([]int, 0, len(result.CellErrors))
		for index := range result.CellErrors {
			indices = append(indices, index)
		}

		sort.Ints(indices)

		for _, index := range indices {
			addr := m.CellAddress{Notebook: result.Path, Cell: index}
			msg.items = append(msg.items, collectionItem{label: addr.Display(), kind: kindSkipped, detail: result.CellErrors[index].Error()})
		}
	}

	return msg
}
