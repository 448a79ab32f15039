// Package domain contains the notebook collection engine: loading,
// classification, magic detection, muggling and the workflows built on them.
package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	"github.com/mouse-blink/ipynb2/internal/controller"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// DefaultExtensions are the notebook file extensions collected by default.
var DefaultExtensions = []string{".ipynb"}

// ErrTestsFailed is returned by Run when at least one test cell did not pass
// or a notebook could not be collected.
var ErrTestsFailed = errors.New("notebook tests failed")

// CollectArgs selects the notebooks of a workflow step. Exclude holds
// regular expressions matched against the notebook path, both absolute and
// relative to the working directory.
type CollectArgs struct {
	Paths   []m.Path
	Exclude []string
	Workers int
}

// ShowArgs selects one test cell by its address token or "path::CellN".
type ShowArgs struct {
	Address string
}

// ExportArgs writes one module per test cell into OutDir.
type ExportArgs struct {
	CollectArgs
	OutDir m.Path
}

// RunArgs runs the selected test cells, optionally as one shard of many.
type RunArgs struct {
	CollectArgs
	ShardIndex      int
	TotalShardCount int
}

// Workflow defines the operations exposed on the command line.
type Workflow interface {
	Collect(ctx context.Context, args CollectArgs) ([]m.NotebookResult, error)
	List(ctx context.Context, args CollectArgs) error
	Show(ctx context.Context, args ShowArgs) error
	Magics(ctx context.Context, args CollectArgs) error
	Export(ctx context.Context, args ExportArgs) error
	Run(ctx context.Context, args RunArgs) error
}

// WorkflowOptions tunes a Workflow.
type WorkflowOptions struct {
	Extensions []string
	Logger     *zap.Logger
}

type workflow struct {
	fsAdapter  adapter.SourceFSAdapter
	indexStore adapter.IndexStore
	ui         controller.UI
	session    *Session
	detector   MagicDetector
	collector  Collector
	orch       Orchestrator
	extensions []string
	logger     *zap.Logger
}

// NewWorkflow wires a Workflow from its collaborators.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	indexStore adapter.IndexStore,
	ui controller.UI,
	session *Session,
	detector MagicDetector,
	collector Collector,
	orch Orchestrator,
	opts WorkflowOptions,
) Workflow {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &workflow{
		fsAdapter:  fsAdapter,
		indexStore: indexStore,
		ui:         ui,
		session:    session,
		detector:   detector,
		collector:  collector,
		orch:       orch,
		extensions: opts.Extensions,
		logger:     opts.Logger,
	}
}

// Collect loads every notebook under args.Paths with up to args.Workers
// loaders in parallel. A notebook that fails to load is reported in its
// result and does not stop the others. Results are sorted by path.
func (w *workflow) Collect(ctx context.Context, args CollectArgs) ([]m.NotebookResult, error) {
	paths := args.Paths
	if len(paths) == 0 {
		paths = []m.Path{"."}
	}

	excludes, err := compileExcludes(args.Exclude)
	if err != nil {
		return nil, err
	}

	found, err := w.fsAdapter.Get(paths, w.extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to find notebooks: %w", err)
	}

	notebooks := make([]m.Path, 0, len(found))
	for _, path := range found {
		if isExcluded(path, excludes) {
			w.logger.Debug("notebook excluded", zap.String("notebook", string(path)))
			continue
		}

		notebooks = append(notebooks, path)
	}

	w.logger.Debug("notebooks found", zap.Int("count", len(notebooks)))

	results := make([]m.NotebookResult, len(notebooks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(args.Workers, 1))

	for i, path := range notebooks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = w.collectNotebook(gctx, path)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func isExcluded(path m.Path, excludes []*regexp.Regexp) bool {
	if len(excludes) == 0 {
		return false
	}

	candidates := []string{filepath.ToSlash(string(path))}

	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, string(path)); err == nil {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
	}

	for _, re := range excludes {
		for _, candidate := range candidates {
			if re.MatchString(candidate) {
				return true
			}
		}
	}

	return false
}

func (w *workflow) collectNotebook(ctx context.Context, path m.Path) m.NotebookResult {
	result := m.NotebookResult{Path: path}

	parsed, err := w.session.Notebook(path)
	if err != nil {
		w.logger.Warn("notebook skipped", zap.String("notebook", string(path)), zap.Error(err))
		result.Err = err

		return result
	}

	result.Tests = parsed.TestAddresses()
	result.CellErrors = maps.Clone(parsed.CellErrors)

	items, failures := w.collector.Items(ctx, parsed)
	for index, err := range failures {
		w.logger.Warn("test discovery failed", zap.String("cell", parsed.Address(index).Display()), zap.Error(err))

		if result.CellErrors == nil {
			result.CellErrors = make(map[int]error, len(failures))
		}

		result.CellErrors[index] = err
	}

	result.Items = items

	return result
}

// List shows the collected test cells and their tests.
func (w *workflow) List(ctx context.Context, args CollectArgs) error {
	results, err := w.Collect(ctx, args)
	if err != nil {
		return err
	}

	if err := w.ui.Start(controller.WithCollectMode()); err != nil {
		return err
	}
	defer w.ui.Close()

	if err := w.ui.DisplayCollection(results); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

// Show prints the module a runner would execute for one test cell.
func (w *workflow) Show(_ context.Context, args ShowArgs) error {
	addr, err := ParseCellReference(args.Address)
	if err != nil {
		return err
	}

	module, err := w.session.Module(addr)
	if err != nil {
		return err
	}

	return w.ui.DisplayModule(module)
}

// Magics reports the lines that muggling comments out in every code and
// test cell. Line numbers refer to the notebook cell.
func (w *workflow) Magics(ctx context.Context, args CollectArgs) error {
	results, err := w.Collect(ctx, args)
	if err != nil {
		return err
	}

	var reports []m.MagicReport

	for _, result := range results {
		if result.Err != nil {
			reports = append(reports, m.MagicReport{Address: m.CellAddress{Notebook: result.Path, Cell: -1}, Err: result.Err})
			continue
		}

		parsed, err := w.session.Notebook(result.Path)
		if err != nil {
			return err
		}

		reports = append(reports, w.magicReports(parsed)...)
	}

	return w.ui.DisplayMagics(reports)
}

func (w *workflow) magicReports(parsed *ParsedNotebook) []m.MagicReport {
	var reports []m.MagicReport

	for _, cell := range parsed.Notebook.Cells() {
		report := m.MagicReport{Address: parsed.Address(cell.Index)}

		var (
			source m.Source
			shift  int
		)

		switch {
		case parsed.Code.Has(cell.Index):
			report.Class = m.ClassCode
			source, _ = parsed.Code.Get(cell.Index)
		case parsed.Test.Has(cell.Index):
			report.Class = m.ClassTest
			source, _ = parsed.Test.Get(cell.Index)
			shift = 1
		default:
			continue
		}

		detection, err := w.detector.Detect(source)
		if err != nil {
			report.Err = err
			reports = append(reports, report)

			continue
		}

		if len(detection.Lines) == 0 {
			continue
		}

		report.Names = detection.Names
		for _, line := range detection.Lines {
			report.Lines = append(report.Lines, line+shift)
		}

		reports = append(reports, report)
	}

	return reports
}

// Export writes every test cell module to args.OutDir together with an
// index mapping the files back to their cells.
func (w *workflow) Export(ctx context.Context, args ExportArgs) error {
	results, err := w.Collect(ctx, args.CollectArgs)
	if err != nil {
		return err
	}

	if err := w.fsAdapter.MkdirAll(args.OutDir); err != nil {
		return fmt.Errorf("failed to create %s: %w", args.OutDir, err)
	}

	previous := w.previousExport(args.OutDir)

	var entries []m.ExportEntry

	used := make(map[string]int)

	for _, result := range results {
		for _, addr := range result.Tests {
			module, err := w.session.Module(addr)
			if err != nil {
				w.logger.Warn("test cell not exported", zap.String("address", addr.String()), zap.Error(err))
				continue
			}

			name := uniqueName(ModuleFileName(addr), used)

			path := w.fsAdapter.JoinPath(string(args.OutDir), name)
			if err := w.fsAdapter.WriteFile(path, []byte(module.Text()), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			hash, err := w.fsAdapter.HashFile(path)
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", path, err)
			}

			entries = append(entries, m.ExportEntry{
				File:        m.Path(name),
				Address:     addr.String(),
				Notebook:    addr.Notebook,
				Cell:        addr.Cell,
				LineOffset:  module.TestLineOffset(),
				NotebookRel: w.relativeTo(args.OutDir, addr.Notebook),
				SHA256:      hash,
			})
		}
	}

	w.removeStale(args.OutDir, previous, entries)

	if err := w.indexStore.SaveIndex(args.OutDir, entries); err != nil {
		return fmt.Errorf("failed to save export index: %w", err)
	}

	return w.ui.DisplayExport(args.OutDir, entries)
}

// previousExport returns the index of an earlier export into dir, if any.
func (w *workflow) previousExport(dir m.Path) []m.ExportEntry {
	entries, err := w.indexStore.LoadIndex(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("previous index ignored", zap.String("dir", string(dir)), zap.Error(err))
		}

		return nil
	}

	return entries
}

// removeStale deletes modules of an earlier export that the current one no
// longer produces, such as cells that stopped being test cells.
func (w *workflow) removeStale(dir m.Path, previous, current []m.ExportEntry) {
	kept := make(map[m.Path]struct{}, len(current))
	for _, entry := range current {
		kept[entry.File] = struct{}{}
	}

	for _, entry := range previous {
		if _, ok := kept[entry.File]; ok || entry.File == "" || filepath.Base(string(entry.File)) != string(entry.File) {
			continue
		}

		path := w.fsAdapter.JoinPath(string(dir), string(entry.File))
		if err := w.fsAdapter.RemoveAll(path); err != nil {
			w.logger.Warn("stale module not removed", zap.String("file", string(path)), zap.Error(err))
			continue
		}

		w.logger.Debug("stale module removed", zap.String("file", string(path)))
	}
}

func (w *workflow) relativeTo(dir m.Path, notebook m.Path) m.Path {
	base, err := filepath.Abs(string(dir))
	if err != nil {
		return ""
	}

	target, err := filepath.Abs(string(notebook))
	if err != nil {
		return ""
	}

	rel, err := w.fsAdapter.RelPath(m.Path(base), m.Path(target))
	if err != nil {
		return ""
	}

	return m.Path(filepath.ToSlash(string(rel)))
}

// uniqueName disambiguates modules of equally named notebooks in different
// directories: test_demo_cell1.py, test_demo_cell1_2.py, ...
func uniqueName(name string, used map[string]int) string {
	used[name]++
	if used[name] == 1 {
		return name
	}

	stem := strings.TrimSuffix(name, ".py")

	return uniqueName(fmt.Sprintf("%s_%d.py", stem, used[name]), used)
}

// Run executes every selected test cell with the orchestrator, up to
// args.Workers at a time.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	results, err := w.Collect(ctx, args.CollectArgs)
	if err != nil {
		return err
	}

	failed := false

	var addresses []m.CellAddress

	broken := make(map[m.CellAddress]error)

	for _, result := range results {
		if result.Err != nil {
			failed = true
			continue
		}

		addresses = append(addresses, result.Tests...)

		for _, addr := range result.Tests {
			if err, ok := result.CellErrors[addr.Cell]; ok {
				broken[addr] = err
			}
		}
	}

	addresses = shardAddresses(addresses, args.ShardIndex, args.TotalShardCount)
	workers := max(args.Workers, 1)

	if err := w.ui.Start(controller.WithRunMode()); err != nil {
		return err
	}
	defer w.ui.Close()

	w.ui.DisplayConcurrencyInfo(workers, args.ShardIndex, max(args.TotalShardCount, 1))
	w.ui.DisplayUpcomingRuns(len(addresses))

	runResults := w.runAll(ctx, addresses, workers, broken)

	for _, result := range runResults {
		if result.Status != m.Passed {
			failed = true
		}
	}

	w.ui.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	if failed {
		return ErrTestsFailed
	}

	return nil
}

// runAll runs addresses on up to workers slots. Cells listed in broken are
// reported as errored without invoking the runner.
func (w *workflow) runAll(ctx context.Context, addresses []m.CellAddress, workers int, broken map[m.CellAddress]error) []m.RunResult {
	results := make([]m.RunResult, len(addresses))

	slots := make(chan int, workers)
	for id := range workers {
		slots <- id
	}

	var g errgroup.Group

	g.SetLimit(workers)

	for i, addr := range addresses {
		g.Go(func() error {
			id := <-slots
			defer func() { slots <- id }()

			w.ui.DisplayStartingRun(addr, id)

			results[i] = w.runCell(ctx, addr, broken[addr])

			w.ui.DisplayCompletedRun(results[i])

			return nil
		})
	}

	_ = g.Wait()

	return results
}

func (w *workflow) runCell(ctx context.Context, addr m.CellAddress, cellErr error) m.RunResult {
	if err := ctx.Err(); err != nil {
		return m.RunResult{Address: addr, Status: m.Errored, Err: err}
	}

	if cellErr != nil {
		return m.RunResult{Address: addr, Status: m.Errored, Err: cellErr}
	}

	module, err := w.session.Module(addr)
	if err != nil {
		return m.RunResult{Address: addr, Status: m.Errored, Err: err}
	}

	result := w.orch.RunModule(ctx, module)

	w.logger.Info("test cell finished",
		zap.String("address", addr.String()),
		zap.Stringer("status", result.Status))

	return result
}

// shardAddresses keeps every total-th address starting at index. Invalid
// shard settings select everything.
func shardAddresses(addresses []m.CellAddress, index, total int) []m.CellAddress {
	if total <= 1 || index < 0 || index >= total {
		return addresses
	}

	var shard []m.CellAddress

	for i, addr := range addresses {
		if i%total == index {
			shard = append(shard, addr)
		}
	}

	return shard
}

// ParseCellReference accepts an address token ("<nb.ipynb>[Cell2]") or the
// display form ("nb.ipynb::Cell2"). Any "::name" suffix after a token is
// ignored. The display form is split at its last "::Cell", so a path that
// itself contains "::Cell" still resolves; a token is the unambiguous form.
func ParseCellReference(ref string) (m.CellAddress, error) {
	if m.IsAddress(ref) {
		addr, _, err := m.SplitAddress(ref)
		return addr, err
	}

	cut := strings.LastIndex(ref, "::Cell")
	if cut < 0 {
		return m.CellAddress{}, fmt.Errorf("%w: %q is neither a token nor path::CellN", m.ErrAddress, ref)
	}

	path, cell := ref[:cut], ref[cut+len("::Cell"):]

	var index int
	if _, err := fmt.Sscanf(cell, "%d", &index); err != nil || fmt.Sprint(index) != cell {
		return m.CellAddress{}, fmt.Errorf("%w: bad cell index in %q", m.ErrAddress, ref)
	}

	return m.NewCellAddress(m.Path(path), index)
}
