package domain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// DefaultRunner is the command a module is handed to; the module path is
// appended as the last argument.
var DefaultRunner = []string{"python", "-m", "pytest", "-q"}

// NoTestsExitCode is the pytest exit status for a module without tests.
const NoTestsExitCode = 5

// Orchestrator materialises the module of one test cell in a temporary
// workspace and runs the external test runner on it.
type Orchestrator interface {
	RunModule(ctx context.Context, module m.Module) m.RunResult
}

type orchestrator struct {
	fsAdapter   adapter.SourceFSAdapter
	testAdapter adapter.TestRunnerAdapter
	runner      []string
	logger      *zap.Logger
}

// NewOrchestrator constructs an Orchestrator. An empty runner falls back to
// DefaultRunner and a nil logger disables logging.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, testAdapter adapter.TestRunnerAdapter, runner []string, logger *zap.Logger) Orchestrator {
	if len(runner) == 0 {
		runner = DefaultRunner
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &orchestrator{
		fsAdapter:   fsAdapter,
		testAdapter: testAdapter,
		runner:      runner,
		logger:      logger,
	}
}

// RunModule never returns an error: failures to prepare or start the run are
// reported as m.Errored results. The runner works in the notebook directory
// so relative paths inside the cells resolve as they do in Jupyter.
func (to *orchestrator) RunModule(ctx context.Context, module m.Module) m.RunResult {
	tmpDir, err := to.fsAdapter.CreateTempDir("ipynb2-run-*")
	if err != nil {
		return to.errored(module, fmt.Errorf("failed to create temp dir: %w", err))
	}
	defer to.cleanupTempDir(tmpDir)

	modulePath := to.fsAdapter.JoinPath(string(tmpDir), ModuleFileName(module.Address))
	if err := to.fsAdapter.WriteFile(modulePath, []byte(module.Text()), 0o600); err != nil {
		return to.errored(module, fmt.Errorf("failed to write module: %w", err))
	}

	workDir := filepath.Dir(string(module.Address.Notebook))

	to.logger.Debug("running test cell",
		zap.String("address", module.Address.String()),
		zap.String("module", string(modulePath)),
		zap.Strings("runner", to.runner))

	output, err := to.testAdapter.Run(ctx, workDir, to.runner, string(modulePath))

	result := m.RunResult{Address: module.Address, Output: output, Status: m.Passed}

	var exitErr *adapter.ExitError

	switch {
	case err == nil:
	case errors.Is(err, adapter.ErrRunnerStart), ctx.Err() != nil:
		result.Status = m.Errored
		result.Err = err
	case errors.As(err, &exitErr) && exitErr.Code == NoTestsExitCode:
		result.Status = m.NoTests
		result.Err = fmt.Errorf("no tests collected from %s: %w", module.Address.Display(), err)
	default:
		result.Status = m.Failed
		result.Err = err
	}

	return result
}

func (to *orchestrator) errored(module m.Module, err error) m.RunResult {
	return m.RunResult{Address: module.Address, Status: m.Errored, Err: err}
}

// cleanupTempDir removes the temporary directory, logging errors if cleanup fails.
func (to *orchestrator) cleanupTempDir(tmpDir m.Path) {
	if err := to.fsAdapter.RemoveAll(tmpDir); err != nil {
		to.logger.Warn("failed to remove temp dir", zap.String("dir", string(tmpDir)), zap.Error(err))
	}
}

// ModuleFileName is the file name a test cell module is written under, e.g.
// "test_demo_cell3.py". The notebook stem is reduced to identifier characters.
func ModuleFileName(addr m.CellAddress) string {
	base := filepath.Base(string(addr.Notebook))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, stem)

	return fmt.Sprintf("test_%s_cell%d.py", stem, addr.Cell)
}
