package adapter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrRunnerStart is returned when the runner command cannot be started at all,
// as opposed to a runner that ran and reported failures.
var ErrRunnerStart = errors.New("test runner could not be started")

// ExitError reports a runner that started and exited with a non-zero code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("runner exited with code %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// TestRunnerAdapter executes an external test runner against one file.
type TestRunnerAdapter interface {
	// Run executes command with target appended as the last argument inside
	// dir and returns the combined output. A non-zero exit returns the output
	// together with an *ExitError.
	Run(ctx context.Context, dir string, command []string, target string) (string, error)
}

// LocalTestRunnerAdapter runs the command with os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// Run implements TestRunnerAdapter.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, dir string, command []string, target string) (string, error) {
	if len(command) == 0 {
		return "", fmt.Errorf("%w: empty runner command", ErrRunnerStart)
	}

	args := append(append([]string{}, command[1:]...), target)

	cmd := exec.CommandContext(ctx, command[0], args...) //nolint:gosec // runner command comes from the user's config
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err == nil {
		return string(output), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(output), &ExitError{Code: exitErr.ExitCode(), Err: err}
	}

	return string(output), fmt.Errorf("%w: %w", ErrRunnerStart, err)
}
