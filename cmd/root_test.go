package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mouse-blink/ipynb2/internal/config"
	"github.com/mouse-blink/ipynb2/internal/domain"
	domainmocks "github.com/mouse-blink/ipynb2/internal/domain/mocks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// useWorkflow makes every command in the test run against wf.
func useWorkflow(t *testing.T, wf domain.Workflow) {
	t.Helper()

	original := buildWorkflow
	buildWorkflow = func(_ *cobra.Command, _ *config.Config, _ *zap.Logger) domain.Workflow {
		return wf
	}

	t.Cleanup(func() { buildWorkflow = original })
}

func newTestRootCmd(subcommands ...*cobra.Command) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.AddCommand(subcommands...)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	return cmd, &out
}

func TestRootCmd_ListFlag(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().List(mock.Anything, mock.MatchedBy(func(args domain.CollectArgs) bool {
		return len(args.Paths) == 1 && args.Paths[0] == "./..." && args.Workers == config.DefaultWorkers
	})).Return(nil)

	cmd, _ := newTestRootCmd()
	cmd.SetArgs([]string{"--list", "./..."})

	require.NoError(t, cmd.Execute())
}

func TestRootCmd_RunsByDefault(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Workers == 2 &&
			args.ShardIndex == 1 &&
			args.TotalShardCount == 2 &&
			assert.ObjectsAreEqual([]string{"scratch"}, args.Exclude)
	})).Return(nil)

	cmd, _ := newTestRootCmd()
	cmd.SetArgs([]string{"--parallel", "2", "--shard", "1/2", "-x", "scratch", "nb"})

	require.NoError(t, cmd.Execute())
}

func TestRootCmd_PropagatesWorkflowError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.Anything).Return(domain.ErrTestsFailed)

	cmd, _ := newTestRootCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrTestsFailed)
	assert.Equal(t, 1, exitCode(err))
}

func TestRootCmd_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipynb2.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 7\nexclude: [\"^old/\"]\n"), 0o600))

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().List(mock.Anything, mock.MatchedBy(func(args domain.CollectArgs) bool {
		return args.Workers == 7 && assert.ObjectsAreEqual([]string{"^old/", "tmp"}, args.Exclude)
	})).Return(nil)

	cmd, _ := newTestRootCmd(newListCmd())
	cmd.SetArgs([]string{"--config", path, "list", "-x", "tmp"})

	require.NoError(t, cmd.Execute())
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipynb2.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0o600))

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRootCmd(newListCmd())
	cmd.SetArgs([]string{"--config", path, "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestParseShardFlag(t *testing.T) {
	tests := []struct {
		in         string
		index, tot int
	}{
		{"", 0, 1},
		{"0/3", 0, 3},
		{"2/3", 2, 3},
		{"3/3", 0, 1},
		{"-1/3", 0, 1},
		{"1/0", 0, 1},
		{"x", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			index, total := parseShardFlag(tt.in)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.tot, total)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(domain.ErrTestsFailed))
	assert.Equal(t, 2, exitCode(errors.New("bad flag")))
}

func TestNewLogger(t *testing.T) {
	quiet, err := newLogger(false)
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zap.InfoLevel))
	assert.True(t, quiet.Core().Enabled(zap.WarnLevel))

	verbose, err := newLogger(true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zap.DebugLevel))
}

func TestUseTTY_BufferOutput(t *testing.T) {
	cmd, _ := newTestRootCmd()
	assert.False(t, useTTY(cmd))
}

func TestRootCmd_ListRealNotebook(t *testing.T) {
	cmd, out := newTestRootCmd(newListCmd(), newMagicsCmd(), newShowCmd())

	cmd.SetArgs([]string{"list", filepath.Join("testdata", "demo.ipynb")})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "demo.ipynb::Cell3::test_add")
	assert.Contains(t, out.String(), "demo.ipynb::Cell3::TestAdd::test_zero")

	out.Reset()
	cmd.SetArgs([]string{"show", filepath.Join("testdata", "demo.ipynb") + "::Cell3"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "def add(a, b):")
	assert.Contains(t, out.String(), "def test_add():")
}
