package cmd

import (
	"testing"

	"github.com/mouse-blink/ipynb2/internal/config"
	"github.com/mouse-blink/ipynb2/internal/domain"
	domainmocks "github.com/mouse-blink/ipynb2/internal/domain/mocks"
	m "github.com/mouse-blink/ipynb2/internal/model"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListCmd(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().List(mock.Anything, mock.MatchedBy(func(args domain.CollectArgs) bool {
		return len(args.Paths) == 2 && args.Workers == 3
	})).Return(nil)

	cmd, _ := newTestRootCmd(newListCmd())
	cmd.SetArgs([]string{"list", "-p", "3", "a.ipynb", "nb/..."})

	require.NoError(t, cmd.Execute())
}

func TestRunCmd_WithSharding(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.ShardIndex == 1 && args.TotalShardCount == 3 && args.Workers == config.DefaultWorkers
	})).Return(nil)

	cmd, _ := newTestRootCmd(newRunCmd())
	cmd.SetArgs([]string{"run", "--shard", "1/3", "./..."})

	require.NoError(t, cmd.Execute())
}

func TestRunCmd_InvalidShardFallsBack(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.ShardIndex == 0 && args.TotalShardCount == 1
	})).Return(nil)

	cmd, _ := newTestRootCmd(newRunCmd())
	cmd.SetArgs([]string{"run", "--shard", "5/2"})

	require.NoError(t, cmd.Execute())
}

func TestShowCmd(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Show(mock.Anything, domain.ShowArgs{Address: "<nb.ipynb>[Cell2]"}).Return(nil)

	cmd, _ := newTestRootCmd(newShowCmd())
	cmd.SetArgs([]string{"show", "<nb.ipynb>[Cell2]"})

	require.NoError(t, cmd.Execute())
}

func TestShowCmd_RequiresAddress(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRootCmd(newShowCmd())
	cmd.SetArgs([]string{"show"})

	require.Error(t, cmd.Execute())
}

func TestMagicsCmd(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Magics(mock.Anything, mock.MatchedBy(func(args domain.CollectArgs) bool {
		return len(args.Paths) == 1 && args.Paths[0] == m.Path("demo.ipynb")
	})).Return(nil)

	cmd, _ := newTestRootCmd(newMagicsCmd())
	cmd.SetArgs([]string{"magics", "demo.ipynb"})

	require.NoError(t, cmd.Execute())
}

func TestExportCmd(t *testing.T) {
	t.Run("default directory", func(t *testing.T) {
		mockWorkflow := domainmocks.NewMockWorkflow(t)
		useWorkflow(t, mockWorkflow)

		mockWorkflow.EXPECT().Export(mock.Anything, mock.MatchedBy(func(args domain.ExportArgs) bool {
			return args.OutDir == m.Path(config.DefaultExportDir)
		})).Return(nil)

		cmd, _ := newTestRootCmd(newExportCmd())
		cmd.SetArgs([]string{"export"})

		require.NoError(t, cmd.Execute())
	})

	t.Run("out flag", func(t *testing.T) {
		mockWorkflow := domainmocks.NewMockWorkflow(t)
		useWorkflow(t, mockWorkflow)

		mockWorkflow.EXPECT().Export(mock.Anything, mock.MatchedBy(func(args domain.ExportArgs) bool {
			return args.OutDir == m.Path("build/modules")
		})).Return(nil)

		cmd, _ := newTestRootCmd(newExportCmd())
		cmd.SetArgs([]string{"export", "-o", "build/modules", "nb"})

		require.NoError(t, cmd.Execute())
	})
}
