package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	"github.com/mouse-blink/ipynb2/internal/domain/transforms"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

func newTestDetector() MagicDetector {
	return NewMagicDetector(transforms.NewIPythonTransformer(), adapter.NewTreeSitterPythonAdapter(), nil, nil)
}

func newTestMuggler() Muggler {
	return NewMuggler(newTestDetector())
}

func newTestLoader() Loader {
	return NewLoader(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalNotebookAdapter())
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(newTestLoader(), newTestMuggler(), DefaultTestMarker, zaptest.NewLogger(t))
}

// codeCells builds a notebook whose cells are all code cells with the given
// sources.
func codeCells(path m.Path, sources ...string) *m.Notebook {
	cells := make([]m.Cell, 0, len(sources))
	for i, src := range sources {
		cells = append(cells, m.Cell{Index: i, Kind: m.CellCode, Lines: m.SplitLines(src)})
	}

	return m.NewNotebook(path, cells)
}

type fixtureCell struct {
	kind   string
	source string
}

// writeNotebook writes an nbformat v4 notebook into dir and returns its path.
func writeNotebook(t *testing.T, dir, name string, cells ...fixtureCell) m.Path {
	t.Helper()

	docCells := make([]map[string]any, 0, len(cells))
	for _, cell := range cells {
		doc := map[string]any{"cell_type": cell.kind, "metadata": map[string]any{}, "source": cell.source}
		if cell.kind == "code" {
			doc["outputs"] = []any{}
			doc["execution_count"] = nil
		}

		docCells = append(docCells, doc)
	}

	data, err := json.Marshal(map[string]any{
		"cells":          docCells,
		"metadata":       map[string]any{},
		"nbformat":       4,
		"nbformat_minor": 5,
	})
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return m.Path(path)
}

func code(src string) fixtureCell     { return fixtureCell{kind: "code", source: src} }
func markdown(src string) fixtureCell { return fixtureCell{kind: "markdown", source: src} }

func testdataPath(t *testing.T, name string) m.Path {
	t.Helper()

	abs, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	return m.Path(abs)
}
