package domain

import (
	"fmt"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// Loader reads a notebook file into an immutable m.Notebook.
type Loader interface {
	Load(path m.Path) (*m.Notebook, error)
}

type loader struct {
	fsAdapter adapter.SourceFSAdapter
	nbAdapter adapter.NotebookAdapter
}

// NewLoader constructs a Loader reading through fsAdapter and decoding with
// nbAdapter.
func NewLoader(fsAdapter adapter.SourceFSAdapter, nbAdapter adapter.NotebookAdapter) Loader {
	return &loader{
		fsAdapter: fsAdapter,
		nbAdapter: nbAdapter,
	}
}

// Load fails with m.ErrNotFound when the file cannot be read and with
// m.ErrFormat when it is not a valid nbformat v4 document. Cell sources are
// split into lines without terminators.
func (l *loader) Load(path m.Path) (*m.Notebook, error) {
	data, err := l.fsAdapter.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", m.ErrNotFound, path, err)
	}

	raw, err := l.nbAdapter.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cells := make([]m.Cell, 0, len(raw.Cells))
	for i, rawCell := range raw.Cells {
		cells = append(cells, m.Cell{
			Index: i,
			Kind:  m.KindFromCellType(rawCell.Type),
			Lines: m.SplitLines(rawCell.Source),
		})
	}

	return m.NewNotebook(path, cells), nil
}
