package domain

import (
	"fmt"
	"strings"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

// DefaultTestMarker is the cell magic that turns a code cell into a test cell.
const DefaultTestMarker = "%%ipytest"

// Classify decides the role of one cell. Only the first line is inspected for
// the marker; a marker further down leaves the cell a plain code cell.
func Classify(cell m.Cell, marker string) m.CellClass {
	if cell.Kind != m.CellCode {
		return m.ClassIrrelevant
	}

	if len(cell.Lines) > 0 && hasMarker(cell.Lines[0], marker) {
		return m.ClassTest
	}

	return m.ClassCode
}

// Split partitions the code cells of nb into setup code and tests. Both
// sequences are bounded by the notebook length and hold holes for every cell
// of the other class. Test sources start after the marker line.
func Split(nb *m.Notebook, marker string) (code m.SparseCells, test m.SparseCells, err error) {
	codeSources := make(map[int]m.Source)
	testSources := make(map[int]m.Source)

	for _, cell := range nb.Cells() {
		switch Classify(cell, marker) {
		case m.ClassCode:
			codeSources[cell.Index] = cell.Source()
		case m.ClassTest:
			testSources[cell.Index] = m.SourceFromLines(cell.Lines[1:])
		case m.ClassIrrelevant:
		}
	}

	code, err = m.NewSparseCells(nb.Len(), codeSources)
	if err != nil {
		return m.SparseCells{}, m.SparseCells{}, fmt.Errorf("failed to build code cells: %w", err)
	}

	test, err = m.NewSparseCells(nb.Len(), testSources)
	if err != nil {
		return m.SparseCells{}, m.SparseCells{}, fmt.Errorf("failed to build test cells: %w", err)
	}

	return code, test, nil
}

func hasMarker(line, marker string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), marker)
}
