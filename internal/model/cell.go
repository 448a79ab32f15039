package model

// CellKind is the closed set of cell kinds the engine distinguishes.
type CellKind int

const (
	// CellOther covers markdown, raw and any other non-code cell.
	CellOther CellKind = iota
	// CellCode is a code cell.
	CellCode
)

func (k CellKind) String() string {
	if k == CellCode {
		return "code"
	}

	return "other"
}

// KindFromCellType maps the nbformat cell_type field onto a CellKind.
func KindFromCellType(cellType string) CellKind {
	if cellType == "code" {
		return CellCode
	}

	return CellOther
}

// CellClass is the classification of one cell.
type CellClass int

// Available CellClass values.
const (
	ClassIrrelevant CellClass = iota
	ClassCode
	ClassTest
)

func (c CellClass) String() string {
	switch c {
	case ClassCode:
		return "code"
	case ClassTest:
		return "test"
	default:
		return "irrelevant"
	}
}

// Cell is one cell of a notebook with its source already split into lines.
type Cell struct {
	Index int
	Kind  CellKind
	Lines []string
}

// Source returns the cell lines as a Source.
func (c Cell) Source() Source {
	return SourceFromLines(c.Lines)
}

// Notebook is an ordered, immutable sequence of cells read from one file.
type Notebook struct {
	path  Path
	cells []Cell
}

// NewNotebook builds a Notebook. Cells are renumbered by position and copied,
// so later changes to the argument do not leak into the notebook.
func NewNotebook(path Path, cells []Cell) *Notebook {
	owned := make([]Cell, len(cells))

	for i, cell := range cells {
		lines := make([]string, len(cell.Lines))
		copy(lines, cell.Lines)

		owned[i] = Cell{Index: i, Kind: cell.Kind, Lines: lines}
	}

	return &Notebook{path: path, cells: owned}
}

// Path returns the file the notebook was loaded from.
func (n *Notebook) Path() Path {
	return n.path
}

// Len returns the number of cells.
func (n *Notebook) Len() int {
	return len(n.cells)
}

// Cell returns a copy of the cell at index.
func (n *Notebook) Cell(index int) (Cell, bool) {
	if index < 0 || index >= len(n.cells) {
		return Cell{}, false
	}

	return copyCell(n.cells[index]), true
}

// Cells returns copies of all cells in document order.
func (n *Notebook) Cells() []Cell {
	cells := make([]Cell, len(n.cells))
	for i, cell := range n.cells {
		cells[i] = copyCell(cell)
	}

	return cells
}

func copyCell(c Cell) Cell {
	lines := make([]string, len(c.Lines))
	copy(lines, c.Lines)
	c.Lines = lines

	return c
}

// RawNotebook is the decoded, schema-valid notebook document before its
// cells are normalised.
type RawNotebook struct {
	Format      int
	FormatMinor int
	Cells       []RawCell
}

// RawCell carries the cell_type and the concatenated source of one cell.
type RawCell struct {
	Type   string
	Source string
}
