package domain

import (
	"fmt"
	"strings"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

// Muggler comments out IPython-only lines so the remaining source is plain
// Python with the same line numbering.
type Muggler interface {
	Muggle(src m.Source) (m.Source, error)
	MuggleAll(cells m.SparseCells) (m.SparseCells, map[int]error)
}

type muggler struct {
	detector MagicDetector
}

// NewMuggler constructs a Muggler using detector to find the magic lines.
func NewMuggler(detector MagicDetector) Muggler {
	return &muggler{detector: detector}
}

// Muggle prefixes every flagged line with "# ". Line terminators and all
// unflagged lines are kept byte for byte.
func (mg *muggler) Muggle(src m.Source) (m.Source, error) {
	detection, err := mg.detector.Detect(src)
	if err != nil {
		return m.Source{}, err
	}

	if len(detection.Lines) == 0 {
		return src, nil
	}

	flagged := m.LineSet{}
	for _, line := range detection.Lines {
		flagged.Add(line, line)
	}

	var b strings.Builder

	b.Grow(len(src.String()) + 2*len(detection.Lines))

	for i, line := range src.RawLines() {
		if flagged.Has(i + 1) {
			b.WriteString("# ")
		}

		b.WriteString(line)
	}

	return m.NewSource(b.String()), nil
}

// MuggleAll muggles every present cell. A cell that fails is left out of the
// result and its error is returned under its index.
func (mg *muggler) MuggleAll(cells m.SparseCells) (m.SparseCells, map[int]error) {
	muggled := make(map[int]m.Source, cells.Len())
	failures := make(map[int]error)

	for index, source := range cells.All() {
		out, err := mg.Muggle(source)
		if err != nil {
			failures[index] = fmt.Errorf("cell %d: %w", index, err)
			continue
		}

		muggled[index] = out
	}

	// indices come from cells, so they are always in range
	result, _ := m.NewSparseCells(cells.Size(), muggled)

	return result, failures
}
