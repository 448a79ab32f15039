package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

// ParsedNotebook is a notebook after classification and muggling. Code and
// Test hold the sources as written; MuggledCode and MuggledTest hold the
// sources a Python runner can execute. Cells that failed to muggle are holes
// in the muggled sequences and are listed in CellErrors.
type ParsedNotebook struct {
	Notebook    *m.Notebook
	Code        m.SparseCells
	Test        m.SparseCells
	MuggledCode m.SparseCells
	MuggledTest m.SparseCells
	CellErrors  map[int]error
}

// ParseNotebook classifies nb with marker and muggles both sequences.
func ParseNotebook(nb *m.Notebook, marker string, mg Muggler) (*ParsedNotebook, error) {
	code, test, err := Split(nb, marker)
	if err != nil {
		return nil, err
	}

	muggledCode, codeErrs := mg.MuggleAll(code)
	muggledTest, testErrs := mg.MuggleAll(test)

	cellErrors := make(map[int]error, len(codeErrs)+len(testErrs))
	maps.Copy(cellErrors, codeErrs)
	maps.Copy(cellErrors, testErrs)

	return &ParsedNotebook{
		Notebook:    nb,
		Code:        code,
		Test:        test,
		MuggledCode: muggledCode,
		MuggledTest: muggledTest,
		CellErrors:  cellErrors,
	}, nil
}

// Path returns the notebook path.
func (p *ParsedNotebook) Path() m.Path {
	return p.Notebook.Path()
}

// Address returns the address of cell index in this notebook.
func (p *ParsedNotebook) Address(index int) m.CellAddress {
	return m.CellAddress{Notebook: p.Notebook.Path(), Cell: index}
}

// TestAddresses returns the addresses of every test cell, including those
// that failed to muggle.
func (p *ParsedNotebook) TestAddresses() []m.CellAddress {
	ids := p.Test.IDs()
	addresses := make([]m.CellAddress, 0, len(ids))

	for _, index := range ids {
		addresses = append(addresses, p.Address(index))
	}

	return addresses
}

// ErrorIndices returns the indices of cells that failed to muggle, sorted.
func (p *ParsedNotebook) ErrorIndices() []int {
	return slices.Sorted(maps.Keys(p.CellErrors))
}

// Module assembles the executable module for the test cell at index: every
// muggled code cell above it followed by the muggled test cell.
func (p *ParsedNotebook) Module(index int) (m.Module, error) {
	if !p.Test.Has(index) {
		return m.Module{}, fmt.Errorf("%s is not a test cell: %w", p.Address(index).Display(), m.ErrNoCell)
	}

	var errs []error

	for _, failed := range p.ErrorIndices() {
		if failed == index || (failed < index && p.Code.Has(failed)) {
			errs = append(errs, p.CellErrors[failed])
		}
	}

	if len(errs) > 0 {
		return m.Module{}, fmt.Errorf("cannot build module for %s: %w", p.Address(index).Display(), errors.Join(errs...))
	}

	test, err := p.MuggledTest.Get(index)
	if err != nil {
		return m.Module{}, err
	}

	return m.Module{
		Address: p.Address(index),
		Setup:   p.MuggledCode.Above(index),
		Test:    test,
	}, nil
}
