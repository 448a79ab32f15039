package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a notebook path does not exist or cannot be read.
	ErrNotFound = errors.New("notebook not found")
	// ErrFormat is returned when a notebook is not valid nbformat v4 JSON.
	ErrFormat = errors.New("invalid notebook format")
	// ErrSyntax is returned when a cell is not parseable Python after magic transformation.
	ErrSyntax = errors.New("invalid python source")
	// ErrNoCell is returned when a cell index is a hole in a SparseCells.
	ErrNoCell = errors.New("cell not present")
	// ErrAddress is returned for malformed cell addresses.
	ErrAddress = errors.New("invalid cell address")
)

// SyntaxError describes where a cell failed to parse. Line and Column are
// 1-based and refer to the cell source.
type SyntaxError struct {
	Line   int
	Column int
	Text   string
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s at line %d, column %d", ErrSyntax, e.Line, e.Column)
	}

	return fmt.Sprintf("%s at line %d, column %d: %q", ErrSyntax, e.Line, e.Column, e.Text)
}

// Unwrap lets errors.Is match ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
