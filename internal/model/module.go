package model

import "strings"

// Module is the code a host runner executes for one test cell: every code
// cell above it followed by the test cell itself, all muggled.
type Module struct {
	Address CellAddress
	Setup   []Source
	Test    Source
}

// Text renders the module as a single Python file.
func (m Module) Text() string {
	parts := make([]string, 0, len(m.Setup)+1)

	for _, source := range m.Setup {
		parts = append(parts, strings.TrimSuffix(source.String(), "\n"))
	}

	parts = append(parts, m.Test.String())

	return strings.Join(parts, "\n")
}

// TestLineOffset is the number of lines in Text before the first line of the
// test source. Line n of the module is line n-TestLineOffset of the test cell.
func (m Module) TestLineOffset() int {
	offset := 0

	for _, source := range m.Setup {
		offset += source.LineCount()
		if source.IsEmpty() {
			offset++
		}
	}

	return offset
}

// TestItem is a test function or method discovered inside a test cell.
type TestItem struct {
	Address CellAddress
	Name    string
	Line    int
}

// ID returns the host-style identifier "<token>::name".
func (t TestItem) ID() string {
	return t.Address.Child(t.Name)
}
