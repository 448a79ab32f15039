package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModule_TextAndOffset(t *testing.T) {
	mod := Module{
		Address: CellAddress{Notebook: "nb.ipynb", Cell: 3},
		Setup:   []Source{NewSource("x = 1\ny = 2"), NewSource(""), NewSource("z = 3\n")},
		Test:    NewSource("def test_a():\n    assert x == 1"),
	}

	text := mod.Text()
	lines := NewSource(text).Lines()

	assert.Equal(t, 4, mod.TestLineOffset())
	assert.Equal(t, "def test_a():", lines[mod.TestLineOffset()])
	assert.Equal(t, []string{"x = 1", "y = 2", "", "z = 3", "def test_a():", "    assert x == 1"}, lines)
}

func TestModule_NoSetup(t *testing.T) {
	mod := Module{Test: NewSource("def test_a():\n    pass")}

	assert.Equal(t, 0, mod.TestLineOffset())
	assert.Equal(t, "def test_a():\n    pass", mod.Text())
}

func TestTestItem_ID(t *testing.T) {
	item := TestItem{Address: CellAddress{Notebook: "nb.ipynb", Cell: 2}, Name: "test_a"}
	assert.Equal(t, "<nb.ipynb>[Cell2]::test_a", item.ID())
}
