package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseCells_HolesAndSlices(t *testing.T) {
	cells, err := NewSparseCells(5, map[int]Source{
		3: NewSource("d"),
		0: NewSource("a"),
		1: NewSource("b"),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, cells.Size())
	assert.Equal(t, 3, cells.Len())
	assert.Equal(t, []int{0, 1, 3}, cells.IDs())

	t.Run("full slice skips holes", func(t *testing.T) {
		assert.Equal(t, []Source{NewSource("a"), NewSource("b"), NewSource("d")}, cells.Sources())
	})

	t.Run("above", func(t *testing.T) {
		assert.Equal(t, []Source{NewSource("a"), NewSource("b")}, cells.Above(3))
		assert.Empty(t, cells.Above(0))
	})

	t.Run("clamped bounds", func(t *testing.T) {
		assert.Equal(t, cells.Sources(), cells.Slice(-10, 100))
	})

	t.Run("hole is an error", func(t *testing.T) {
		_, err := cells.Get(2)
		assert.True(t, errors.Is(err, ErrNoCell))
		assert.False(t, cells.Has(2))
	})

	t.Run("present index", func(t *testing.T) {
		got, err := cells.Get(3)
		require.NoError(t, err)
		assert.Equal(t, NewSource("d"), got)
	})

	t.Run("iteration is ordered", func(t *testing.T) {
		var ids []int
		for index := range cells.All() {
			ids = append(ids, index)
		}

		assert.Equal(t, []int{0, 1, 3}, ids)
	})
}

func TestSparseCells_EmptyContentIsNotAHole(t *testing.T) {
	cells, err := NewSparseCells(2, map[int]Source{1: NewSource("")})
	require.NoError(t, err)

	assert.True(t, cells.Has(1))
	assert.False(t, cells.Has(0))
}

func TestNewSparseCells_RejectsOutOfRange(t *testing.T) {
	_, err := NewSparseCells(2, map[int]Source{2: NewSource("x")})
	assert.Error(t, err)

	_, err = NewSparseCells(2, map[int]Source{-1: NewSource("x")})
	assert.Error(t, err)
}

func TestSparseCells_IDsReturnsCopy(t *testing.T) {
	cells, err := NewSparseCells(2, map[int]Source{0: NewSource("x")})
	require.NoError(t, err)

	ids := cells.IDs()
	ids[0] = 99

	assert.Equal(t, []int{0}, cells.IDs())
}
