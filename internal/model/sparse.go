package model

import (
	"fmt"
	"iter"
	"sort"
)

// SparseCells maps cell indices of one notebook to their Source. Indices
// without relevant content are holes, not entries. A SparseCells is
// immutable; the zero value is an empty sequence over an empty notebook.
type SparseCells struct {
	size    int
	ids     []int
	sources map[int]Source
}

// NewSparseCells builds a SparseCells for a notebook with size cells. Every
// key of entries must lie in [0, size).
func NewSparseCells(size int, entries map[int]Source) (SparseCells, error) {
	if size < 0 {
		return SparseCells{}, fmt.Errorf("negative notebook size %d", size)
	}

	ids := make([]int, 0, len(entries))
	sources := make(map[int]Source, len(entries))

	for index, source := range entries {
		if index < 0 || index >= size {
			return SparseCells{}, fmt.Errorf("cell %d outside notebook of %d cells", index, size)
		}

		ids = append(ids, index)
		sources[index] = source
	}

	sort.Ints(ids)

	return SparseCells{size: size, ids: ids, sources: sources}, nil
}

// Size returns the number of cells in the underlying notebook.
func (s SparseCells) Size() int {
	return s.size
}

// Len returns the number of present entries.
func (s SparseCells) Len() int {
	return len(s.ids)
}

// Has reports whether index holds content.
func (s SparseCells) Has(index int) bool {
	_, ok := s.sources[index]
	return ok
}

// Get returns the source at index or an error wrapping ErrNoCell when index
// is a hole.
func (s SparseCells) Get(index int) (Source, error) {
	source, ok := s.sources[index]
	if !ok {
		return Source{}, fmt.Errorf("cell %d: %w", index, ErrNoCell)
	}

	return source, nil
}

// IDs returns the present indices in increasing order.
func (s SparseCells) IDs() []int {
	ids := make([]int, len(s.ids))
	copy(ids, s.ids)

	return ids
}

// Slice returns the present sources with lo <= index < hi in index order,
// skipping holes. Bounds are clamped to the notebook.
func (s SparseCells) Slice(lo, hi int) []Source {
	lo = max(lo, 0)
	hi = min(hi, s.size)

	var sources []Source

	for _, index := range s.ids {
		if index < lo {
			continue
		}

		if index >= hi {
			break
		}

		sources = append(sources, s.sources[index])
	}

	return sources
}

// Above returns every present source before index.
func (s SparseCells) Above(index int) []Source {
	return s.Slice(0, index)
}

// Sources returns every present source in index order.
func (s SparseCells) Sources() []Source {
	return s.Slice(0, s.size)
}

// All iterates over (index, source) pairs in increasing index order.
func (s SparseCells) All() iter.Seq2[int, Source] {
	return func(yield func(int, Source) bool) {
		for _, index := range s.ids {
			if !yield(index, s.sources[index]) {
				return
			}
		}
	}
}
