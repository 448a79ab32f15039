package model

import "slices"

// LineSet is a set of 1-based line numbers.
type LineSet map[int]struct{}

// Add inserts every line from first to last inclusive.
func (s LineSet) Add(first, last int) {
	for line := first; line <= last; line++ {
		s[line] = struct{}{}
	}
}

// Has reports whether line is in the set.
func (s LineSet) Has(line int) bool {
	_, ok := s[line]
	return ok
}

// Sorted returns the lines in ascending order.
func (s LineSet) Sorted() []int {
	lines := make([]int, 0, len(s))
	for line := range s {
		lines = append(lines, line)
	}

	slices.Sort(lines)

	return lines
}
