// Package model defines the data structures shared by the notebook collection engine.
package model

import "strings"

// Path represents a file system path.
type Path string

// Source is an immutable block of Python source text. Two Sources are equal
// when their text is equal, so a Source can be compared with == and used as a
// map key.
type Source struct {
	text string
}

// NewSource wraps text in a Source.
func NewSource(text string) Source {
	return Source{text: text}
}

// SourceFromLines joins lines with "\n". No trailing newline is added.
func SourceFromLines(lines []string) Source {
	return Source{text: strings.Join(lines, "\n")}
}

// String returns the source text.
func (s Source) String() string {
	return s.text
}

// Bytes returns a copy of the source text as bytes.
func (s Source) Bytes() []byte {
	return []byte(s.text)
}

// IsEmpty reports whether the source has no text at all.
func (s Source) IsEmpty() bool {
	return s.text == ""
}

// Lines splits the source into lines without their terminators. A trailing
// line break does not produce an extra empty line, so "a\nb\n" has two lines
// and "" has none.
func (s Source) Lines() []string {
	raw := s.RawLines()
	lines := make([]string, len(raw))

	for i, line := range raw {
		lines[i] = trimLineEnding(line)
	}

	return lines
}

// RawLines splits the source into lines keeping their terminators, so
// concatenating the result reproduces the source exactly.
func (s Source) RawLines() []string {
	var lines []string

	rest := s.text
	for rest != "" {
		end := lineEnd(rest)
		lines = append(lines, rest[:end])
		rest = rest[end:]
	}

	return lines
}

// LineCount returns len(s.Lines()).
func (s Source) LineCount() int {
	return len(s.RawLines())
}

// SplitLines splits text on \n, \r\n and \r without keeping terminators.
func SplitLines(text string) []string {
	return NewSource(text).Lines()
}

// lineEnd returns the offset just past the first line terminator in text, or
// len(text) when there is none.
func lineEnd(text string) int {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			return i + 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				return i + 2
			}

			return i + 1
		}
	}

	return len(text)
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
