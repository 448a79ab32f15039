package transforms

// scanState tracks enough of Python's tokenizer to know whether the next
// physical line begins a new statement.
type scanState struct {
	depth        int
	quote        string // active triple quote, if any
	continuation bool
}

func (s scanState) atStatementStart() bool {
	return s.depth == 0 && s.quote == "" && !s.continuation
}

// scan advances the state over one physical line without its terminator.
func (s scanState) scan(line string) scanState {
	s.continuation = false

	i := 0
	for i < len(line) {
		if s.quote != "" {
			i = s.skipString(line, i)
			continue
		}

		switch c := line[i]; c {
		case '#':
			return s
		case '(', '[', '{':
			s.depth++
		case ')', ']', '}':
			if s.depth > 0 {
				s.depth--
			}
		case '\\':
			if i == len(line)-1 {
				s.continuation = true
			}

			i++
		case '\'', '"':
			q := string(c)
			if i+2 < len(line) && line[i+1] == c && line[i+2] == c {
				q = string([]byte{c, c, c})
			}

			s.quote = q
			i += len(q)

			continue
		}

		i++
	}

	// An unterminated single-quoted string ends at the line break, unless the
	// line continues with a backslash.
	if len(s.quote) == 1 && !s.continuation {
		s.quote = ""
	}

	return s
}

// skipString consumes string characters from line[i:] and returns the next
// index to scan. It clears s.quote once the closing quote is found.
func (s *scanState) skipString(line string, i int) int {
	for i < len(line) {
		switch {
		case line[i] == '\\':
			if i == len(line)-1 {
				s.continuation = true
				return len(line)
			}

			i += 2
		case len(line)-i >= len(s.quote) && line[i:i+len(s.quote)] == s.quote:
			i += len(s.quote)
			s.quote = ""

			return i
		default:
			i++
		}
	}

	return i
}
