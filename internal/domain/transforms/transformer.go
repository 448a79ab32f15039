package transforms

import (
	"strings"
)

// Transformer rewrites IPython single-line syntax into plain Python. The
// result has exactly as many lines as the input, in the same order.
type Transformer interface {
	Transform(text string) (string, error)
}

// DefaultRules are applied in order; the first rule that matches wins.
var DefaultRules = []Rule{
	RewriteSystem,
	RewriteLineMagic,
	RewriteHelp,
}

// IPythonTransformer reimplements the single-line transformations IPython
// applies before compiling a cell. Cell magics ("%%name") are left alone.
type IPythonTransformer struct {
	rules []Rule
}

// NewIPythonTransformer builds a transformer. With no rules, DefaultRules
// are used.
func NewIPythonTransformer(rules ...Rule) *IPythonTransformer {
	if len(rules) == 0 {
		rules = DefaultRules
	}

	return &IPythonTransformer{rules: rules}
}

// Transform implements Transformer.
func (t *IPythonTransformer) Transform(text string) (string, error) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	var state scanState

	for i := 0; i < len(lines); {
		if state.atStatementStart() {
			if rewritten, consumed, ok := t.rewrite(lines[i:]); ok {
				out = append(out, rewritten...)
				i += consumed

				continue
			}
		}

		state = state.scan(strings.TrimSuffix(lines[i], "\r"))
		out = append(out, lines[i])
		i++
	}

	return strings.Join(out, "\n"), nil
}

// rewrite tries every rule on the statement starting at lines[0] and returns
// the rewritten lines and how many input lines they replace.
func (t *IPythonTransformer) rewrite(lines []string) ([]string, int, bool) {
	stmt, ends := collectStatement(lines)
	if !isEscaped(stmt.Head()) {
		return nil, 0, false
	}

	for _, rule := range t.rules {
		rewritten, ok := rule(stmt)
		if !ok {
			continue
		}

		for j := range rewritten {
			rewritten[j] += ends[j]
		}

		return rewritten, len(stmt.Lines), true
	}

	return nil, 0, false
}

// collectStatement gathers the first line and its backslash continuations.
// ends keeps each line's carriage return so CRLF text survives.
func collectStatement(lines []string) (Statement, []string) {
	indent, head := splitIndent(lines[0])
	stmt := Statement{Indent: indent}

	var ends []string

	for i, line := range lines {
		if i == 0 {
			line = head
		}

		end := ""
		if strings.HasSuffix(line, "\r") {
			end = "\r"
			line = strings.TrimSuffix(line, "\r")
		}

		continued := strings.HasSuffix(line, "\\")
		if continued {
			line = strings.TrimSuffix(line, "\\")
		}

		stmt.Lines = append(stmt.Lines, line)
		ends = append(ends, end)

		if !continued {
			break
		}
	}

	return stmt, ends
}

// isEscaped is a cheap pre-check so ordinary Python lines skip the rules.
func isEscaped(head string) bool {
	head = strings.TrimSuffix(head, "\r")
	if head == "" || strings.HasPrefix(head, "#") {
		return false
	}

	switch head[0] {
	case '%', '!', '?':
		return true
	}

	if strings.HasSuffix(strings.TrimRight(head, " \t"), "?") {
		return true
	}

	_, _, ok := splitAssignment(head)

	return ok
}
