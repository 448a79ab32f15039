// Package transforms rewrites IPython line-level syntax into plain Python
// calls, one physical line in, one physical line out.
package transforms

import (
	"regexp"
	"strings"
)

// Statement is one escaped logical line: the first physical line plus any
// lines joined to it by a trailing backslash. Indent is the leading
// whitespace of the first line; Lines hold the physical lines with the indent
// of the first line and the continuation backslashes removed.
type Statement struct {
	Indent string
	Lines  []string
}

// Head returns the first physical line without its indent.
func (s Statement) Head() string {
	if len(s.Lines) == 0 {
		return ""
	}

	return s.Lines[0]
}

// Rule rewrites a Statement into exactly len(stmt.Lines) lines, or reports
// that it does not apply.
type Rule func(stmt Statement) ([]string, bool)

var (
	magicNamePattern = regexp.MustCompile(`^[A-Za-z_][\w.]*`)
	assignPattern    = regexp.MustCompile(`^([\w\s.,\[\]()*]+?)\s*=\s*([%!].*)$`)
)

// splitAssignment recognises "target = %magic" and "target = !cmd".
func splitAssignment(line string) (target, value string, ok bool) {
	match := assignPattern.FindStringSubmatch(line)
	if match == nil {
		return "", "", false
	}

	target = strings.TrimSpace(match[1])
	if target == "" || strings.ContainsAny(target[:1], "%!?") {
		return "", "", false
	}

	return target, match[2], true
}

// RuntimeAccessor is the function rewritten magics call to reach the shell.
const RuntimeAccessor = "get_ipython"

// renderCall emits "<indent><prefix>get_ipython().<method>(<lead>, <arg>)"
// across as many lines as parts has. The argument is the concatenation of
// parts, written as adjacent string literals inside parentheses so every
// physical line of the input still maps to one output line.
func renderCall(indent, prefix, method string, lead []string, parts []string) []string {
	head := indent + prefix + RuntimeAccessor + "()." + method + "("
	for _, arg := range lead {
		head += quote(arg) + ", "
	}

	if len(parts) <= 1 {
		arg := ""
		if len(parts) == 1 {
			arg = parts[0]
		}

		return []string{head + quote(arg) + ")"}
	}

	out := make([]string, len(parts))
	out[0] = head + "(" + quote(parts[0])

	for i := 1; i < len(parts)-1; i++ {
		out[i] = indent + "    " + quote(parts[i])
	}

	out[len(parts)-1] = indent + "    " + quote(parts[len(parts)-1]) + "))"

	return out
}

// quote renders s as a single-quoted Python string literal.
func quote(s string) string {
	var b strings.Builder

	b.WriteByte('\'')

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('\'')

	return b.String()
}

// splitMagic splits "name args" into the magic name and its argument string.
func splitMagic(body string) (name, args string, ok bool) {
	name = magicNamePattern.FindString(body)
	if name == "" {
		return "", "", false
	}

	return name, strings.TrimLeft(body[len(name):], " \t"), true
}

// parts returns the argument pieces of a statement: args of the head line
// followed by each continuation line.
func parts(first string, stmt Statement) []string {
	out := make([]string, 0, len(stmt.Lines))
	out = append(out, first)
	out = append(out, stmt.Lines[1:]...)

	return out
}

func splitIndent(line string) (indent, rest string) {
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)], trimmed
}
