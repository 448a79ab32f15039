package transforms

import "strings"

// RewriteLineMagic handles "%name args" and "target = %name args".
func RewriteLineMagic(stmt Statement) ([]string, bool) {
	head := stmt.Head()
	prefix := ""

	if target, value, ok := splitAssignment(head); ok {
		if !strings.HasPrefix(value, "%") {
			return nil, false
		}

		prefix = target + " = "
		head = value
	}

	if !strings.HasPrefix(head, "%") || strings.HasPrefix(head, "%%") {
		return nil, false
	}

	name, args, ok := splitMagic(head[1:])
	if !ok {
		return nil, false
	}

	return renderCall(stmt.Indent, prefix, "run_line_magic", []string{name}, parts(args, stmt)), true
}
