package transforms

import "strings"

// RewriteSystem handles "!cmd", "!!cmd" and "target = !cmd".
func RewriteSystem(stmt Statement) ([]string, bool) {
	head := stmt.Head()

	if target, value, ok := splitAssignment(head); ok {
		if !strings.HasPrefix(value, "!") {
			return nil, false
		}

		cmd := strings.TrimLeft(strings.TrimPrefix(value, "!"), " \t")

		return renderCall(stmt.Indent, target+" = ", "getoutput", nil, parts(cmd, stmt)), true
	}

	if strings.HasPrefix(head, "!!") {
		cmd := strings.TrimLeft(head[2:], " \t")
		return renderCall(stmt.Indent, "", "getoutput", nil, parts(cmd, stmt)), true
	}

	if strings.HasPrefix(head, "!") {
		cmd := strings.TrimLeft(head[1:], " \t")
		return renderCall(stmt.Indent, "", "system", nil, parts(cmd, stmt)), true
	}

	return nil, false
}
