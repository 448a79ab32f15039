package transforms

import (
	"regexp"
	"strings"
)

var helpEndPattern = regexp.MustCompile(`^(%{0,2}[A-Za-z_*][\w*]*(?:\.[A-Za-z_*][\w*]*)*)(\?\??)$`)

// RewriteHelp handles "?obj", "??obj", "obj?" and "obj??". Help lines never
// continue onto the next line.
func RewriteHelp(stmt Statement) ([]string, bool) {
	if len(stmt.Lines) != 1 {
		return nil, false
	}

	head := strings.TrimRight(stmt.Head(), " \t")

	if strings.HasPrefix(head, "?") {
		detail := "pinfo"
		target := strings.TrimPrefix(head, "?")

		if strings.HasPrefix(target, "?") {
			detail = "pinfo2"
			target = strings.TrimPrefix(target, "?")
		}

		target = strings.TrimSpace(target)
		if target == "" {
			return nil, false
		}

		return renderCall(stmt.Indent, "", "run_line_magic", []string{detail}, []string{target}), true
	}

	match := helpEndPattern.FindStringSubmatch(head)
	if match == nil {
		return nil, false
	}

	detail := "pinfo"
	if match[2] == "??" {
		detail = "pinfo2"
	}

	return renderCall(stmt.Indent, "", "run_line_magic", []string{detail}, []string{match[1]}), true
}
