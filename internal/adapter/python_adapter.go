package adapter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

// PythonAdapter parses Python source into a concrete syntax tree.
type PythonAdapter interface {
	// Parse returns the tree for src. A source with syntax errors yields a
	// *m.SyntaxError pointing at the first offending node. The caller owns the
	// returned tree and must Close it.
	Parse(ctx context.Context, src []byte) (*sitter.Tree, error)
}

// TreeSitterPythonAdapter is the tree-sitter backed PythonAdapter.
type TreeSitterPythonAdapter struct{}

// NewTreeSitterPythonAdapter returns a PythonAdapter for the Python grammar.
func NewTreeSitterPythonAdapter() *TreeSitterPythonAdapter {
	return &TreeSitterPythonAdapter{}
}

// Parse implements PythonAdapter.
func (a *TreeSitterPythonAdapter) Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse python source: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		syntaxErr := locateSyntaxError(root, src)
		tree.Close()

		return nil, syntaxErr
	}

	if syntaxErr := checkStatements(root); syntaxErr != nil {
		tree.Close()

		return nil, syntaxErr
	}

	return tree, nil
}

// checkStatements rejects trees the grammar accepts but Python 3 does not:
// Python 2 print and exec statements, del targets that are not assignable
// and statements of one suite that start at different columns.
func checkStatements(node *sitter.Node) *m.SyntaxError {
	switch node.Type() {
	case "print_statement":
		return nodeSyntaxError(node, "Missing parentheses in call to 'print'")
	case "exec_statement":
		return nodeSyntaxError(node, "Missing parentheses in call to 'exec'")
	case "delete_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if target := invalidDeleteTarget(node.NamedChild(i)); target != nil {
				return nodeSyntaxError(target, "cannot delete "+target.Type())
			}
		}
	case "module", "block":
		if stmt := misindented(node); stmt != nil {
			return nodeSyntaxError(stmt, "unindent does not match any outer indentation level")
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if syntaxErr := checkStatements(node.NamedChild(i)); syntaxErr != nil {
			return syntaxErr
		}
	}

	return nil
}

// invalidDeleteTarget returns the first part of a del target that cannot be
// deleted, or nil.
func invalidDeleteTarget(node *sitter.Node) *sitter.Node {
	switch node.Type() {
	case "identifier", "attribute", "subscript", "comment":
		return nil
	case "expression_list", "tuple", "list", "parenthesized_expression":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if bad := invalidDeleteTarget(node.NamedChild(i)); bad != nil {
				return bad
			}
		}

		return nil
	default:
		return node
	}
}

// misindented returns the first statement of a suite that starts a new line
// at a column other than the suite's first statement.
func misindented(suite *sitter.Node) *sitter.Node {
	var first *sitter.Node

	lastRow := -1

	for i := 0; i < int(suite.NamedChildCount()); i++ {
		stmt := suite.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}

		row := int(stmt.StartPoint().Row)

		switch {
		case first == nil:
			first = stmt
		case row > lastRow && stmt.StartPoint().Column != first.StartPoint().Column:
			return stmt
		}

		lastRow = int(stmt.EndPoint().Row)
	}

	return nil
}

func nodeSyntaxError(node *sitter.Node, text string) *m.SyntaxError {
	point := node.StartPoint()

	return &m.SyntaxError{
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Text:   text,
	}
}

// locateSyntaxError finds the first ERROR or MISSING node in source order.
func locateSyntaxError(root *sitter.Node, src []byte) *m.SyntaxError {
	node := firstErrorNode(root)
	if node == nil {
		node = root
	}

	point := node.StartPoint()
	text := node.Content(src)

	if node.IsMissing() {
		text = "missing " + node.Type()
	}

	if len(text) > 40 {
		text = text[:40]
	}

	return &m.SyntaxError{
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Text:   text,
	}
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}

	if !node.HasError() {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}

	return nil
}
