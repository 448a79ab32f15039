package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	"github.com/mouse-blink/ipynb2/internal/domain/transforms"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// Default magic names recognised in every fragment.
var (
	DefaultRuntimeNames = []string{"get_ipython"}
	DefaultMagicModules = []string{"ipytest"}
)

// Detection is the outcome of scanning one source fragment. Lines are 1-based
// and sorted; Names is the final magic-name set including aliases bound by
// imports inside the fragment.
type Detection struct {
	Lines []int
	Names []string
}

// MagicDetector finds the lines of a fragment that only make sense inside
// IPython.
type MagicDetector interface {
	Detect(src m.Source) (Detection, error)
}

type magicDetector struct {
	transformer transforms.Transformer
	python      adapter.PythonAdapter
	runtime     []string
	modules     []string
}

// NewMagicDetector builds a detector. Empty name lists fall back to
// DefaultRuntimeNames and DefaultMagicModules.
func NewMagicDetector(transformer transforms.Transformer, python adapter.PythonAdapter, runtimeNames, magicModules []string) MagicDetector {
	if len(runtimeNames) == 0 {
		runtimeNames = DefaultRuntimeNames
	}

	if len(magicModules) == 0 {
		magicModules = DefaultMagicModules
	}

	return &magicDetector{
		transformer: transformer,
		python:      python,
		runtime:     slices.Clone(runtimeNames),
		modules:     slices.Clone(magicModules),
	}
}

// Detect flags cell-magic lines lexically, rewrites line magics through the
// transformer and then walks the Python syntax tree for uses of the magic
// names. A fragment that does not parse returns a *m.SyntaxError.
func (d *magicDetector) Detect(src m.Source) (Detection, error) {
	flagged := m.LineSet{}

	lines := src.Lines()
	masked := make([]string, len(lines))

	for i, line := range lines {
		masked[i] = line
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "%%") {
			flagged.Add(i+1, i+1)
			masked[i] = "# " + line
		}
	}

	names := newNameSet([]string{transforms.RuntimeAccessor}, d.runtime, d.modules)

	transformed, err := d.transformer.Transform(strings.Join(masked, "\n"))
	if err != nil {
		return Detection{}, fmt.Errorf("failed to transform magics: %w", err)
	}

	if strings.TrimSpace(transformed) == "" {
		return Detection{Lines: flagged.Sorted(), Names: names.sorted()}, nil
	}

	code := []byte(transformed)

	tree, err := d.python.Parse(context.Background(), code)
	if err != nil {
		return Detection{}, err
	}
	defer tree.Close()

	walker := &magicWalker{src: code, names: names, modules: d.modules, lines: flagged}
	walker.visit(tree.RootNode())

	return Detection{Lines: flagged.Sorted(), Names: names.sorted()}, nil
}

type nameSet map[string]struct{}

func newNameSet(groups ...[]string) nameSet {
	set := nameSet{}

	for _, group := range groups {
		for _, name := range group {
			set[name] = struct{}{}
		}
	}

	return set
}

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s nameSet) sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// magicWalker is a pre-order traversal in source order. Aliases bound by an
// import only affect nodes visited after it.
type magicWalker struct {
	src     []byte
	names   nameSet
	modules []string
	lines   m.LineSet
}

func (w *magicWalker) visit(node *sitter.Node) {
	switch node.Type() {
	case "call", "attribute":
		if base := chainBase(node); base != nil && base.Type() == "identifier" && w.names.has(base.Content(w.src)) {
			w.flag(node)
		}
	case "import_statement":
		w.visitImport(node)
	case "import_from_statement":
		w.visitImportFrom(node)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.visit(node.NamedChild(i))
	}
}

// visitImport handles "import ipytest" and "import ipytest as alias".
func (w *magicWalker) visitImport(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		var module, alias string

		switch child.Type() {
		case "dotted_name":
			module = child.Content(w.src)
		case "aliased_import":
			module = contentOf(child.ChildByFieldName("name"), w.src)
			alias = contentOf(child.ChildByFieldName("alias"), w.src)
		default:
			continue
		}

		if !slices.Contains(w.modules, firstSegment(module)) {
			continue
		}

		w.flag(node)

		if alias != "" {
			w.names[alias] = struct{}{}
		}
	}
}

// visitImportFrom handles "from ipytest import a, b as c": every bound name
// becomes a magic name.
func (w *magicWalker) visitImportFrom(node *sitter.Node) {
	module := node.ChildByFieldName("module_name")
	if module == nil || !w.names.has(firstSegment(module.Content(w.src))) {
		return
	}

	w.flag(node)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() == module.StartByte() && child.EndByte() == module.EndByte() {
			continue
		}

		switch child.Type() {
		case "dotted_name":
			w.names[lastSegment(child.Content(w.src))] = struct{}{}
		case "aliased_import":
			if alias := contentOf(child.ChildByFieldName("alias"), w.src); alias != "" {
				w.names[alias] = struct{}{}
			}
		}
	}
}

// flag records every line the node spans.
func (w *magicWalker) flag(node *sitter.Node) {
	w.lines.Add(int(node.StartPoint().Row)+1, int(node.EndPoint().Row)+1)
}

// chainBase follows call callees and attribute objects down to the leftmost
// operand, so get_ipython().run_line_magic(...) resolves to get_ipython.
func chainBase(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Type() {
		case "call":
			node = node.ChildByFieldName("function")
		case "attribute":
			node = node.ChildByFieldName("object")
		default:
			return node
		}
	}

	return nil
}

func contentOf(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}

	return node.Content(src)
}

func firstSegment(dotted string) string {
	head, _, _ := strings.Cut(dotted, ".")
	return strings.TrimSpace(head)
}

func lastSegment(dotted string) string {
	return strings.TrimSpace(dotted[strings.LastIndex(dotted, ".")+1:])
}
