package domain

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// Default prefixes used to recognise tests inside a test cell.
const (
	DefaultTestPrefix      = "test"
	DefaultTestClassPrefix = "Test"
)

// Collector discovers the test functions defined in test cells.
type Collector interface {
	Items(ctx context.Context, parsed *ParsedNotebook) ([]m.TestItem, map[int]error)
}

type collector struct {
	python      adapter.PythonAdapter
	prefix      string
	classPrefix string
}

// NewCollector builds a Collector. Empty prefixes fall back to the defaults.
func NewCollector(python adapter.PythonAdapter, prefix, classPrefix string) Collector {
	if prefix == "" {
		prefix = DefaultTestPrefix
	}

	if classPrefix == "" {
		classPrefix = DefaultTestClassPrefix
	}

	return &collector{python: python, prefix: prefix, classPrefix: classPrefix}
}

// Items lists top-level test functions and test methods of test classes for
// every test cell that muggled cleanly. Item lines are 1-based within the
// notebook cell, marker line included. A cell whose muggled source does not
// parse contributes no items; its error is returned under its index and the
// remaining cells are still collected.
func (c *collector) Items(ctx context.Context, parsed *ParsedNotebook) ([]m.TestItem, map[int]error) {
	var items []m.TestItem

	failures := make(map[int]error)

	for index, source := range parsed.MuggledTest.All() {
		if strings.TrimSpace(source.String()) == "" {
			continue
		}

		src := source.Bytes()

		tree, err := c.python.Parse(ctx, src)
		if err != nil {
			failures[index] = fmt.Errorf("failed to collect %s: %w", parsed.Address(index).Display(), err)
			continue
		}

		items = append(items, c.cellItems(parsed.Address(index), tree.RootNode(), src)...)
		tree.Close()
	}

	return items, failures
}

func (c *collector) cellItems(addr m.CellAddress, root *sitter.Node, src []byte) []m.TestItem {
	var items []m.TestItem

	for i := 0; i < int(root.NamedChildCount()); i++ {
		def := unwrapDecorated(root.NamedChild(i))
		if def == nil {
			continue
		}

		name := contentOf(def.ChildByFieldName("name"), src)

		switch def.Type() {
		case "function_definition":
			if strings.HasPrefix(name, c.prefix) {
				items = append(items, m.TestItem{Address: addr, Name: name, Line: cellLine(def)})
			}
		case "class_definition":
			if strings.HasPrefix(name, c.classPrefix) {
				items = append(items, c.methodItems(addr, name, def.ChildByFieldName("body"), src)...)
			}
		}
	}

	return items
}

func (c *collector) methodItems(addr m.CellAddress, class string, body *sitter.Node, src []byte) []m.TestItem {
	if body == nil {
		return nil
	}

	var items []m.TestItem

	for i := 0; i < int(body.NamedChildCount()); i++ {
		def := unwrapDecorated(body.NamedChild(i))
		if def == nil || def.Type() != "function_definition" {
			continue
		}

		name := contentOf(def.ChildByFieldName("name"), src)
		if strings.HasPrefix(name, c.prefix) {
			items = append(items, m.TestItem{Address: addr, Name: class + "::" + name, Line: cellLine(def)})
		}
	}

	return items
}

// unwrapDecorated returns the definition under any decorators, or nil for
// nodes that are not definitions.
func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node.Type() == "decorated_definition" {
		node = node.ChildByFieldName("definition")
	}

	if node == nil || (node.Type() != "function_definition" && node.Type() != "class_definition") {
		return nil
	}

	return node
}

// cellLine maps a node row of the test source to its line in the notebook
// cell; the marker line that was stripped is line 1.
func cellLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 2
}
