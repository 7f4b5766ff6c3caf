package pyast

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax reports that the source text is not valid Python. Callers treat
// it as "nothing to analyze", not as a fatal condition.
var ErrSyntax = errors.New("source failed to parse")

// Parse turns Python source into a Module tree. Any grammar error anywhere
// in the input yields ErrSyntax; the tree is never partially returned.
func Parse(source []byte) (*Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, ErrSyntax
	}

	mod, ok := convert(root, source).(*Module)
	if !ok {
		return nil, ErrSyntax
	}
	return mod, nil
}

func spanOf(n *sitter.Node) Span {
	start := n.StartPoint()
	end := n.EndPoint()
	return Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}

func convertChildren(n *sitter.Node, source []byte) []Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	kids := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		kids = append(kids, convert(n.NamedChild(i), source))
	}
	return kids
}

// fieldIndex locates the named-child index backing a grammar field, so the
// converted field node can be shared rather than converted twice.
func fieldIndex(n *sitter.Node, field string) int {
	target := n.ChildByFieldName(field)
	if target == nil {
		return -1
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.StartByte() == target.StartByte() && c.EndByte() == target.EndByte() && c.Type() == target.Type() {
			return i
		}
	}
	return -1
}

// blockStatements returns the converted statements of the node's body block.
// inner must be the result of convertChildren(n, source).
func blockStatements(n *sitter.Node, inner []Node) []Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "block" && i < len(inner) {
			return inner[i].Children()
		}
	}
	return nil
}

func convert(n *sitter.Node, source []byte) Node {
	loc := spanOf(n)

	switch n.Type() {
	case "module":
		return &Module{Loc: loc, Body: convertChildren(n, source)}

	case "function_definition":
		name := ""
		if id := n.ChildByFieldName("name"); id != nil {
			name = id.Content(source)
		}
		async := n.ChildCount() > 0 && n.Child(0).Type() == "async"
		inner := convertChildren(n, source)
		return &FunctionDef{
			Loc:   loc,
			Name:  name,
			Async: async,
			Body:  blockStatements(n, inner),
			Inner: inner,
		}

	case "class_definition":
		name := ""
		if id := n.ChildByFieldName("name"); id != nil {
			name = id.Content(source)
		}
		inner := convertChildren(n, source)
		return &ClassDef{
			Loc:   loc,
			Name:  name,
			Body:  blockStatements(n, inner),
			Inner: inner,
		}

	case "call":
		inner := convertChildren(n, source)
		var fn Node
		if i := fieldIndex(n, "function"); i >= 0 && i < len(inner) {
			fn = inner[i]
		}
		return &Call{Loc: loc, Func: fn, Inner: inner}

	case "attribute":
		attr := ""
		if id := n.ChildByFieldName("attribute"); id != nil {
			attr = id.Content(source)
		}
		inner := convertChildren(n, source)
		var value Node
		if i := fieldIndex(n, "object"); i >= 0 && i < len(inner) {
			value = inner[i]
		}
		return &Attribute{Loc: loc, Value: value, Attr: attr, Inner: inner}

	case "identifier":
		return &Name{Loc: loc, ID: n.Content(source)}

	case "while_statement":
		inner := convertChildren(n, source)
		var cond Node
		if i := fieldIndex(n, "condition"); i >= 0 && i < len(inner) {
			cond = inner[i]
		}
		return &While{Loc: loc, Cond: cond, Inner: inner}

	case "true":
		return &BoolLit{Loc: loc, Value: true}

	case "false":
		return &BoolLit{Loc: loc, Value: false}

	case "assert_statement":
		return &Assert{Loc: loc, Inner: convertChildren(n, source)}

	case "lambda":
		return &Lambda{Loc: loc, Inner: convertChildren(n, source)}

	default:
		return &Generic{Loc: loc, Kind: n.Type(), Inner: convertChildren(n, source)}
	}
}
