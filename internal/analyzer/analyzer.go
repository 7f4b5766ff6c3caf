// Package analyzer checks Python source against the restricted-subset
// (NASA Power of Ten) coding rules and reports violations as positioned
// diagnostics. One call, one traversal: the tree is walked once, depth-first
// and pre-order, and rule checks fire at the node kinds they apply to.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/nasalint/nasalint/internal/pyast"
	tt "github.com/nasalint/nasalint/internal/types"
)

// Analyze parses source and returns every rule violation found, in document
// (pre-order) order. Source that does not parse yields no diagnostics; the
// call never fails.
func Analyze(source string) []tt.Diagnostic {
	mod, err := pyast.Parse([]byte(source))
	if err != nil {
		return nil
	}

	w := &walker{lines: strings.Split(source, "\n")}
	w.walk(mod)
	return w.diags
}

// walker accumulates diagnostics over one traversal. It owns its sink
// exclusively; nothing is shared between Analyze calls.
type walker struct {
	lines []string
	diags []tt.Diagnostic
}

// walk visits every node exactly once. Checks run before the descent, and
// the descent is unconditional: a function body is still scanned for calls
// and loops after the function-level rules fire.
func (w *walker) walk(n pyast.Node) {
	switch node := n.(type) {
	case *pyast.Call:
		w.checkCall(node)
	case *pyast.While:
		w.checkWhile(node)
	case *pyast.FunctionDef:
		w.checkFunction(node)
	case *pyast.Module, *pyast.ClassDef, *pyast.Attribute, *pyast.Name,
		*pyast.BoolLit, *pyast.Assert, *pyast.Lambda, *pyast.Generic:
		// no rule fires at these kinds
	}

	for _, child := range n.Children() {
		w.walk(child)
	}
}

func (w *walker) report(rng tt.Range, message, code string) {
	w.diags = append(w.diags, tt.Diagnostic{Range: rng, Message: message, Code: code})
}

// toPosition converts the parser's 1-based line / 0-based column pair into
// the zero-based position diagnostics use. The preconditions are a contract
// with the parser; a violation means broken tree metadata, so fail loudly.
func toPosition(line, col int) tt.Position {
	if line < 1 || col < 0 {
		panic(fmt.Sprintf("analyzer: invalid source coordinates %d:%d", line, col))
	}
	return tt.Position{Line: line - 1, Character: col}
}

func rangeForNode(n pyast.Node) tt.Range {
	span := n.Span()
	return tt.Range{
		Start: toPosition(span.StartLine, span.StartCol),
		End:   toPosition(span.EndLine, span.EndCol),
	}
}
