package analyzer

import (
	"fmt"

	"github.com/nasalint/nasalint/internal/pyast"
	tt "github.com/nasalint/nasalint/internal/types"
)

const (
	// maxFuncLines is the raw-line-number difference at which a function is
	// considered too long: endLine-startLine >= 60 fails, 59 passes.
	maxFuncLines = 60
	minAsserts   = 2
)

// forbiddenCalls are the callable names excluded from the restricted subset.
var forbiddenCalls = map[string]bool{
	"eval":       true,
	"exec":       true,
	"compile":    true,
	"globals":    true,
	"locals":     true,
	"__import__": true,
	"setattr":    true,
	"getattr":    true,
}

// checkCall flags calls to forbidden APIs (NASA01-A). Only bare-name and
// attribute call targets resolve to a name; anything else is not checked.
// The reported range covers the call target, not the argument list.
func (w *walker) checkCall(call *pyast.Call) {
	var name string
	var target pyast.Node

	switch fn := call.Func.(type) {
	case *pyast.Name:
		name, target = fn.ID, fn
	case *pyast.Attribute:
		name, target = fn.Attr, fn
	default:
		return
	}

	if !forbiddenCalls[name] {
		return
	}
	w.report(
		rangeForNode(target),
		fmt.Sprintf("Call to forbidden API '%s' (restricted subset)", name),
		tt.CodeForbiddenCall,
	)
}

// checkWhile flags `while True` loops (NASA02). Only a literal true
// condition counts; `while False`, non-constant conditions, and for-loops
// are never flagged regardless of the loop body.
func (w *walker) checkWhile(loop *pyast.While) {
	cond, ok := loop.Cond.(*pyast.BoolLit)
	if !ok || !cond.Value {
		return
	}
	w.report(
		rangeForNode(loop),
		"Unbounded loop 'while True' (loops must be bounded)",
		tt.CodeUnboundedLoop,
	)
}

// checkFunction runs the function-level rules in a fixed order when the
// definition node is visited: recursion, then length, then assertion count.
// All three anchor their diagnostic to the function-name range.
func (w *walker) checkFunction(fn *pyast.FunctionDef) {
	nameRange := w.funcNameRange(fn)

	if callsSelf(fn) {
		w.report(
			nameRange,
			fmt.Sprintf("Recursive call to '%s' (no recursion)", fn.Name),
			tt.CodeRecursion,
		)
	}

	span := fn.Span()
	if span.EndLine-span.StartLine >= maxFuncLines {
		w.report(
			nameRange,
			fmt.Sprintf("Function '%s' longer than %d lines (No function longer than %d lines)", fn.Name, maxFuncLines, maxFuncLines),
			tt.CodeFuncLength,
		)
	}

	if count := countAsserts(fn); count < minAsserts {
		w.report(
			nameRange,
			fmt.Sprintf("Function '%s' has only %d assert(s); expected at least %d asserts (use assertions to detect impossible conditions)", fn.Name, count, minAsserts),
			tt.CodeAssertCount,
		)
	}
}

// walkScope visits every node reachable from nodes without entering nested
// function or class definitions, so findings stay attributed to the
// function being checked. The nested definitions are checked on their own
// when the outer traversal reaches them. Returns false on early stop.
func walkScope(nodes []pyast.Node, visit func(pyast.Node) bool) bool {
	for _, n := range nodes {
		switch n.(type) {
		case *pyast.FunctionDef, *pyast.ClassDef:
			continue
		}
		if !visit(n) {
			return false
		}
		if !walkScope(n.Children(), visit) {
			return false
		}
	}
	return true
}

// callsSelf reports whether the function's direct scope contains a call to
// the function's own name (NASA01-B). Mutual recursion between two
// functions is deliberately not detected.
func callsSelf(fn *pyast.FunctionDef) bool {
	found := false
	walkScope(fn.Body, func(n pyast.Node) bool {
		call, ok := n.(*pyast.Call)
		if !ok {
			return true
		}
		if name, ok := call.Func.(*pyast.Name); ok && name.ID == fn.Name {
			found = true
			return false
		}
		return true
	})
	return found
}

// countAsserts counts assert statements in the function's direct scope.
func countAsserts(fn *pyast.FunctionDef) int {
	count := 0
	walkScope(fn.Body, func(n pyast.Node) bool {
		if _, ok := n.(*pyast.Assert); ok {
			count++
		}
		return true
	})
	return count
}
