package analyzer

import (
	"strings"

	"github.com/nasalint/nasalint/internal/pyast"
	tt "github.com/nasalint/nasalint/internal/types"
)

// funcNameRange recovers the span of just the function's name token, so
// name-anchored diagnostics point at a readable location instead of the
// whole definition. It is a best-effort text scan over the definition line:
// when the line is unavailable it falls back to the whole-node range, and
// when the keyword cannot be found it falls back to a name-length span at
// the node's own column.
func (w *walker) funcNameRange(fn *pyast.FunctionDef) tt.Range {
	span := fn.Span()
	lineIdx := span.StartLine - 1
	if lineIdx < 0 || lineIdx >= len(w.lines) {
		return rangeForNode(fn)
	}

	keyword := "def"
	if fn.Async {
		keyword = "async def"
	}

	lineText := w.lines[lineIdx]
	idx := indexFrom(lineText, keyword, span.StartCol)
	if idx < 0 {
		return tt.Range{
			Start: toPosition(span.StartLine, span.StartCol),
			End:   toPosition(span.StartLine, span.StartCol+len(fn.Name)),
		}
	}

	nameStart := idx + len(keyword)
	for nameStart < len(lineText) && isSpace(lineText[nameStart]) {
		nameStart++
	}
	return tt.Range{
		Start: toPosition(span.StartLine, nameStart),
		End:   toPosition(span.StartLine, nameStart+len(fn.Name)),
	}
}

// indexFrom is strings.Index constrained to begin searching at from.
func indexFrom(s, substr string, from int) int {
	if from < 0 || from > len(s) {
		return -1
	}
	idx := strings.Index(s[from:], substr)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\v'
}
