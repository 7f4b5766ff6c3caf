package types

// Rule codes reported by the analyzer. The set is fixed; every diagnostic
// carries exactly one of these.
const (
	CodeForbiddenCall = "NASA01-A"
	CodeRecursion     = "NASA01-B"
	CodeUnboundedLoop = "NASA02"
	CodeFuncLength    = "NASA04"
	CodeAssertCount   = "NASA05"
)

// Position is a zero-based line/character pair identifying a point in a
// source document.
type Position struct {
	Line      int
	Character int
}

// Range is a span between two positions. End never precedes Start for any
// range derived from a real node span.
type Range struct {
	Start Position
	End   Position
}

// Diagnostic represents a single rule violation found in a source file.
// It is a plain value: created once per violation and never mutated.
type Diagnostic struct {
	Range   Range
	Message string
	Code    string
}
