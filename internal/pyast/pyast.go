// Package pyast exposes a Python syntax tree as a closed set of node
// variants. The grammar kinds the analyzer dispatches on get their own
// types; everything else is folded into Generic so a traversal can still
// reach every node.
package pyast

// Span carries the raw source coordinates of a node as reported by the
// parser: 1-based lines, 0-based byte columns.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Node is implemented by every tree variant in this package and nowhere
// else, so a type switch over the variants is exhaustive.
type Node interface {
	Span() Span
	Children() []Node
	node()
}

// Module is the root of a parsed source file.
type Module struct {
	Loc  Span
	Body []Node
}

// FunctionDef is a sync or async function definition.
type FunctionDef struct {
	Loc   Span
	Name  string
	Async bool
	// Body holds the direct statements of the function block. Inner holds
	// every named child subtree (parameters, body, ...) for the generic walk.
	Body  []Node
	Inner []Node
}

// ClassDef is a class definition.
type ClassDef struct {
	Loc   Span
	Name  string
	Body  []Node
	Inner []Node
}

// Call is a call expression; Func is the call-target sub-expression.
type Call struct {
	Loc   Span
	Func  Node
	Inner []Node
}

// Attribute is a member access such as obj.attr.
type Attribute struct {
	Loc   Span
	Value Node
	Attr  string
	Inner []Node
}

// Name is a bare identifier reference.
type Name struct {
	Loc Span
	ID  string
}

// While is a while-loop; Cond is its condition sub-expression.
type While struct {
	Loc   Span
	Cond  Node
	Inner []Node
}

// BoolLit is a literal True or False.
type BoolLit struct {
	Loc   Span
	Value bool
}

// Assert is an assert statement.
type Assert struct {
	Loc   Span
	Inner []Node
}

// Lambda is an anonymous single-expression function. It is deliberately
// not a FunctionDef: no function-level rule applies to it.
type Lambda struct {
	Loc   Span
	Inner []Node
}

// Generic covers every grammar kind without a dedicated variant.
type Generic struct {
	Loc   Span
	Kind  string
	Inner []Node
}

func (n *Module) Span() Span      { return n.Loc }
func (n *FunctionDef) Span() Span { return n.Loc }
func (n *ClassDef) Span() Span    { return n.Loc }
func (n *Call) Span() Span        { return n.Loc }
func (n *Attribute) Span() Span   { return n.Loc }
func (n *Name) Span() Span        { return n.Loc }
func (n *While) Span() Span       { return n.Loc }
func (n *BoolLit) Span() Span     { return n.Loc }
func (n *Assert) Span() Span      { return n.Loc }
func (n *Lambda) Span() Span      { return n.Loc }
func (n *Generic) Span() Span     { return n.Loc }

func (n *Module) Children() []Node      { return n.Body }
func (n *FunctionDef) Children() []Node { return n.Inner }
func (n *ClassDef) Children() []Node    { return n.Inner }
func (n *Call) Children() []Node        { return n.Inner }
func (n *Attribute) Children() []Node   { return n.Inner }
func (n *Name) Children() []Node        { return nil }
func (n *While) Children() []Node       { return n.Inner }
func (n *BoolLit) Children() []Node     { return nil }
func (n *Assert) Children() []Node      { return n.Inner }
func (n *Lambda) Children() []Node      { return n.Inner }
func (n *Generic) Children() []Node     { return n.Inner }

func (*Module) node()      {}
func (*FunctionDef) node() {}
func (*ClassDef) node()    {}
func (*Call) node()        {}
func (*Attribute) node()   {}
func (*Name) node()        {}
func (*While) node()       {}
func (*BoolLit) node()     {}
func (*Assert) node()      {}
func (*Lambda) node()      {}
func (*Generic) node()     {}
