// expr.go — the expression tree: a typed, evaluable form separate from
// the expression AST (spec §3, §9 design note on numeric promotion).
//
// The AST (ast.go) shapes precedence during parsing; the expression tree
// here is what the IR builder lowers AST expressions into, and what the
// (external) runtime evaluates against a variable/function environment.
// ValueType exists so later binary-op dispatch and error messages have a
// type tag to work with, even though DP's lexer currently routes every
// numeric literal through Number → float (spec §9 Open Question 1: both
// paths are preserved, but no DP literal ever directly produces an
// int-typed Constant — only a later constant-folding pass, absent from
// this compiler core, could).
package dp

import "fmt"

// ValueType is one of the four primitive types DP values carry, plus Void
// for expressions with no value (never produced by a literal; reserved
// for call-as-statement contexts the runtime may need to type).
type ValueType int

const (
	TypeInt ValueType = iota
	TypeFloat
	TypeString
	TypeBool
	TypeVoid
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeVoid:
		return "void"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// ExprTree is implemented by every expression-tree node.
type ExprTree interface {
	Type() ValueType
}

// Constant is a literal value of one of the four primitive types.
// Constructing one with any other type is a programmer error (spec §3
// "Value constraints": only the four primitive types).
type Constant struct {
	Value any
	Typ   ValueType
}

// NewConstant validates Typ against value constraints before returning a
// Constant; it panics on misuse, matching the spec's "programmer error"
// framing for unsupported types at construction time.
func NewConstant(value any, typ ValueType) *Constant {
	switch typ {
	case TypeInt, TypeFloat, TypeString, TypeBool:
		return &Constant{Value: value, Typ: typ}
	default:
		panic(fmt.Sprintf("dp: unsupported constant type %v", typ))
	}
}

func (c *Constant) Type() ValueType { return c.Typ }

// Variable references a (possibly "global."-prefixed) named value,
// resolved by the runtime's environment, not by the compiler core.
type Variable struct {
	Name string
}

func (*Variable) Type() ValueType { return TypeVoid }

// UnaryOp applies a prefix operator (Minus, Plus, Not) to an operand.
type UnaryOp struct {
	Op      Kind
	Operand ExprTree
}

func (*UnaryOp) Type() ValueType { return TypeVoid }

// BinaryOp applies an infix operator to two operands. Op may also be a
// compound-assign's underlying arithmetic/logical operator, synthesized
// by the IR builder when lowering `$var op= expr` (spec §4.3).
type BinaryOp struct {
	Op    Kind
	Left  ExprTree
	Right ExprTree
}

func (*BinaryOp) Type() ValueType { return TypeVoid }

// EmbedCallExpr is a call used in expression position: `{call f(a, b)}`.
type EmbedCallExpr struct {
	FuncName string
	Args     []ExprTree
}

func (*EmbedCallExpr) Type() ValueType { return TypeVoid }

// FStringNode is the lowered form of an f-string: Fragments holds literal
// text with one PlaceHolder sentinel ("{_0_}") per entry of Embeds, in
// order, so the runtime can reconstruct the interpolated string (spec §3
// invariant: fragments contains exactly one PlaceHolder sentinel per
// embed).
type FStringNode struct {
	Fragments []string
	Embeds    []ExprTree
}

func (*FStringNode) Type() ValueType { return TypeString }

// PlaceholderSentinel is the textual marker FStringNode.Fragments uses in
// place of each embed, per spec §4.3.
const PlaceholderSentinel = "{_0_}"

// AssignNode is the lowered form of `$var = expr` or a compound assignment
// already folded into `var := op-apply(var, value)` by the IR builder. It
// is named distinctly from ast.Assign (the parse-time statement node) even
// though both represent "an assignment": this one is a leaf in the
// evaluable expression tree, not a statement in the parse tree.
type AssignNode struct {
	VarName string
	Value   ExprTree
}

func (*AssignNode) Type() ValueType { return TypeVoid }
