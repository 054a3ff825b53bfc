// Package ir defines the unified expression tree of the tensor IR.
//
// In this representation everything is an expression: loops, stores and
// blocks are Expr variants alongside arithmetic and tensor loads. The newer
// statement-based representation lives in package stmt and reuses these
// expressions for its operands.
//
// The tree is owned: every node sits in exactly one parent slot. Passes that
// insert a node into more than one place must Copy it first.
package ir

import (
	"github.com/google/uuid"
)

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Expr represents an expression node.
type Expr interface {
	isExpr()
}

// Var is a reference to a scalar variable (loop iterators, let symbols,
// symbolic extents).
type Var struct {
	Name string
	ID   uuid.UUID // Stable identity; uuid.Nil when unknown
}

func (*Var) isExpr() {}

// NewVar creates a variable with a fresh identity.
func NewVar(name string) *Var {
	return &Var{Name: name, ID: uuid.New()}
}

// SameName reports whether two variables share a name.
func (v *Var) SameName(other *Var) bool {
	return v != nil && other != nil && v.Name == other.Name
}

// SameIdentity reports whether two variables carry the same non-nil ID.
func (v *Var) SameIdentity(other *Var) bool {
	if v == nil || other == nil || v.ID == uuid.Nil {
		return false
	}
	return v.ID == other.ID
}

// IntImm is an integer immediate.
type IntImm struct {
	Value int64
}

func (*IntImm) isExpr() {}

// FloatImm is a floating point immediate.
type FloatImm struct {
	Value float64
}

func (*FloatImm) isExpr() {}

// Binary is a binary arithmetic, comparison or logical operation.
type Binary struct {
	Op BinaryOp
	A  Expr
	B  Expr
}

func (*Binary) isExpr() {}

// BinaryOp represents binary operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpMod                 // %
	OpLT                  // <
	OpLE                  // <=
	OpGT                  // >
	OpGE                  // >=
	OpEQ                  // ==
	OpNE                  // !=
	OpAnd                 // &&
	OpOr                  // ||
)

var binaryOpStrings = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpLT:  "<",
	OpLE:  "<=",
	OpGT:  ">",
	OpGE:  ">=",
	OpEQ:  "==",
	OpNE:  "!=",
	OpAnd: "&&",
	OpOr:  "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpStrings) {
		return binaryOpStrings[op]
	}
	return "?"
}

// Precedence returns the binding strength of the operator. Higher binds
// tighter.
func (op BinaryOp) Precedence() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEQ, OpNE:
		return 3
	case OpLT, OpLE, OpGT, OpGE:
		return 4
	case OpAdd, OpSub:
		return 5
	case OpMul, OpDiv, OpMod:
		return 6
	}
	return 0
}

// Unary is a unary operation.
type Unary struct {
	Op UnaryOp
	X  Expr
}

func (*Unary) isExpr() {}

// UnaryOp represents unary operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota // -
	OpNot                // !
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// Call is an intrinsic or extern function call.
type Call struct {
	Name string
	Args []Expr
}

func (*Call) isExpr() {}

// Tensor names a multidimensional buffer. It appears in the tensor slot of
// loads and stores.
type Tensor struct {
	Name  string
	Shape []Expr // nil when unknown
}

func (*Tensor) isExpr() {}

// Load reads Tensor at Indices.
type Load struct {
	Tensor  Expr
	Indices []Expr
}

func (*Load) isExpr() {}

// Store writes Value into Tensor at Indices.
type Store struct {
	Tensor  Expr
	Indices []Expr
	Value   Expr
}

func (*Store) isExpr() {}

// ForKind selects how a loop is executed.
type ForKind uint8

const (
	Serial ForKind = iota
	Parallel
	Unrolled
	Vectorized
)

func (k ForKind) String() string {
	switch k {
	case Parallel:
		return "parallel"
	case Unrolled:
		return "unroll"
	case Vectorized:
		return "vectorize"
	default:
		return ""
	}
}

// For iterates LoopVar over [Min, Min+Extent).
type For struct {
	LoopVar *Var
	Min     Expr
	Extent  Expr
	Kind    ForKind
	Body    Expr
}

func (*For) isExpr() {}

// PolyFor is the legacy loop form with explicit init, condition and
// increment expressions.
type PolyFor struct {
	Iterator  *Var
	Init      Expr
	Condition Expr
	Inc       Expr
	Body      Expr
}

func (*PolyFor) isExpr() {}

// Block is a sequence of expressions evaluated in order.
type Block struct {
	Stmts []Expr
}

func (*Block) isExpr() {}

// IfThenElse is a conditional. False is nil when there is no else branch.
type IfThenElse struct {
	Condition Expr
	True      Expr
	False     Expr
}

func (*IfThenElse) isExpr() {}

// Let binds Symbol to Value for the rest of the enclosing block.
type Let struct {
	Symbol *Var
	Value  Expr
}

func (*Let) isExpr() {}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// TensorName returns the name of the tensor in a load/store tensor slot, or
// "" when the slot does not hold a *Tensor.
func TensorName(e Expr) string {
	if t, ok := e.(*Tensor); ok {
		return t.Name
	}
	return ""
}

// AsVar returns e as a variable reference.
func AsVar(e Expr) (*Var, bool) {
	v, ok := e.(*Var)
	return v, ok && v != nil
}

// Int is shorthand for an integer immediate.
func Int(v int64) *IntImm {
	return &IntImm{Value: v}
}

// Add builds a + b.
func Add(a, b Expr) *Binary {
	return &Binary{Op: OpAdd, A: a, B: b}
}

// Mul builds a * b.
func Mul(a, b Expr) *Binary {
	return &Binary{Op: OpMul, A: a, B: b}
}

// NewTensor creates a tensor reference.
func NewTensor(name string, shape ...Expr) *Tensor {
	return &Tensor{Name: name, Shape: shape}
}
