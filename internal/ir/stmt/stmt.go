// Package stmt defines the statement-based representation of the tensor IR.
//
// Unlike package ir, where loops and stores are expressions, control and
// effects here are statements grouped in blocks. Operands of statements
// (bounds, indices, values) are ir.Expr trees.
package stmt

import (
	"github.com/HugoDaniel/irsubst/internal/ir"
)

// Kind identifies a statement variant.
type Kind uint8

const (
	KindFor Kind = iota
	KindStore
	KindLet
	KindAlloc
	KindFree
	KindIfThenElse
	KindEvaluate
	KindSchedule

	kindCount
)

var kindNames = [...]string{
	KindFor:        "For",
	KindStore:      "Store",
	KindLet:        "Let",
	KindAlloc:      "Alloc",
	KindFree:       "Free",
	KindIfThenElse: "IfThenElse",
	KindEvaluate:   "Evaluate",
	KindSchedule:   "Schedule",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds returns every statement kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Stmt represents a statement.
type Stmt interface {
	Kind() Kind
	isStmt()
}

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []Stmt
}

// NewBlock creates a block from stmts.
func NewBlock(stmts ...Stmt) *Block {
	return &Block{Stmts: stmts}
}

// For iterates LoopVar over [Min, Min+Extent).
type For struct {
	LoopVar *ir.Var
	Min     ir.Expr
	Extent  ir.Expr
	ForKind ir.ForKind
	Body    *Block
}

func (*For) Kind() Kind { return KindFor }
func (*For) isStmt()    {}

// Store writes Value into Tensor at Indices.
type Store struct {
	Tensor  ir.Expr
	Indices []ir.Expr
	Value   ir.Expr
}

func (*Store) Kind() Kind { return KindStore }
func (*Store) isStmt()    {}

// Let binds Symbol to Value.
type Let struct {
	Symbol *ir.Var
	Value  ir.Expr
}

func (*Let) Kind() Kind { return KindLet }
func (*Let) isStmt()    {}

// Alloc allocates a buffer with the given extents.
type Alloc struct {
	Name    string
	Extents []ir.Expr
}

func (*Alloc) Kind() Kind { return KindAlloc }
func (*Alloc) isStmt()    {}

// Free releases a buffer allocated by Alloc.
type Free struct {
	Name string
}

func (*Free) Kind() Kind { return KindFree }
func (*Free) isStmt()    {}

// IfThenElse is a conditional. False is nil when there is no else branch.
type IfThenElse struct {
	Condition ir.Expr
	True      *Block
	False     *Block
}

func (*IfThenElse) Kind() Kind { return KindIfThenElse }
func (*IfThenElse) isStmt()    {}

// Evaluate evaluates an expression for its effects.
type Evaluate struct {
	Value ir.Expr
}

func (*Evaluate) Kind() Kind { return KindEvaluate }
func (*Evaluate) isStmt()    {}

// Schedule is a named schedule block. IterVars are bound to IterValues
// inside Body.
type Schedule struct {
	Name       string
	IterVars   []*ir.Var
	IterValues []ir.Expr
	Body       *Block
}

func (*Schedule) Kind() Kind { return KindSchedule }
func (*Schedule) isStmt()    {}
