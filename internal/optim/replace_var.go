// Package optim implements the variable substitution passes used by loop
// transformations (unrolling, tiling, bound specialization).
//
// A substitution replaces every occurrence of a variable with a fresh deep
// copy of a replacement expression. When a tensor name is given, only the
// index expressions of that tensor's loads and stores are rewritten; an empty
// tensor name rewrites everywhere, including loop bounds and loop variables.
//
// The same substitution is available over both IR taxonomies: the unified
// expression tree (package ir) and the statement representation (package
// stmt).
package optim

import (
	"github.com/HugoDaniel/irsubst/internal/ir"
)

// Option configures a Replacer.
type Option func(*Replacer)

// WithMatchIdentity matches variables by ID instead of by name.
func WithMatchIdentity() Option {
	return func(r *Replacer) { r.matchIdentity = true }
}

// WithSkipUnsupported makes the statement rewriter pass silently over
// statement kinds it cannot rewrite instead of failing.
func WithSkipUnsupported() Option {
	return func(r *Replacer) { r.skipUnsupported = true }
}

// Replacer holds one substitution: target variable, replacement and optional
// tensor scope. It keeps no traversal state and may be shared between
// goroutines rewriting disjoint trees.
type Replacer struct {
	target          *ir.Var
	replacement     ir.Expr
	tensorName      string
	matchIdentity   bool
	skipUnsupported bool
}

// scope is the substitution state at one point of the walk.
type scope struct {
	// visitAll: no tensor name was given, replace everywhere.
	visitAll bool
	// inTensor: inside the index list of an access to the target tensor.
	inTensor bool
}

func (s scope) enabled() bool {
	return s.visitAll || s.inTensor
}

// NewReplacer creates a Replacer for target -> replacement. tensorName may be
// empty.
func NewReplacer(target *ir.Var, replacement ir.Expr, tensorName string, opts ...Option) (*Replacer, error) {
	if target == nil {
		return nil, ErrNilVar
	}
	if replacement == nil {
		return nil, ErrNilReplacement
	}
	r := &Replacer{
		target:      target,
		replacement: replacement,
		tensorName:  tensorName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ReplaceVarWithExpr replaces target inside *root with copies of
// replacement. The root slot itself is replaced when it is the variable.
func ReplaceVarWithExpr(root *ir.Expr, target *ir.Var, replacement ir.Expr, tensorName string, opts ...Option) error {
	if root == nil {
		return ErrNilRoot
	}
	r, err := NewReplacer(target, replacement, tensorName, opts...)
	if err != nil {
		return err
	}
	r.Expr(root)
	return nil
}

// Expr rewrites the expression tree rooted at *root in place.
func (r *Replacer) Expr(root *ir.Expr) {
	if root == nil {
		return
	}
	r.visitExpr(root, r.rootScope())
}

func (r *Replacer) rootScope() scope {
	return scope{visitAll: r.tensorName == ""}
}

// ----------------------------------------------------------------------------
// Scope Predicate
// ----------------------------------------------------------------------------

// matches reports whether v is the target variable.
func (r *Replacer) matches(v *ir.Var) bool {
	if r.matchIdentity {
		return r.target.SameIdentity(v)
	}
	return r.target.SameName(v)
}

// shouldReplace reports whether e is a matching variable at a point where
// substitution is enabled. Anything that is not a variable is never
// replaced.
func (r *Replacer) shouldReplace(e ir.Expr, s scope) bool {
	v, ok := ir.AsVar(e)
	if !ok {
		return false
	}
	return r.matches(v) && s.enabled()
}

// fresh returns a new, independently owned copy of the replacement.
func (r *Replacer) fresh() ir.Expr {
	return ir.Copy(r.replacement)
}

// renameLoopVar returns the variable a loop should iterate with after the
// substitution. The loop variable itself is only renamed in replace-everywhere
// mode and only when the replacement is a plain variable.
func (r *Replacer) renameLoopVar(loopVar *ir.Var, s scope) *ir.Var {
	if loopVar == nil || !r.matches(loopVar) || !s.visitAll {
		return loopVar
	}
	v, ok := ir.AsVar(r.replacement)
	if !ok {
		return loopVar
	}
	return ir.CopyVar(v)
}

// ----------------------------------------------------------------------------
// Expression Rewriter
// ----------------------------------------------------------------------------

func (r *Replacer) visitExpr(slot *ir.Expr, s scope) {
	switch e := (*slot).(type) {
	case nil:
		return

	case *ir.Var:
		if r.shouldReplace(e, s) {
			*slot = r.fresh()
		}

	case *ir.IntImm, *ir.FloatImm:
		// Leaves.

	case *ir.Binary:
		r.visitExpr(&e.A, s)
		r.visitExpr(&e.B, s)

	case *ir.Unary:
		r.visitExpr(&e.X, s)

	case *ir.Call:
		r.visitList(e.Args, s)

	case *ir.Tensor:
		r.visitList(e.Shape, s)

	case *ir.For:
		r.visitExpr(&e.Min, s)
		r.visitExpr(&e.Extent, s)
		r.visitExpr(&e.Body, s)
		e.LoopVar = r.renameLoopVar(e.LoopVar, s)

	case *ir.PolyFor:
		r.visitExpr(&e.Init, s)
		r.visitExpr(&e.Condition, s)
		r.visitExpr(&e.Inc, s)
		r.visitExpr(&e.Body, s)
		e.Iterator = r.renameLoopVar(e.Iterator, s)

	case *ir.Store:
		s.inTensor = ir.TensorName(e.Tensor) == r.tensorName
		r.visitList(e.Indices, s)
		s.inTensor = false
		r.visitExpr(&e.Tensor, s)
		r.visitExpr(&e.Value, s)

	case *ir.Load:
		s.inTensor = ir.TensorName(e.Tensor) == r.tensorName
		r.visitList(e.Indices, s)
		s.inTensor = false
		r.visitExpr(&e.Tensor, s)

	case *ir.Block:
		r.visitList(e.Stmts, s)

	case *ir.IfThenElse:
		r.visitExpr(&e.Condition, s)
		r.visitExpr(&e.True, s)
		r.visitExpr(&e.False, s)

	case *ir.Let:
		// Symbol is a binding, not a use.
		r.visitExpr(&e.Value, s)
	}
}

func (r *Replacer) visitList(list []ir.Expr, s scope) {
	for i := range list {
		r.visitExpr(&list[i], s)
	}
}
