package optim

import (
	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
)

// ReplaceVarWithExprInStmt replaces target inside the statement s.
func ReplaceVarWithExprInStmt(s stmt.Stmt, target *ir.Var, replacement ir.Expr, tensorName string, opts ...Option) error {
	if s == nil {
		return ErrNilRoot
	}
	r, err := NewReplacer(target, replacement, tensorName, opts...)
	if err != nil {
		return err
	}
	return r.Stmt(s)
}

// ReplaceVarWithExprInBlock replaces target inside every statement of b.
func ReplaceVarWithExprInBlock(b *stmt.Block, target *ir.Var, replacement ir.Expr, tensorName string, opts ...Option) error {
	if b == nil {
		return ErrNilRoot
	}
	r, err := NewReplacer(target, replacement, tensorName, opts...)
	if err != nil {
		return err
	}
	return r.Block(b)
}

// Stmt rewrites s in place. Unless WithSkipUnsupported was given, a
// statement kind the rewriter cannot handle makes it fail with an
// *UnsupportedStmtError before anything is modified.
func (r *Replacer) Stmt(s stmt.Stmt) error {
	if err := r.checkStmt(s); err != nil {
		return err
	}
	r.visitStmt(s, r.rootScope())
	return nil
}

// Block rewrites every statement of b in order. Failure semantics match
// Stmt.
func (r *Replacer) Block(b *stmt.Block) error {
	if err := r.checkBlock(b); err != nil {
		return err
	}
	r.visitBlock(b, r.rootScope())
	return nil
}

// ----------------------------------------------------------------------------
// Support Check
// ----------------------------------------------------------------------------

// supported reports whether the rewriter descends into statements of kind k.
func supported(k stmt.Kind) bool {
	switch k {
	case stmt.KindFor, stmt.KindStore:
		return true
	case stmt.KindLet, stmt.KindAlloc, stmt.KindFree,
		stmt.KindIfThenElse, stmt.KindEvaluate, stmt.KindSchedule:
		return false
	}
	return false
}

// checkStmt reports the first unsupported statement the rewriter would
// visit inside s.
func (r *Replacer) checkStmt(s stmt.Stmt) error {
	if r.skipUnsupported {
		return nil
	}
	var err error
	walkUnsupportedStmt(s, func(u stmt.Stmt) bool {
		err = &UnsupportedStmtError{Kind: u.Kind()}
		return false
	})
	return err
}

func (r *Replacer) checkBlock(b *stmt.Block) error {
	if r.skipUnsupported {
		return nil
	}
	var err error
	walkUnsupported(b, func(u stmt.Stmt) bool {
		err = &UnsupportedStmtError{Kind: u.Kind()}
		return false
	})
	return err
}

// SkippedStmts returns the statements of b the rewriter reaches but does
// not enter, in visit order. Under WithSkipUnsupported these pass through
// unchanged.
func SkippedStmts(b *stmt.Block) []stmt.Stmt {
	var out []stmt.Stmt
	walkUnsupported(b, func(s stmt.Stmt) bool {
		out = append(out, s)
		return true
	})
	return out
}

// walkUnsupported calls fn for each unsupported statement reachable from b
// along visitStmt's descent, stopping when fn returns false.
func walkUnsupported(b *stmt.Block, fn func(stmt.Stmt) bool) bool {
	if b == nil {
		return true
	}
	for _, s := range b.Stmts {
		if !walkUnsupportedStmt(s, fn) {
			return false
		}
	}
	return true
}

func walkUnsupportedStmt(s stmt.Stmt, fn func(stmt.Stmt) bool) bool {
	if s == nil {
		return true
	}
	if !supported(s.Kind()) {
		return fn(s)
	}
	if f, ok := s.(*stmt.For); ok {
		return walkUnsupported(f.Body, fn)
	}
	return true
}

// ----------------------------------------------------------------------------
// Statement Rewriter
// ----------------------------------------------------------------------------

func (r *Replacer) visitBlock(b *stmt.Block, sc scope) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		r.visitStmt(s, sc)
	}
}

func (r *Replacer) visitStmt(s stmt.Stmt, sc scope) {
	switch n := s.(type) {
	case nil:
		return

	case *stmt.For:
		r.visitExpr(&n.Min, sc)
		r.visitExpr(&n.Extent, sc)
		r.visitBlock(n.Body, sc)
		n.LoopVar = r.renameLoopVar(n.LoopVar, sc)

	case *stmt.Store:
		sc.inTensor = ir.TensorName(n.Tensor) == r.tensorName
		r.visitList(n.Indices, sc)
		sc.inTensor = false
		r.visitExpr(&n.Tensor, sc)
		r.visitExpr(&n.Value, sc)

	// Only reached under WithSkipUnsupported; otherwise checkStmt has
	// already rejected these kinds.
	// TODO(irsubst): substitute into Let values, Alloc extents, IfThenElse
	// conditions and branches, Evaluate values and Schedule iter values and
	// bodies.
	case *stmt.Let, *stmt.Alloc, *stmt.Free, *stmt.IfThenElse,
		*stmt.Evaluate, *stmt.Schedule:
	}
}
