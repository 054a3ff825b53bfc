package stmt

import (
	"github.com/HugoDaniel/irsubst/internal/ir"
)

// CopyBlock returns a deep copy of b.
func CopyBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	out := &Block{Stmts: make([]Stmt, len(b.Stmts))}
	for i, s := range b.Stmts {
		out.Stmts[i] = Copy(s)
	}
	return out
}

// Copy returns a deep copy of s.
func Copy(s Stmt) Stmt {
	if s == nil {
		return nil
	}

	switch n := s.(type) {
	case *For:
		return &For{
			LoopVar: ir.CopyVar(n.LoopVar),
			Min:     ir.Copy(n.Min),
			Extent:  ir.Copy(n.Extent),
			ForKind: n.ForKind,
			Body:    CopyBlock(n.Body),
		}
	case *Store:
		return &Store{
			Tensor:  ir.Copy(n.Tensor),
			Indices: ir.CopyList(n.Indices),
			Value:   ir.Copy(n.Value),
		}
	case *Let:
		return &Let{Symbol: ir.CopyVar(n.Symbol), Value: ir.Copy(n.Value)}
	case *Alloc:
		return &Alloc{Name: n.Name, Extents: ir.CopyList(n.Extents)}
	case *Free:
		return &Free{Name: n.Name}
	case *IfThenElse:
		return &IfThenElse{
			Condition: ir.Copy(n.Condition),
			True:      CopyBlock(n.True),
			False:     CopyBlock(n.False),
		}
	case *Evaluate:
		return &Evaluate{Value: ir.Copy(n.Value)}
	case *Schedule:
		vars := make([]*ir.Var, len(n.IterVars))
		for i, v := range n.IterVars {
			vars[i] = ir.CopyVar(v)
		}
		return &Schedule{
			Name:       n.Name,
			IterVars:   vars,
			IterValues: ir.CopyList(n.IterValues),
			Body:       CopyBlock(n.Body),
		}
	}

	panic("stmt.Copy: unknown statement type")
}

// EqualBlock reports whether two blocks are structurally equal.
func EqualBlock(a, b *Block) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a.Stmts) != len(b.Stmts) {
		return false
	}
	for i := range a.Stmts {
		if !Equal(a.Stmts[i], b.Stmts[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two statements are structurally equal. Variables
// compare by name.
func Equal(a, b Stmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *For:
		y := b.(*For)
		return sameVar(x.LoopVar, y.LoopVar) && x.ForKind == y.ForKind &&
			ir.Equal(x.Min, y.Min) && ir.Equal(x.Extent, y.Extent) &&
			EqualBlock(x.Body, y.Body)
	case *Store:
		y := b.(*Store)
		return ir.Equal(x.Tensor, y.Tensor) && ir.EqualList(x.Indices, y.Indices) &&
			ir.Equal(x.Value, y.Value)
	case *Let:
		y := b.(*Let)
		return sameVar(x.Symbol, y.Symbol) && ir.Equal(x.Value, y.Value)
	case *Alloc:
		y := b.(*Alloc)
		return x.Name == y.Name && ir.EqualList(x.Extents, y.Extents)
	case *Free:
		return x.Name == b.(*Free).Name
	case *IfThenElse:
		y := b.(*IfThenElse)
		return ir.Equal(x.Condition, y.Condition) &&
			EqualBlock(x.True, y.True) && EqualBlock(x.False, y.False)
	case *Evaluate:
		return ir.Equal(x.Value, b.(*Evaluate).Value)
	case *Schedule:
		y := b.(*Schedule)
		if x.Name != y.Name || len(x.IterVars) != len(y.IterVars) {
			return false
		}
		for i := range x.IterVars {
			if !sameVar(x.IterVars[i], y.IterVars[i]) {
				return false
			}
		}
		return ir.EqualList(x.IterValues, y.IterValues) && EqualBlock(x.Body, y.Body)
	}
	return false
}

func sameVar(a, b *ir.Var) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name == b.Name
}
