package ir

// Equal reports whether a and b are structurally equal. Variables compare by
// name only; identities are ignored.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Name == y.Name

	case *IntImm:
		y, ok := b.(*IntImm)
		return ok && x.Value == y.Value

	case *FloatImm:
		y, ok := b.(*FloatImm)
		return ok && x.Value == y.Value

	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.A, y.A) && Equal(x.B, y.B)

	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.X, y.X)

	case *Call:
		y, ok := b.(*Call)
		return ok && x.Name == y.Name && EqualList(x.Args, y.Args)

	case *Tensor:
		y, ok := b.(*Tensor)
		return ok && x.Name == y.Name && EqualList(x.Shape, y.Shape)

	case *Load:
		y, ok := b.(*Load)
		return ok && Equal(x.Tensor, y.Tensor) && EqualList(x.Indices, y.Indices)

	case *Store:
		y, ok := b.(*Store)
		return ok && Equal(x.Tensor, y.Tensor) &&
			EqualList(x.Indices, y.Indices) && Equal(x.Value, y.Value)

	case *For:
		y, ok := b.(*For)
		return ok && equalVar(x.LoopVar, y.LoopVar) && x.Kind == y.Kind &&
			Equal(x.Min, y.Min) && Equal(x.Extent, y.Extent) && Equal(x.Body, y.Body)

	case *PolyFor:
		y, ok := b.(*PolyFor)
		return ok && equalVar(x.Iterator, y.Iterator) &&
			Equal(x.Init, y.Init) && Equal(x.Condition, y.Condition) &&
			Equal(x.Inc, y.Inc) && Equal(x.Body, y.Body)

	case *Block:
		y, ok := b.(*Block)
		return ok && EqualList(x.Stmts, y.Stmts)

	case *IfThenElse:
		y, ok := b.(*IfThenElse)
		return ok && Equal(x.Condition, y.Condition) &&
			Equal(x.True, y.True) && Equal(x.False, y.False)

	case *Let:
		y, ok := b.(*Let)
		return ok && equalVar(x.Symbol, y.Symbol) && Equal(x.Value, y.Value)
	}

	return false
}

// EqualList compares two expression lists element-wise.
func EqualList(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalVar(a, b *Var) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name == b.Name
}
