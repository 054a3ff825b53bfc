package ir

// Copy returns a deep copy of e. Variables keep their name and identity.
func Copy(e Expr) Expr {
	if e == nil {
		return nil
	}

	switch n := e.(type) {
	case *Var:
		return CopyVar(n)

	case *IntImm:
		return &IntImm{Value: n.Value}

	case *FloatImm:
		return &FloatImm{Value: n.Value}

	case *Binary:
		return &Binary{Op: n.Op, A: Copy(n.A), B: Copy(n.B)}

	case *Unary:
		return &Unary{Op: n.Op, X: Copy(n.X)}

	case *Call:
		return &Call{Name: n.Name, Args: CopyList(n.Args)}

	case *Tensor:
		return &Tensor{Name: n.Name, Shape: CopyList(n.Shape)}

	case *Load:
		return &Load{Tensor: Copy(n.Tensor), Indices: CopyList(n.Indices)}

	case *Store:
		return &Store{
			Tensor:  Copy(n.Tensor),
			Indices: CopyList(n.Indices),
			Value:   Copy(n.Value),
		}

	case *For:
		return &For{
			LoopVar: CopyVar(n.LoopVar),
			Min:     Copy(n.Min),
			Extent:  Copy(n.Extent),
			Kind:    n.Kind,
			Body:    Copy(n.Body),
		}

	case *PolyFor:
		return &PolyFor{
			Iterator:  CopyVar(n.Iterator),
			Init:      Copy(n.Init),
			Condition: Copy(n.Condition),
			Inc:       Copy(n.Inc),
			Body:      Copy(n.Body),
		}

	case *Block:
		return &Block{Stmts: CopyList(n.Stmts)}

	case *IfThenElse:
		return &IfThenElse{
			Condition: Copy(n.Condition),
			True:      Copy(n.True),
			False:     Copy(n.False),
		}

	case *Let:
		return &Let{Symbol: CopyVar(n.Symbol), Value: Copy(n.Value)}
	}

	panic("ir.Copy: unknown expression type")
}

// CopyVar returns a copy of v, or nil.
func CopyVar(v *Var) *Var {
	if v == nil {
		return nil
	}
	return &Var{Name: v.Name, ID: v.ID}
}

// CopyList deep-copies every element of list. A nil list stays nil.
func CopyList(list []Expr) []Expr {
	if list == nil {
		return nil
	}
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = Copy(e)
	}
	return out
}
