package optim

import (
	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
)

// CollectTensorIndex returns the index lists of every load of tensorName in
// root, in depth-first encounter order. Loop bounds are not searched, and the
// indices of a collected load are not searched for nested loads. The returned
// expressions are copies; root is not modified.
func CollectTensorIndex(root ir.Expr, tensorName string) [][]ir.Expr {
	c := &indexCollector{tensorName: tensorName}
	c.visitExpr(root)
	return c.result
}

// CollectTensorIndexInBlock is CollectTensorIndex over the statement
// representation. Every statement kind is searched.
func CollectTensorIndexInBlock(b *stmt.Block, tensorName string) [][]ir.Expr {
	c := &indexCollector{tensorName: tensorName}
	c.visitBlock(b)
	return c.result
}

type indexCollector struct {
	tensorName string
	result     [][]ir.Expr
}

func (c *indexCollector) visitExpr(e ir.Expr) {
	switch n := e.(type) {
	case nil, *ir.Var, *ir.IntImm, *ir.FloatImm:

	case *ir.Binary:
		c.visitExpr(n.A)
		c.visitExpr(n.B)

	case *ir.Unary:
		c.visitExpr(n.X)

	case *ir.Call:
		c.visitList(n.Args)

	case *ir.Tensor:
		c.visitList(n.Shape)

	case *ir.For:
		c.visitExpr(n.Body)

	case *ir.PolyFor:
		c.visitExpr(n.Body)

	case *ir.Load:
		c.visitExpr(n.Tensor)
		if t, ok := n.Tensor.(*ir.Tensor); ok && t.Name == c.tensorName {
			c.result = append(c.result, ir.CopyList(n.Indices))
			return
		}
		c.visitList(n.Indices)

	case *ir.Store:
		// Indices before the value, so A[B[x]] = B[y] yields [x] then [y].
		c.visitExpr(n.Tensor)
		c.visitList(n.Indices)
		c.visitExpr(n.Value)

	case *ir.Block:
		c.visitList(n.Stmts)

	case *ir.IfThenElse:
		c.visitExpr(n.Condition)
		c.visitExpr(n.True)
		c.visitExpr(n.False)

	case *ir.Let:
		c.visitExpr(n.Value)
	}
}

func (c *indexCollector) visitList(list []ir.Expr) {
	for _, e := range list {
		c.visitExpr(e)
	}
}

func (c *indexCollector) visitBlock(b *stmt.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		c.visitStmt(s)
	}
}

func (c *indexCollector) visitStmt(s stmt.Stmt) {
	switch n := s.(type) {
	case nil:

	case *stmt.For:
		c.visitBlock(n.Body)

	case *stmt.Store:
		c.visitExpr(n.Tensor)
		c.visitList(n.Indices)
		c.visitExpr(n.Value)

	case *stmt.Let:
		c.visitExpr(n.Value)

	case *stmt.Alloc:
		c.visitList(n.Extents)

	case *stmt.Free:

	case *stmt.IfThenElse:
		c.visitExpr(n.Condition)
		c.visitBlock(n.True)
		c.visitBlock(n.False)

	case *stmt.Evaluate:
		c.visitExpr(n.Value)

	case *stmt.Schedule:
		c.visitList(n.IterValues)
		c.visitBlock(n.Body)
	}
}
