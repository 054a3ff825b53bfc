package optim

import (
	"errors"
	"testing"

	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
	"github.com/HugoDaniel/irsubst/internal/test"
)

func stmtStore(tensor string, value ir.Expr, indices ...ir.Expr) *stmt.Store {
	return &stmt.Store{Tensor: ir.NewTensor(tensor), Indices: indices, Value: value}
}

func stmtFor(loopVar string, min, extent ir.Expr, body ...stmt.Stmt) *stmt.For {
	return &stmt.For{LoopVar: v(loopVar), Min: min, Extent: extent, Body: stmt.NewBlock(body...)}
}

// exampleOf returns one statement of every kind.
func exampleOf(k stmt.Kind) stmt.Stmt {
	switch k {
	case stmt.KindFor:
		return stmtFor("i", ir.Int(0), ir.Int(4))
	case stmt.KindStore:
		return stmtStore("A", v("i"), v("i"))
	case stmt.KindLet:
		return &stmt.Let{Symbol: v("t"), Value: v("i")}
	case stmt.KindAlloc:
		return &stmt.Alloc{Name: "C", Extents: []ir.Expr{v("i")}}
	case stmt.KindFree:
		return &stmt.Free{Name: "C"}
	case stmt.KindIfThenElse:
		return &stmt.IfThenElse{Condition: v("i"), True: stmt.NewBlock()}
	case stmt.KindEvaluate:
		return &stmt.Evaluate{Value: v("i")}
	case stmt.KindSchedule:
		return &stmt.Schedule{Name: "S0", IterVars: []*ir.Var{v("vi")}, IterValues: []ir.Expr{v("i")}, Body: stmt.NewBlock()}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Parity With The Expression Rewriter
// ----------------------------------------------------------------------------

func TestStmtStoreScoping(t *testing.T) {
	s := stmtStore("A", load("B", v("i")), v("i"), ir.Add(v("i"), ir.Int(1)))

	if err := ReplaceVarWithExprInStmt(s, v("i"), ir.Int(7), "A"); err != nil {
		t.Fatal(err)
	}

	if !ir.Equal(s.Indices[0], ir.Int(7)) {
		t.Error("plain index should be replaced")
	}
	if !ir.Equal(s.Indices[1], ir.Add(ir.Int(7), ir.Int(1))) {
		t.Error("compound index should be rewritten")
	}
	if !isVar(s.Value.(*ir.Load).Indices[0], "i") {
		t.Error("the value's load of B is out of scope")
	}
}

func TestStmtStoreValueNotInScope(t *testing.T) {
	s := stmtStore("A", v("i"), v("i"))

	if err := ReplaceVarWithExprInStmt(s, v("i"), v("j"), "A"); err != nil {
		t.Fatal(err)
	}

	if !isVar(s.Indices[0], "j") {
		t.Error("index should be replaced")
	}
	if !isVar(s.Value, "i") {
		t.Error("value must not inherit the index scope")
	}
}

func TestStmtForInductionRename(t *testing.T) {
	loop := stmtFor("i", v("i"), v("i"),
		stmtStore("A", load("B", v("i")), v("i")),
		stmtFor("k", ir.Int(0), v("i"), stmtStore("C", ir.Int(0), v("k"), v("i"))),
	)

	if err := ReplaceVarWithExprInStmt(loop, v("i"), v("j"), ""); err != nil {
		t.Fatal(err)
	}

	want := stmtFor("j", v("j"), v("j"),
		stmtStore("A", load("B", v("j")), v("j")),
		stmtFor("k", ir.Int(0), v("j"), stmtStore("C", ir.Int(0), v("k"), v("j"))),
	)
	test.AssertBlockEqual(t, stmt.NewBlock(loop), stmt.NewBlock(want))
}

func TestStmtMatchesExprRewriter(t *testing.T) {
	tests := []struct {
		name   string
		tensor string
	}{
		{"everywhere", ""},
		{"scoped to A", "A"},
		{"scoped to B", "B"},
		{"scoped to missing", "Q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repl := ir.Add(v("io"), v("ii"))

			exprTree := forLoop("i", ir.Int(0), v("i"), block(
				store("A", load("B", v("i"), v("k")), v("i")),
			))
			stmtTree := stmtFor("i", ir.Int(0), v("i"),
				stmtStore("A", load("B", v("i"), v("k")), v("i")),
			)

			var root ir.Expr = exprTree
			mustReplace(t, &root, v("i"), repl, tt.tensor)
			if err := ReplaceVarWithExprInStmt(stmtTree, v("i"), repl, tt.tensor); err != nil {
				t.Fatal(err)
			}

			exprStore := exprTree.Body.(*ir.Block).Stmts[0].(*ir.Store)
			stmtSide := stmtTree.Body.Stmts[0].(*stmt.Store)
			if !ir.EqualList(exprStore.Indices, stmtSide.Indices) {
				t.Error("store indices differ between representations")
			}
			if !ir.Equal(exprStore.Value, stmtSide.Value) {
				t.Error("store values differ between representations")
			}
			if !ir.Equal(exprTree.Extent, stmtTree.Extent) {
				t.Error("loop extents differ between representations")
			}
			if exprTree.LoopVar.Name != stmtTree.LoopVar.Name {
				t.Error("loop vars differ between representations")
			}
		})
	}
}

func TestBlockRewritesInOrder(t *testing.T) {
	b := stmt.NewBlock(
		stmtStore("A", ir.Int(0), v("i")),
		stmtStore("A", ir.Int(1), v("i")),
	)

	if err := ReplaceVarWithExprInBlock(b, v("i"), ir.Int(3), "A"); err != nil {
		t.Fatal(err)
	}
	for n, s := range b.Stmts {
		if !ir.Equal(s.(*stmt.Store).Indices[0], ir.Int(3)) {
			t.Errorf("statement %d not rewritten", n)
		}
	}
	if len(b.Stmts) != 2 || !ir.Equal(b.Stmts[1].(*stmt.Store).Value, ir.Int(1)) {
		t.Error("block order or membership changed")
	}
}

func TestStmtCopiesAreIndependent(t *testing.T) {
	repl := ir.Add(v("x"), ir.Int(1))
	b := stmt.NewBlock(stmtStore("A", ir.Int(0), v("i")), stmtStore("A", ir.Int(0), v("i")))

	if err := ReplaceVarWithExprInBlock(b, v("i"), repl, ""); err != nil {
		t.Fatal(err)
	}

	first := b.Stmts[0].(*stmt.Store).Indices[0].(*ir.Binary)
	second := b.Stmts[1].(*stmt.Store).Indices[0].(*ir.Binary)
	first.A = v("mutated")
	if !isVar(second.A, "x") || !isVar(repl.A, "x") {
		t.Error("inserted copies must be independent of each other and the source")
	}
}

// ----------------------------------------------------------------------------
// Unsupported Statements
// ----------------------------------------------------------------------------

func TestEveryKindIsClassified(t *testing.T) {
	for _, k := range stmt.Kinds() {
		s := exampleOf(k)
		if s == nil {
			t.Fatalf("no example for kind %v", k)
		}
		if s.Kind() != k {
			t.Fatalf("example for %v reports kind %v", k, s.Kind())
		}

		err := ReplaceVarWithExprInStmt(s, v("i"), ir.Int(0), "")
		switch k {
		case stmt.KindFor, stmt.KindStore:
			if err != nil {
				t.Errorf("%v: unexpected error %v", k, err)
			}
		default:
			var unsupported *UnsupportedStmtError
			if !errors.As(err, &unsupported) || unsupported.Kind != k {
				t.Errorf("%v: got %v, want UnsupportedStmtError", k, err)
			}
			if !errors.Is(err, ErrUnsupportedStmt) {
				t.Errorf("%v: error should match ErrUnsupportedStmt", k)
			}
		}
	}
}

func TestUnsupportedFailsBeforeMutating(t *testing.T) {
	b := stmt.NewBlock(
		stmtStore("A", ir.Int(0), v("i")),
		stmtFor("k", ir.Int(0), v("i"),
			&stmt.IfThenElse{Condition: v("i"), True: stmt.NewBlock()},
		),
	)
	orig := stmt.CopyBlock(b)

	err := ReplaceVarWithExprInBlock(b, v("i"), ir.Int(0), "")
	if !errors.Is(err, ErrUnsupportedStmt) {
		t.Fatalf("got %v, want ErrUnsupportedStmt", err)
	}
	test.AssertBlockEqual(t, b, orig)
}

func TestSkipUnsupportedPassesThrough(t *testing.T) {
	ite := &stmt.IfThenElse{Condition: v("i"), True: stmt.NewBlock(stmtStore("A", ir.Int(0), v("i")))}
	let := &stmt.Let{Symbol: v("t"), Value: v("i")}
	b := stmt.NewBlock(stmtStore("A", ir.Int(0), v("i")), ite, let)

	if err := ReplaceVarWithExprInBlock(b, v("i"), ir.Int(0), "", WithSkipUnsupported()); err != nil {
		t.Fatal(err)
	}

	if !ir.Equal(b.Stmts[0].(*stmt.Store).Indices[0], ir.Int(0)) {
		t.Error("supported statements are still rewritten")
	}
	if !isVar(ite.Condition, "i") || !isVar(ite.True.Stmts[0].(*stmt.Store).Indices[0], "i") {
		t.Error("if-then-else is passed over untouched")
	}
	if !isVar(let.Value, "i") {
		t.Error("let is passed over untouched")
	}
}

func TestSkippedStmtsInVisitOrder(t *testing.T) {
	let := &stmt.Let{Symbol: v("t"), Value: v("i")}
	free := &stmt.Free{Name: "C"}
	ite := &stmt.IfThenElse{Condition: v("i"), True: stmt.NewBlock(&stmt.Free{Name: "D"})}
	b := stmt.NewBlock(
		stmtStore("A", ir.Int(0), v("i")),
		stmtFor("k", ir.Int(0), v("n"), let, stmtStore("B", ir.Int(0), v("k"))),
		ite,
		free,
	)

	got := SkippedStmts(b)
	want := []stmt.Stmt{let, ite, free}
	if len(got) != len(want) {
		t.Fatalf("got %d statements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d: got %v, want %v", i, got[i].Kind(), want[i].Kind())
		}
	}

	if SkippedStmts(stmt.NewBlock(stmtStore("A", ir.Int(0), v("i")))) != nil {
		t.Error("a block of stores has nothing to skip")
	}
}

func TestStmtArguments(t *testing.T) {
	if err := ReplaceVarWithExprInStmt(nil, v("i"), ir.Int(0), ""); !errors.Is(err, ErrNilRoot) {
		t.Errorf("nil stmt: got %v", err)
	}
	if err := ReplaceVarWithExprInBlock(nil, v("i"), ir.Int(0), ""); !errors.Is(err, ErrNilRoot) {
		t.Errorf("nil block: got %v", err)
	}
	if err := ReplaceVarWithExprInBlock(stmt.NewBlock(), nil, ir.Int(0), ""); !errors.Is(err, ErrNilVar) {
		t.Errorf("nil var: got %v", err)
	}
}

func TestUnsupportedStmtErrorMessage(t *testing.T) {
	err := &UnsupportedStmtError{Kind: stmt.KindSchedule}
	want := "optim: cannot replace variables inside Schedule statements"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
