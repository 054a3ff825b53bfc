package printer

import (
	"testing"

	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
	"github.com/HugoDaniel/irsubst/internal/parser"
)

// ----------------------------------------------------------------------------
// Test Helpers (esbuild-style)
// ----------------------------------------------------------------------------

// expectPrinted verifies pretty-printed output in expression form.
func expectPrinted(t *testing.T, input string, expected string) {
	t.Helper()
	t.Run(input, func(t *testing.T) {
		t.Helper()
		root, errs := parser.ParseExpr(input)
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		actual := PrintExpr(root)
		if actual != expected {
			t.Errorf("\ninput:\n%s\nexpected:\n%s\nactual:\n%s", input, expected, actual)
		}
	})
}

// expectPrintedStmt verifies pretty-printed output in statement form.
func expectPrintedStmt(t *testing.T, input string, expected string) {
	t.Helper()
	t.Run(input+"_stmt", func(t *testing.T) {
		t.Helper()
		b, errs := parser.ParseBlock(input)
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		actual := PrintBlock(b)
		if actual != expected {
			t.Errorf("\ninput:\n%s\nexpected:\n%s\nactual:\n%s", input, expected, actual)
		}
	})
}

// expectPrintedMinify verifies minified output (whitespace removed).
func expectPrintedMinify(t *testing.T, input string, expected string) {
	t.Helper()
	t.Run(input+"_minify", func(t *testing.T) {
		t.Helper()
		b, errs := parser.ParseBlock(input)
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		actual := New(Options{MinifyWhitespace: true}).PrintBlock(b)
		if actual != expected {
			t.Errorf("\ninput:\n%s\nexpected:\n%s\nactual:\n%s", input, expected, actual)
		}
	})
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func TestPrintExpressions(t *testing.T) {
	expectPrinted(t, "i;", "i;\n")
	expectPrinted(t, "1 + 2 * 3;", "1 + 2 * 3;\n")
	expectPrinted(t, "(1 + 2) * 3;", "(1 + 2) * 3;\n")
	expectPrinted(t, "a - (b - c);", "a - (b - c);\n")
	expectPrinted(t, "(a - b) - c;", "a - b - c;\n")
	expectPrinted(t, "a / (b * c) % d;", "a / (b * c) % d;\n")
	expectPrinted(t, "a < b == c > d;", "a < b == c > d;\n")
	expectPrinted(t, "a || b && c;", "a || b && c;\n")
	expectPrinted(t, "(a || b) && c;", "(a || b) && c;\n")
	expectPrinted(t, "-(a + b);", "-(a + b);\n")
	expectPrinted(t, "!x && -y;", "!x && -y;\n")
	expectPrinted(t, "- -x;", "--x;\n")
	expectPrinted(t, "f(i, j + 1, g());", "f(i, j + 1, g());\n")
	expectPrinted(t, "A[i, B[j]];", "A[i, B[j]];\n")
	expectPrinted(t, "0.5 + 2.;", "0.5 + 2.0;\n")
}

func TestExprString(t *testing.T) {
	tests := []struct {
		expr ir.Expr
		want string
	}{
		{ir.Add(&ir.Var{Name: "io"}, ir.Int(1)), "io + 1"},
		{ir.Mul(ir.Add(&ir.Var{Name: "a"}, ir.Int(1)), ir.Int(4)), "(a + 1) * 4"},
		{&ir.FloatImm{Value: 3}, "3.0"},
		{&ir.FloatImm{Value: 1e21}, "1e+21"},
		{&ir.Load{Tensor: ir.NewTensor("A"), Indices: []ir.Expr{ir.Int(0)}}, "A[0]"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := ExprString(tt.expr); got != tt.want {
			t.Errorf("ExprString() = %q, want %q", got, tt.want)
		}
	}
}

func TestExprListString(t *testing.T) {
	got := ExprListString([]ir.Expr{&ir.Var{Name: "x"}, ir.Add(&ir.Var{Name: "y"}, ir.Int(1))})
	if got != "[x, y + 1]" {
		t.Errorf("ExprListString() = %q", got)
	}
	if got := ExprListString(nil); got != "[]" {
		t.Errorf("ExprListString(nil) = %q", got)
	}
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func TestPrintLoops(t *testing.T) {
	expectPrinted(t, "for(i,0,n){A[i]=B[i];}",
		"for (i, 0, n) {\n    A[i] = B[i];\n}\n")
	expectPrinted(t, "parallel for (i, 0, 4) { unroll for (j, 0, 2) { A[i, j] = 0; } }",
		"parallel for (i, 0, 4) {\n    unroll for (j, 0, 2) {\n        A[i, j] = 0;\n    }\n}\n")
	expectPrinted(t, "vectorize for (v, 0, 8) {}", "vectorize for (v, 0, 8) {}\n")
	expectPrinted(t, "poly_for (k, 0, k < 8, k + 1) { f(k); }",
		"poly_for (k, 0, k < 8, k + 1) {\n    f(k);\n}\n")
}

func TestPrintControlFlow(t *testing.T) {
	expectPrinted(t, "let t = i + 1;", "let t = i + 1;\n")
	expectPrinted(t, "if (i < 4) { f(i); }", "if (i < 4) {\n    f(i);\n}\n")
	expectPrinted(t, "if (a) { f(); } else { g(); }",
		"if (a) {\n    f();\n} else {\n    g();\n}\n")
	expectPrinted(t, "if (a) { f(); } else if (b) { g(); } else {}",
		"if (a) {\n    f();\n} else if (b) {\n    g();\n} else {}\n")
	expectPrinted(t, "{ f(); }", "{\n    f();\n}\n")
}

func TestPrintStatementForm(t *testing.T) {
	expectPrintedStmt(t, "alloc C[16, n]; free C;", "alloc C[16, n];\nfree C;\n")
	expectPrintedStmt(t, "schedule S0 (vi = i, vj = j) { C[vi, vj] = 0; }",
		"schedule S0 (vi = i, vj = j) {\n    C[vi, vj] = 0;\n}\n")
	expectPrintedStmt(t, "schedule root () {}", "schedule root () {}\n")
	expectPrintedStmt(t, "g(i);", "g(i);\n")
	expectPrintedStmt(t, "for (i, 0, 4) { if (i == 0) { A[i] = 1; } else if (i == 1) {} }",
		"for (i, 0, 4) {\n    if (i == 0) {\n        A[i] = 1;\n    } else if (i == 1) {}\n}\n")
}

func TestPrintMinify(t *testing.T) {
	expectPrintedMinify(t, "for (i, 0, n) { A[i] = B[i] + 1; }", "for(i,0,n){A[i]=B[i]+1;}")
	expectPrintedMinify(t, "parallel for (i, 0, n) {}", "parallel for(i,0,n){}")
	expectPrintedMinify(t, "let t = a - -b;", "let t=a--b;")
	expectPrintedMinify(t, "if (a) {} else if (b) {} else { f(); }", "if(a){}else if(b){}else{f();}")
	expectPrintedMinify(t, "alloc C[4]; free C;", "alloc C[4];free C;")
}

func TestPrintProgrammaticTrees(t *testing.T) {
	// A loop body that is not a block prints as a block of one statement.
	loop := &ir.For{
		LoopVar: &ir.Var{Name: "i"},
		Min:     ir.Int(0),
		Extent:  ir.Int(4),
		Body:    &ir.Store{Tensor: ir.NewTensor("A"), Indices: []ir.Expr{&ir.Var{Name: "i"}}, Value: ir.Int(0)},
	}
	want := "for (i, 0, 4) {\n    A[i] = 0;\n}\n"
	if got := PrintExpr(loop); got != want {
		t.Errorf("PrintExpr() =\n%s\nwant\n%s", got, want)
	}

	if got := PrintBlock(nil); got != "" {
		t.Errorf("PrintBlock(nil) = %q", got)
	}
	if got := PrintExpr(nil); got != "" {
		t.Errorf("PrintExpr(nil) = %q", got)
	}
}

// ----------------------------------------------------------------------------
// Round Trip
// ----------------------------------------------------------------------------

const roundTripSource = `version 1.0.0;
parallel for (i, 0, n) {
    for (j, 0, m * 2) {
        A[i, j] = B[j, i] + f(i) * 2;
        let t = -(i + 1) % 3;
        if (i < 4 && j != 0 || !c) {
            C[t] = 0.25;
        } else if (i >= 8) {
            C[t] = 1e-3;
        } else {
            g(i / (j - 1));
        }
    }
}
`

func TestRoundTripExpr(t *testing.T) {
	source := roundTripSource + "poly_for (k, 0, k < 8, k + 1) {\n    D[k] = k;\n}\n"
	first, errs := parser.ParseExpr(source)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	printed := PrintExpr(first)
	second, errs := parser.ParseExpr(printed)
	if len(errs) > 0 {
		t.Fatalf("reparse errors: %v\n%s", errs, printed)
	}
	if !ir.Equal(first, second) {
		t.Errorf("round trip changed the tree:\n%s", printed)
	}
	if again := PrintExpr(second); again != printed {
		t.Errorf("printing is not stable:\n%s\nvs\n%s", printed, again)
	}
}

func TestRoundTripStmt(t *testing.T) {
	source := roundTripSource + "alloc T[16, n];\nschedule S0 (vi = i) {\n    T[vi] = 0;\n}\nfree T;\n"
	first, errs := parser.ParseBlock(source)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	printed := PrintBlock(first)
	second, errs := parser.ParseBlock(printed)
	if len(errs) > 0 {
		t.Fatalf("reparse errors: %v\n%s", errs, printed)
	}
	if !stmt.EqualBlock(first, second) {
		t.Errorf("round trip changed the block:\n%s", printed)
	}

	minified := New(Options{MinifyWhitespace: true}).PrintBlock(first)
	third, errs := parser.ParseBlock(minified)
	if len(errs) > 0 {
		t.Fatalf("reparse of minified output failed: %v\n%s", errs, minified)
	}
	if !stmt.EqualBlock(first, third) {
		t.Errorf("minified round trip changed the block:\n%s", minified)
	}
}
