// Package printer outputs the IR text format for both IR taxonomies.
//
// The printer can operate in two modes:
// - Pretty: one statement per line, 4-space indentation
// - Minified: no optional whitespace
//
// Parentheses are emitted only where operator precedence requires them, so
// printed text parses back to a structurally equal tree.
package printer

import (
	"math"
	"strconv"
	"strings"

	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
)

// Options controls printer output.
type Options struct {
	// MinifyWhitespace removes unnecessary whitespace
	MinifyWhitespace bool
}

// Printer outputs IR text.
type Printer struct {
	options Options

	buf    strings.Builder
	indent int
}

// New creates a new printer.
func New(options Options) *Printer {
	return &Printer{options: options}
}

// PrintExpr prints an expression tree. A *ir.Block root prints as a sequence
// of top-level statements.
func PrintExpr(root ir.Expr) string {
	return New(Options{}).PrintExpr(root)
}

// PrintBlock prints a statement block as a sequence of top-level statements.
func PrintBlock(b *stmt.Block) string {
	return New(Options{}).PrintBlock(b)
}

// ExprString prints a single expression without statement framing.
func ExprString(e ir.Expr) string {
	p := New(Options{})
	p.printExpr(e)
	return p.buf.String()
}

// ExprListString prints expressions as a bracketed list, like "[i, j + 1]".
func ExprListString(list []ir.Expr) string {
	p := New(Options{})
	p.print("[")
	p.printExprList(list)
	p.print("]")
	return p.buf.String()
}

// PrintExpr outputs root as a string.
func (p *Printer) PrintExpr(root ir.Expr) string {
	p.buf.Reset()
	p.indent = 0
	if b, ok := root.(*ir.Block); ok {
		for _, s := range b.Stmts {
			p.printExprStmt(s)
		}
	} else if root != nil {
		p.printExprStmt(root)
	}
	return p.buf.String()
}

// PrintBlock outputs b as a string.
func (p *Printer) PrintBlock(b *stmt.Block) string {
	p.buf.Reset()
	p.indent = 0
	if b != nil {
		for _, s := range b.Stmts {
			p.printStmt(s)
		}
	}
	return p.buf.String()
}

// ----------------------------------------------------------------------------
// Output Helpers
// ----------------------------------------------------------------------------

func (p *Printer) print(s string) {
	p.buf.WriteString(s)
}

// printSpace writes an optional space.
func (p *Printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte(' ')
	}
}

// printLineStart indents the start of a statement.
func (p *Printer) printLineStart() {
	if p.options.MinifyWhitespace {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *Printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte('\n')
	}
}

// printComma writes a list separator.
func (p *Printer) printComma() {
	p.print(",")
	p.printSpace()
}

// printOpenBrace starts a braced body. An empty body prints as "{}".
func (p *Printer) printOpenBrace(empty bool) bool {
	if empty {
		p.print("{}")
		return false
	}
	p.print("{")
	p.printNewline()
	p.indent++
	return true
}

func (p *Printer) printCloseBrace() {
	p.indent--
	p.printLineStart()
	p.print("}")
}

// ----------------------------------------------------------------------------
// Expression Tree Statements
// ----------------------------------------------------------------------------

func (p *Printer) printExprStmt(e ir.Expr) {
	p.printLineStart()
	p.printExprStmtInline(e)
	p.printNewline()
}

// printExprStmtInline prints a statement assuming the line is already
// started and without the trailing newline.
func (p *Printer) printExprStmtInline(e ir.Expr) {
	switch n := e.(type) {
	case *ir.For:
		p.printLoopHeader(n.Kind, n.LoopVar, n.Min, n.Extent)
		p.printExprBody(n.Body)

	case *ir.PolyFor:
		p.print("poly_for")
		p.printSpace()
		p.print("(")
		p.printVar(n.Iterator)
		p.printComma()
		p.printExprList([]ir.Expr{n.Init, n.Condition, n.Inc})
		p.print(")")
		p.printExprBody(n.Body)

	case *ir.Store:
		p.printAccess(n.Tensor, n.Indices)
		p.printAssign()
		p.printExpr(n.Value)
		p.print(";")

	case *ir.Let:
		p.printLet(n.Symbol, n.Value)

	case *ir.IfThenElse:
		p.printIfHeader(n.Condition)
		p.printExprBody(n.True)
		if n.False != nil {
			p.printElse()
			if nested, ok := elseIfExpr(n.False); ok {
				p.print(" ")
				p.printExprStmtInline(nested)
			} else {
				p.printExprBody(n.False)
			}
		}

	case *ir.Block:
		p.printExprBraced(n)

	default:
		p.printExpr(e)
		p.print(";")
	}
}

// printExprBody prints a braced body after a statement header.
func (p *Printer) printExprBody(body ir.Expr) {
	p.printSpace()
	p.printExprBraced(body)
}

// printExprBraced prints body in braces. Non-block bodies print as a block
// of one statement.
func (p *Printer) printExprBraced(body ir.Expr) {
	stmts := []ir.Expr{body}
	if b, ok := body.(*ir.Block); ok {
		stmts = b.Stmts
	} else if body == nil {
		stmts = nil
	}
	if !p.printOpenBrace(len(stmts) == 0) {
		return
	}
	for _, s := range stmts {
		p.printExprStmt(s)
	}
	p.printCloseBrace()
}

func elseIfExpr(e ir.Expr) (*ir.IfThenElse, bool) {
	b, ok := e.(*ir.Block)
	if !ok || len(b.Stmts) != 1 {
		return nil, false
	}
	nested, ok := b.Stmts[0].(*ir.IfThenElse)
	return nested, ok
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Printer) printStmt(s stmt.Stmt) {
	p.printLineStart()
	p.printStmtInline(s)
	p.printNewline()
}

func (p *Printer) printStmtInline(s stmt.Stmt) {
	switch n := s.(type) {
	case *stmt.For:
		p.printLoopHeader(n.ForKind, n.LoopVar, n.Min, n.Extent)
		p.printBody(n.Body)

	case *stmt.Store:
		p.printAccess(n.Tensor, n.Indices)
		p.printAssign()
		p.printExpr(n.Value)
		p.print(";")

	case *stmt.Let:
		p.printLet(n.Symbol, n.Value)

	case *stmt.Alloc:
		p.print("alloc ")
		p.print(n.Name)
		p.print("[")
		p.printExprList(n.Extents)
		p.print("];")

	case *stmt.Free:
		p.print("free ")
		p.print(n.Name)
		p.print(";")

	case *stmt.IfThenElse:
		p.printIfHeader(n.Condition)
		p.printBody(n.True)
		if n.False != nil {
			p.printElse()
			if len(n.False.Stmts) == 1 {
				if nested, ok := n.False.Stmts[0].(*stmt.IfThenElse); ok {
					p.print(" ")
					p.printStmtInline(nested)
					return
				}
			}
			p.printBody(n.False)
		}

	case *stmt.Evaluate:
		p.printExpr(n.Value)
		p.print(";")

	case *stmt.Schedule:
		p.print("schedule ")
		p.print(n.Name)
		p.printSpace()
		p.print("(")
		for i, v := range n.IterVars {
			if i > 0 {
				p.printComma()
			}
			p.printVar(v)
			p.printAssign()
			if i < len(n.IterValues) {
				p.printExpr(n.IterValues[i])
			}
		}
		p.print(")")
		p.printBody(n.Body)
	}
}

func (p *Printer) printBody(b *stmt.Block) {
	p.printSpace()
	var stmts []stmt.Stmt
	if b != nil {
		stmts = b.Stmts
	}
	if !p.printOpenBrace(len(stmts) == 0) {
		return
	}
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.printCloseBrace()
}

// ----------------------------------------------------------------------------
// Shared Pieces
// ----------------------------------------------------------------------------

func (p *Printer) printLoopHeader(kind ir.ForKind, loopVar *ir.Var, min, extent ir.Expr) {
	if prefix := kind.String(); prefix != "" {
		p.print(prefix)
		p.print(" ")
	}
	p.print("for")
	p.printSpace()
	p.print("(")
	p.printVar(loopVar)
	p.printComma()
	p.printExpr(min)
	p.printComma()
	p.printExpr(extent)
	p.print(")")
}

func (p *Printer) printLet(sym *ir.Var, value ir.Expr) {
	p.print("let ")
	p.printVar(sym)
	p.printAssign()
	p.printExpr(value)
	p.print(";")
}

func (p *Printer) printIfHeader(cond ir.Expr) {
	p.print("if")
	p.printSpace()
	p.print("(")
	p.printExpr(cond)
	p.print(")")
}

func (p *Printer) printElse() {
	p.printSpace()
	p.print("else")
}

func (p *Printer) printAssign() {
	p.printSpace()
	p.print("=")
	p.printSpace()
}

func (p *Printer) printAccess(tensor ir.Expr, indices []ir.Expr) {
	p.printExpr(tensor)
	p.print("[")
	p.printExprList(indices)
	p.print("]")
}

func (p *Printer) printVar(v *ir.Var) {
	if v != nil {
		p.print(v.Name)
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Printer) printExpr(e ir.Expr) {
	switch n := e.(type) {
	case nil:

	case *ir.Var:
		p.printVar(n)

	case *ir.IntImm:
		p.print(strconv.FormatInt(n.Value, 10))

	case *ir.FloatImm:
		p.print(formatFloat(n.Value))

	case *ir.Binary:
		prec := n.Op.Precedence()
		p.printOperand(n.A, prec, false)
		p.printSpace()
		p.print(n.Op.String())
		p.printSpace()
		p.printOperand(n.B, prec, true)

	case *ir.Unary:
		p.print(n.Op.String())
		if _, ok := n.X.(*ir.Binary); ok {
			p.print("(")
			p.printExpr(n.X)
			p.print(")")
		} else {
			p.printExpr(n.X)
		}

	case *ir.Call:
		p.print(n.Name)
		p.print("(")
		p.printExprList(n.Args)
		p.print(")")

	case *ir.Tensor:
		p.print(n.Name)

	case *ir.Load:
		p.printAccess(n.Tensor, n.Indices)

	default:
		// Statement-like nodes in expression position.
		sub := New(Options{MinifyWhitespace: true})
		sub.printExprStmtInline(e)
		p.print(sub.buf.String())
	}
}

// printOperand prints a binary operand, parenthesized when it binds looser
// than the parent, or equally on the right of a left-associative operator.
func (p *Printer) printOperand(e ir.Expr, parentPrec int, right bool) {
	if b, ok := e.(*ir.Binary); ok {
		prec := b.Op.Precedence()
		if prec < parentPrec || (right && prec == parentPrec) {
			p.print("(")
			p.printExpr(e)
			p.print(")")
			return
		}
	}
	p.printExpr(e)
}

func (p *Printer) printExprList(list []ir.Expr) {
	for i, e := range list {
		if i > 0 {
			p.printComma()
		}
		p.printExpr(e)
	}
}

// formatFloat prints v so that it lexes back as a float literal.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
