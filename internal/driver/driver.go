// Package driver runs the rewriter over IR text.
//
// It coordinates parsing, substitution, index collection and printing for
// one document, and turns every failure into a positioned diagnostic.
package driver

import (
	"errors"
	"fmt"

	"github.com/HugoDaniel/irsubst/internal/diagnostic"
	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
	"github.com/HugoDaniel/irsubst/internal/lexer"
	"github.com/HugoDaniel/irsubst/internal/optim"
	"github.com/HugoDaniel/irsubst/internal/parser"
	"github.com/HugoDaniel/irsubst/internal/printer"
)

// Form selects which IR taxonomy a document is parsed into.
type Form uint8

const (
	// FormExpr is the unified expression tree.
	FormExpr Form = iota
	// FormStmt is the statement representation.
	FormStmt
)

func (f Form) String() string {
	if f == FormStmt {
		return "stmt"
	}
	return "expr"
}

// ParseForm converts "expr" or "stmt" to a Form.
func ParseForm(s string) (Form, error) {
	switch s {
	case "expr", "":
		return FormExpr, nil
	case "stmt":
		return FormStmt, nil
	}
	return FormExpr, fmt.Errorf("unknown form %q (want expr or stmt)", s)
}

// Substitution replaces every use of Var with the expression With. When
// Tensor is set only uses inside index expressions of that tensor's
// accesses are replaced.
type Substitution struct {
	Var    string
	With   string
	Tensor string
}

// Options controls the driver.
type Options struct {
	// Form is the taxonomy the document is parsed into
	Form Form

	// Substitutions are applied in order, each as one rewrite
	Substitutions []Substitution

	// Strict reports statements the rewriter cannot enter as errors.
	// When false they are passed through unchanged.
	Strict bool

	// MatchIdentity matches variables by identity instead of by name
	MatchIdentity bool

	// MinifyWhitespace prints the result without optional whitespace
	MinifyWhitespace bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Form:   FormExpr,
		Strict: true,
	}
}

// Result contains the rewrite output.
type Result struct {
	// Rewritten IR text, or the original source on error
	Code string

	// Errors encountered while parsing or rewriting
	Errors []Error

	// Warnings about statements passed through without rewriting
	Warnings []Error

	// Diagnostics holds every error, warning and note
	Diagnostics *diagnostic.DiagnosticList

	// Statistics about the rewrite
	Stats Stats
}

// CollectResult contains the index lists found by Collect.
type CollectResult struct {
	// Indices holds one printed list per access, like "[i, j + 1]"
	Indices []string

	// Errors encountered while parsing
	Errors []Error

	// Diagnostics holds every error with its source location
	Diagnostics *diagnostic.DiagnosticList
}

// Error represents a driver error. Line and Column are zero for errors
// that have no source location.
type Error struct {
	Message string
	Line    int
	Column  int
	Code    diagnostic.Code
}

// Stats provides rewrite statistics.
type Stats struct {
	OriginalSize  int
	OutputSize    int
	Substitutions int // Substitutions applied
}

// Driver rewrites IR documents.
type Driver struct {
	options Options
}

// New creates a new driver with the given options.
func New(options Options) *Driver {
	return &Driver{options: options}
}

// document is one parsed source in either form.
type document struct {
	parser *parser.Parser
	expr   ir.Expr
	block  *stmt.Block
}

func (d *Driver) parse(source string, diags *diagnostic.DiagnosticList) (*document, bool) {
	doc := &document{parser: parser.New(source)}
	var errs []parser.ParseError
	if d.options.Form == FormStmt {
		doc.block, errs = doc.parser.ParseBlock()
	} else {
		var root *ir.Block
		root, errs = doc.parser.ParseExpr()
		doc.expr = root
	}
	for _, err := range errs {
		diags.AddError(err.Pos, err.Code, err.Message)
	}
	return doc, !diags.HasErrors()
}

// Rewrite applies the configured substitutions to source.
func (d *Driver) Rewrite(source string) Result {
	diags := diagnostic.NewDiagnosticList(source)
	result := Result{
		Diagnostics: diags,
		Stats:       Stats{OriginalSize: len(source)},
	}

	// 1. Parse the document
	doc, ok := d.parse(source, diags)
	if !ok {
		return d.fail(result, source)
	}

	// 2. Apply each substitution in order
	for i, sub := range d.options.Substitutions {
		if err := d.apply(doc, sub); err != nil {
			d.report(diags, i, sub, err)
			return d.fail(result, source)
		}
		d.warnSkipped(diags, doc, i, sub)
		result.Stats.Substitutions++
	}
	result.Warnings = warningsOf(diags)

	// 3. Print
	p := printer.New(printer.Options{MinifyWhitespace: d.options.MinifyWhitespace})
	if d.options.Form == FormStmt {
		result.Code = p.PrintBlock(doc.block)
	} else {
		result.Code = p.PrintExpr(doc.expr)
	}
	result.Stats.OutputSize = len(result.Code)
	return result
}

// Collect parses source and returns the index lists of every access to
// tensor, in depth-first order.
func (d *Driver) Collect(source, tensor string) CollectResult {
	diags := diagnostic.NewDiagnosticList(source)
	result := CollectResult{Diagnostics: diags, Indices: []string{}}

	doc, ok := d.parse(source, diags)
	if !ok {
		result.Errors = errorsOf(diags)
		return result
	}

	var lists [][]ir.Expr
	if d.options.Form == FormStmt {
		lists = optim.CollectTensorIndexInBlock(doc.block, tensor)
	} else {
		lists = optim.CollectTensorIndex(doc.expr, tensor)
	}
	for _, list := range lists {
		result.Indices = append(result.Indices, printer.ExprListString(list))
	}
	return result
}

// errSubstitution marks malformed substitution arguments.
var errSubstitution = errors.New("invalid substitution")

// apply runs one substitution over doc. The replacement shares the
// document's symbol table so identity matching sees the same variables the
// document does.
func (d *Driver) apply(doc *document, sub Substitution) error {
	if !lexer.IsIdent(sub.Var) {
		return fmt.Errorf("%w: %q is not a variable name", errSubstitution, sub.Var)
	}
	if sub.Tensor != "" && !lexer.IsIdent(sub.Tensor) {
		return fmt.Errorf("%w: %q is not a tensor name", errSubstitution, sub.Tensor)
	}
	repl, errs := parser.NewWithSymbols(sub.With, doc.parser.Symbols()).ParseSingle()
	if len(errs) > 0 {
		return fmt.Errorf("%w: replacement %q: %s", errSubstitution, sub.With, errs[0].Message)
	}
	target := doc.parser.Symbols().Var(sub.Var)

	var opts []optim.Option
	if d.options.MatchIdentity {
		opts = append(opts, optim.WithMatchIdentity())
	}
	if !d.options.Strict {
		opts = append(opts, optim.WithSkipUnsupported())
	}

	if d.options.Form == FormStmt {
		return optim.ReplaceVarWithExprInBlock(doc.block, target, repl, sub.Tensor, opts...)
	}
	return optim.ReplaceVarWithExpr(&doc.expr, target, repl, sub.Tensor, opts...)
}

// report converts a substitution failure into a diagnostic.
func (d *Driver) report(diags *diagnostic.DiagnosticList, i int, sub Substitution, err error) {
	code := diagnostic.CodeSubstitution
	var unsupported *optim.UnsupportedStmtError
	if errors.As(err, &unsupported) {
		code = diagnostic.CodeUnsupportedStmt
	}
	diags.Add(diagnostic.Diagnostic{
		Severity: diagnostic.Error,
		Code:     code,
		Message:  fmt.Sprintf("substitution %d (%s -> %s): %v", i+1, sub.Var, sub.With, err),
	})
	if code == diagnostic.CodeUnsupportedStmt {
		diags.AddNote("with strict mode off such statements are passed through unchanged")
	}
}

// warnSkipped adds a warning for every statement a lenient rewrite passed
// over. Only the statement form has statements the rewriter cannot enter.
func (d *Driver) warnSkipped(diags *diagnostic.DiagnosticList, doc *document, i int, sub Substitution) {
	if d.options.Form != FormStmt || d.options.Strict {
		return
	}
	for _, s := range optim.SkippedStmts(doc.block) {
		diags.AddWarning(diagnostic.CodeSkippedStmt,
			fmt.Sprintf("substitution %d (%s -> %s): %s statement passed through unchanged", i+1, sub.Var, sub.With, s.Kind()))
	}
}

func (d *Driver) fail(result Result, source string) Result {
	result.Code = source
	result.Errors = errorsOf(result.Diagnostics)
	result.Stats.OutputSize = len(source)
	return result
}

func errorsOf(diags *diagnostic.DiagnosticList) []Error {
	var errs []Error
	for _, diag := range diags.Errors() {
		errs = append(errs, Error{
			Message: diag.Message,
			Line:    diag.Range.Start.Line,
			Column:  diag.Range.Start.Column,
			Code:    diag.Code,
		})
	}
	return errs
}

func warningsOf(diags *diagnostic.DiagnosticList) []Error {
	var warnings []Error
	for _, diag := range diags.Diagnostics() {
		if diag.Severity == diagnostic.Warning {
			warnings = append(warnings, Error{Message: diag.Message, Code: diag.Code})
		}
	}
	return warnings
}

// ----------------------------------------------------------------------------
// Convenience Functions
// ----------------------------------------------------------------------------

// Rewrite rewrites source with optional custom options.
// If no options are provided, DefaultOptions() is used.
func Rewrite(source string, opts ...Options) Result {
	options := DefaultOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	return New(options).Rewrite(source)
}

// Collect collects tensor indices with optional custom options.
func Collect(source, tensor string, opts ...Options) CollectResult {
	options := DefaultOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	return New(options).Collect(source, tensor)
}
