// Package parser parses the IR text format.
//
// The same source can be parsed into either IR taxonomy: ParseExpr builds the
// unified expression tree (package ir) and ParseBlock builds the statement
// representation (package stmt). Constructs that exist in only one taxonomy
// (poly_for in the expression tree; alloc, free and schedule in the
// statement form) are reported as errors in the other.
//
// Every reference to a variable name within one document shares one
// identity, so name and identity matching agree on parsed input.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HugoDaniel/irsubst/internal/diagnostic"
	"github.com/HugoDaniel/irsubst/internal/ir"
	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
	"github.com/HugoDaniel/irsubst/internal/lexer"
	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// SupportedVersions is the semver constraint a version directive must meet.
const SupportedVersions = "~1"

var supportedVersions = func() *semver.Constraints {
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		panic(err)
	}
	return c
}()

// ParseError represents a parsing error.
type ParseError struct {
	Message string
	Pos     int
	Line    int
	Column  int
	Code    diagnostic.Code
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Symbols maps variable names to the identity shared by every reference to
// that name within one document.
type Symbols map[string]uuid.UUID

// Var returns a reference to name, assigning a fresh identity on first use.
func (s Symbols) Var(name string) *ir.Var {
	id, ok := s[name]
	if !ok {
		id = uuid.New()
		s[name] = id
	}
	return &ir.Var{Name: name, ID: id}
}

type form uint8

const (
	formExpr form = iota
	formStmt
)

func (f form) String() string {
	if f == formStmt {
		return "statement"
	}
	return "expression"
}

// Parser parses one IR document.
type Parser struct {
	source    string
	tokens    []lexer.Token
	pos       int
	lineIndex *diagnostic.LineIndex
	form      form

	symbols Symbols
	version *semver.Version

	errors []ParseError
}

// New creates a new parser for the given source.
func New(source string) *Parser {
	return NewWithSymbols(source, make(Symbols))
}

// NewWithSymbols creates a parser whose variables take their identities from
// syms. New names are added to syms.
func NewWithSymbols(source string, syms Symbols) *Parser {
	return &Parser{
		source:    source,
		tokens:    lexer.New(source).Tokenize(),
		lineIndex: diagnostic.NewLineIndex(source),
		symbols:   syms,
	}
}

// ParseExpr parses source into the unified expression tree.
func ParseExpr(source string) (*ir.Block, []ParseError) {
	return New(source).ParseExpr()
}

// ParseBlock parses source into the statement representation.
func ParseBlock(source string) (*stmt.Block, []ParseError) {
	return New(source).ParseBlock()
}

// ParseExprString parses a single expression, such as a replacement.
func ParseExprString(source string) (ir.Expr, []ParseError) {
	return New(source).ParseSingle()
}

// Symbols returns the name to identity table of the document.
func (p *Parser) Symbols() Symbols {
	return p.symbols
}

// Version returns the document's version directive, or nil when absent.
func (p *Parser) Version() *semver.Version {
	return p.version
}

// ParseExpr parses the document as a sequence of expression-tree statements.
func (p *Parser) ParseExpr() (*ir.Block, []ParseError) {
	p.form = formExpr
	p.parseVersionDirective()

	root := &ir.Block{}
	for p.current().Kind != lexer.TokEOF {
		start := p.pos
		if e := p.parseExprStatement(); e != nil {
			root.Stmts = append(root.Stmts, e)
		} else {
			p.synchronize(start)
		}
	}
	return root, p.errors
}

// ParseBlock parses the document as a statement block.
func (p *Parser) ParseBlock() (*stmt.Block, []ParseError) {
	p.form = formStmt
	p.parseVersionDirective()

	root := stmt.NewBlock()
	for p.current().Kind != lexer.TokEOF {
		start := p.pos
		if s := p.parseStatement(); s != nil {
			root.Stmts = append(root.Stmts, s)
		} else {
			p.synchronize(start)
		}
	}
	return root, p.errors
}

// ParseSingle parses the whole source as one expression.
func (p *Parser) ParseSingle() (ir.Expr, []ParseError) {
	if p.current().Kind == lexer.TokEOF {
		p.error("expected expression")
		return nil, p.errors
	}
	e := p.parseExpression()
	if e != nil && p.current().Kind != lexer.TokEOF {
		p.error(fmt.Sprintf("unexpected %s after expression", p.current().Kind))
	}
	return e, p.errors
}

// ----------------------------------------------------------------------------
// Token Helpers
// ----------------------------------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokEOF, Start: len(p.source), End: len(p.source)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, bool) {
	tok := p.current()
	if tok.Kind != kind {
		p.error(fmt.Sprintf("expected %s, got %s", kind, tok.Kind))
		return tok, false
	}
	p.advance()
	return tok, true
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if p.current().Kind == kind {
		p.advance()
		return true
	}
	return false
}

// error reports msg at the current token. A lexer error token reports its
// own message instead.
func (p *Parser) error(msg string) {
	tok := p.current()
	if tok.Kind == lexer.TokError {
		msg = tok.Value
	}
	p.errorAt(tok.Start, diagnostic.CodeSyntax, msg)
}

func (p *Parser) errorAt(pos int, code diagnostic.Code, msg string) {
	// One error per position; recovery tends to re-report the same token.
	if n := len(p.errors); n > 0 && p.errors[n-1].Pos == pos {
		return
	}
	line, col := p.lineIndex.ByteOffsetToLineColumn(pos)
	p.errors = append(p.errors, ParseError{
		Message: msg,
		Pos:     pos,
		Line:    line + 1,
		Column:  col + 1,
		Code:    code,
	})
}

// synchronize skips to the start of the next statement after a failed one.
// A braced body opened by the failed statement is skipped whole; a closing
// brace it did not open ends the skip unconsumed.
func (p *Parser) synchronize(start int) {
	depth := 0
	for {
		switch p.current().Kind {
		case lexer.TokEOF:
			return
		case lexer.TokLBrace:
			depth++
		case lexer.TokRBrace:
			if depth == 0 {
				// A stray brace at statement start must still be consumed.
				if p.pos == start {
					p.advance()
				}
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case lexer.TokSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// Directives
// ----------------------------------------------------------------------------

// parseVersionDirective reads an optional leading "version X.Y.Z;". The
// version text is taken from the source between the keyword and the
// semicolon, since the lexer has no version literal.
func (p *Parser) parseVersionDirective() {
	if p.current().Kind != lexer.TokVersion {
		return
	}
	kw := p.advance()
	for k := p.current().Kind; k != lexer.TokSemicolon && k != lexer.TokEOF && k != lexer.TokError; k = p.current().Kind {
		p.advance()
	}
	end := p.current().Start
	raw := strings.TrimSpace(p.source[kw.End:end])
	if _, ok := p.expect(lexer.TokSemicolon); !ok {
		return
	}

	at := kw.End
	for at < end && p.source[at] == ' ' {
		at++
	}
	if raw == "" {
		p.errorAt(at, diagnostic.CodeVersion, "missing version number")
		return
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		p.errorAt(at, diagnostic.CodeVersion, fmt.Sprintf("invalid version %q: %v", raw, err))
		return
	}
	if !supportedVersions.Check(v) {
		p.errorAt(at, diagnostic.CodeVersion, fmt.Sprintf("unsupported IR version %s (supported: %s)", v, SupportedVersions))
		return
	}
	p.version = v
}

func (p *Parser) misplacedVersion() {
	p.error("version directive must come first")
}

func (p *Parser) wrongForm(kw lexer.Token, want form) {
	p.errorAt(kw.Start, diagnostic.CodeForm, fmt.Sprintf("%s is only valid in %s form", kw.Kind, want))
}

// ----------------------------------------------------------------------------
// Shared Statement Pieces
// ----------------------------------------------------------------------------

// loopHeader is "[kind] for (v, min, extent)".
type loopHeader struct {
	kind    ir.ForKind
	loopVar *ir.Var
	min     ir.Expr
	extent  ir.Expr
}

func (p *Parser) parseLoopHeader() (loopHeader, bool) {
	var h loopHeader
	switch p.current().Kind {
	case lexer.TokParallel:
		h.kind = ir.Parallel
		p.advance()
	case lexer.TokUnroll:
		h.kind = ir.Unrolled
		p.advance()
	case lexer.TokVectorize:
		h.kind = ir.Vectorized
		p.advance()
	}
	if _, ok := p.expect(lexer.TokFor); !ok {
		return h, false
	}
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return h, false
	}
	name, ok := p.expect(lexer.TokIdent)
	if !ok {
		return h, false
	}
	h.loopVar = p.symbols.Var(name.Value)
	if _, ok := p.expect(lexer.TokComma); !ok {
		return h, false
	}
	if h.min = p.parseExpression(); h.min == nil {
		return h, false
	}
	if _, ok := p.expect(lexer.TokComma); !ok {
		return h, false
	}
	if h.extent = p.parseExpression(); h.extent == nil {
		return h, false
	}
	_, ok = p.expect(lexer.TokRParen)
	return h, ok
}

// parseLet parses "let name = value;".
func (p *Parser) parseLet() (*ir.Var, ir.Expr, bool) {
	p.expect(lexer.TokLet)
	name, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil, nil, false
	}
	if _, ok := p.expect(lexer.TokEq); !ok {
		return nil, nil, false
	}
	value := p.parseExpression()
	if value == nil {
		return nil, nil, false
	}
	if _, ok := p.expect(lexer.TokSemicolon); !ok {
		return nil, nil, false
	}
	return p.symbols.Var(name.Value), value, true
}

// parseCondition parses "(cond)" after if.
func (p *Parser) parseCondition() ir.Expr {
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}
	return cond
}

// parseAccessOrExpr parses "A[i] = value;" or "expr;". It returns the store
// pieces when the statement is an assignment.
func (p *Parser) parseAccessOrExpr() (lhs, value ir.Expr, ok bool) {
	lhs = p.parseExpression()
	if lhs == nil {
		return nil, nil, false
	}
	if p.current().Kind == lexer.TokEq {
		eq := p.advance()
		if _, isLoad := lhs.(*ir.Load); !isLoad {
			p.errorAt(eq.Start, diagnostic.CodeSyntax, "left side of assignment must be a tensor access")
			return nil, nil, false
		}
		if value = p.parseExpression(); value == nil {
			return nil, nil, false
		}
	}
	if _, ok := p.expect(lexer.TokSemicolon); !ok {
		return nil, nil, false
	}
	return lhs, value, true
}

// ----------------------------------------------------------------------------
// Expression Tree Statements
// ----------------------------------------------------------------------------

func (p *Parser) parseExprStatement() ir.Expr {
	switch tok := p.current(); tok.Kind {
	case lexer.TokVersion:
		p.misplacedVersion()
		return nil

	case lexer.TokFor, lexer.TokParallel, lexer.TokUnroll, lexer.TokVectorize:
		h, ok := p.parseLoopHeader()
		if !ok {
			return nil
		}
		body := p.parseExprBlock()
		if body == nil {
			return nil
		}
		return &ir.For{LoopVar: h.loopVar, Min: h.min, Extent: h.extent, Kind: h.kind, Body: body}

	case lexer.TokPolyFor:
		return p.parsePolyFor()

	case lexer.TokLBrace:
		if b := p.parseExprBlock(); b != nil {
			return b
		}
		return nil

	case lexer.TokLet:
		sym, value, ok := p.parseLet()
		if !ok {
			return nil
		}
		return &ir.Let{Symbol: sym, Value: value}

	case lexer.TokIf:
		return p.parseExprIf()

	case lexer.TokAlloc, lexer.TokFree, lexer.TokSchedule:
		p.wrongForm(tok, formStmt)
		return nil

	default:
		lhs, value, ok := p.parseAccessOrExpr()
		if !ok {
			return nil
		}
		if value == nil {
			return lhs
		}
		load := lhs.(*ir.Load)
		return &ir.Store{Tensor: load.Tensor, Indices: load.Indices, Value: value}
	}
}

func (p *Parser) parseExprBlock() *ir.Block {
	if _, ok := p.expect(lexer.TokLBrace); !ok {
		return nil
	}
	block := &ir.Block{}
	for p.current().Kind != lexer.TokRBrace && p.current().Kind != lexer.TokEOF {
		start := p.pos
		if e := p.parseExprStatement(); e != nil {
			block.Stmts = append(block.Stmts, e)
		} else {
			p.synchronize(start)
		}
	}
	if _, ok := p.expect(lexer.TokRBrace); !ok {
		return nil
	}
	return block
}

func (p *Parser) parsePolyFor() ir.Expr {
	p.expect(lexer.TokPolyFor)
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	name, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}
	loop := &ir.PolyFor{Iterator: p.symbols.Var(name.Value)}
	for _, slot := range []*ir.Expr{&loop.Init, &loop.Condition, &loop.Inc} {
		if _, ok := p.expect(lexer.TokComma); !ok {
			return nil
		}
		if *slot = p.parseExpression(); *slot == nil {
			return nil
		}
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}
	body := p.parseExprBlock()
	if body == nil {
		return nil
	}
	loop.Body = body
	return loop
}

func (p *Parser) parseExprIf() ir.Expr {
	p.expect(lexer.TokIf)
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	then := p.parseExprBlock()
	if then == nil {
		return nil
	}
	node := &ir.IfThenElse{Condition: cond, True: then}

	if p.match(lexer.TokElse) {
		if p.current().Kind == lexer.TokIf {
			nested := p.parseExprIf()
			if nested == nil {
				return nil
			}
			node.False = &ir.Block{Stmts: []ir.Expr{nested}}
		} else {
			els := p.parseExprBlock()
			if els == nil {
				return nil
			}
			node.False = els
		}
	}
	return node
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Parser) parseStatement() stmt.Stmt {
	switch tok := p.current(); tok.Kind {
	case lexer.TokVersion:
		p.misplacedVersion()
		return nil

	case lexer.TokFor, lexer.TokParallel, lexer.TokUnroll, lexer.TokVectorize:
		h, ok := p.parseLoopHeader()
		if !ok {
			return nil
		}
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		return &stmt.For{LoopVar: h.loopVar, Min: h.min, Extent: h.extent, ForKind: h.kind, Body: body}

	case lexer.TokPolyFor:
		p.wrongForm(tok, formExpr)
		return nil

	case lexer.TokLet:
		sym, value, ok := p.parseLet()
		if !ok {
			return nil
		}
		return &stmt.Let{Symbol: sym, Value: value}

	case lexer.TokIf:
		return p.parseIf()

	case lexer.TokAlloc:
		return p.parseAlloc()

	case lexer.TokFree:
		p.advance()
		name, ok := p.expect(lexer.TokIdent)
		if !ok {
			return nil
		}
		if _, ok := p.expect(lexer.TokSemicolon); !ok {
			return nil
		}
		return &stmt.Free{Name: name.Value}

	case lexer.TokSchedule:
		return p.parseSchedule()

	default:
		lhs, value, ok := p.parseAccessOrExpr()
		if !ok {
			return nil
		}
		if value == nil {
			return &stmt.Evaluate{Value: lhs}
		}
		load := lhs.(*ir.Load)
		return &stmt.Store{Tensor: load.Tensor, Indices: load.Indices, Value: value}
	}
}

func (p *Parser) parseBlock() *stmt.Block {
	if _, ok := p.expect(lexer.TokLBrace); !ok {
		return nil
	}
	block := stmt.NewBlock()
	for p.current().Kind != lexer.TokRBrace && p.current().Kind != lexer.TokEOF {
		start := p.pos
		if s := p.parseStatement(); s != nil {
			block.Stmts = append(block.Stmts, s)
		} else {
			p.synchronize(start)
		}
	}
	if _, ok := p.expect(lexer.TokRBrace); !ok {
		return nil
	}
	return block
}

func (p *Parser) parseIf() stmt.Stmt {
	p.expect(lexer.TokIf)
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	node := &stmt.IfThenElse{Condition: cond, True: then}

	if p.match(lexer.TokElse) {
		if p.current().Kind == lexer.TokIf {
			nested := p.parseIf()
			if nested == nil {
				return nil
			}
			node.False = stmt.NewBlock(nested)
		} else {
			if node.False = p.parseBlock(); node.False == nil {
				return nil
			}
		}
	}
	return node
}

func (p *Parser) parseAlloc() stmt.Stmt {
	p.expect(lexer.TokAlloc)
	name, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.TokLBracket); !ok {
		return nil
	}
	extents, ok := p.parseExpressionList(lexer.TokRBracket)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.TokSemicolon); !ok {
		return nil
	}
	return &stmt.Alloc{Name: name.Value, Extents: extents}
}

func (p *Parser) parseSchedule() stmt.Stmt {
	p.expect(lexer.TokSchedule)
	name, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	node := &stmt.Schedule{Name: name.Value}
	for p.current().Kind != lexer.TokRParen {
		iv, ok := p.expect(lexer.TokIdent)
		if !ok {
			return nil
		}
		if _, ok := p.expect(lexer.TokEq); !ok {
			return nil
		}
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		node.IterVars = append(node.IterVars, p.symbols.Var(iv.Value))
		node.IterValues = append(node.IterValues, value)
		if !p.match(lexer.TokComma) {
			break
		}
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}
	if node.Body = p.parseBlock(); node.Body == nil {
		return nil
	}
	return node
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Parser) parseExpression() ir.Expr {
	return p.parseLogicalOrExpr()
}

// parseBinaryLevel parses a left-associative chain of the operators in ops,
// with operands parsed by next.
func (p *Parser) parseBinaryLevel(next func() ir.Expr, ops map[lexer.TokenKind]ir.BinaryOp) ir.Expr {
	left := next()
	for left != nil {
		op, ok := ops[p.current().Kind]
		if !ok {
			return left
		}
		p.advance()
		right := next()
		if right == nil {
			return nil
		}
		left = &ir.Binary{Op: op, A: left, B: right}
	}
	return nil
}

var (
	logicalOrOps      = map[lexer.TokenKind]ir.BinaryOp{lexer.TokPipePipe: ir.OpOr}
	logicalAndOps     = map[lexer.TokenKind]ir.BinaryOp{lexer.TokAmpAmp: ir.OpAnd}
	equalityOps       = map[lexer.TokenKind]ir.BinaryOp{lexer.TokEqEq: ir.OpEQ, lexer.TokBangEq: ir.OpNE}
	relationalOps     = map[lexer.TokenKind]ir.BinaryOp{lexer.TokLt: ir.OpLT, lexer.TokLtEq: ir.OpLE, lexer.TokGt: ir.OpGT, lexer.TokGtEq: ir.OpGE}
	additiveOps       = map[lexer.TokenKind]ir.BinaryOp{lexer.TokPlus: ir.OpAdd, lexer.TokMinus: ir.OpSub}
	multiplicativeOps = map[lexer.TokenKind]ir.BinaryOp{lexer.TokStar: ir.OpMul, lexer.TokSlash: ir.OpDiv, lexer.TokPercent: ir.OpMod}
)

func (p *Parser) parseLogicalOrExpr() ir.Expr {
	return p.parseBinaryLevel(p.parseLogicalAndExpr, logicalOrOps)
}

func (p *Parser) parseLogicalAndExpr() ir.Expr {
	return p.parseBinaryLevel(p.parseEqualityExpr, logicalAndOps)
}

func (p *Parser) parseEqualityExpr() ir.Expr {
	return p.parseBinaryLevel(p.parseRelationalExpr, equalityOps)
}

func (p *Parser) parseRelationalExpr() ir.Expr {
	return p.parseBinaryLevel(p.parseAdditiveExpr, relationalOps)
}

func (p *Parser) parseAdditiveExpr() ir.Expr {
	return p.parseBinaryLevel(p.parseMultiplicativeExpr, additiveOps)
}

func (p *Parser) parseMultiplicativeExpr() ir.Expr {
	return p.parseBinaryLevel(p.parseUnaryExpr, multiplicativeOps)
}

func (p *Parser) parseUnaryExpr() ir.Expr {
	var op ir.UnaryOp
	switch p.current().Kind {
	case lexer.TokMinus:
		op = ir.OpNeg
	case lexer.TokBang:
		op = ir.OpNot
	default:
		return p.parsePrimaryExpr()
	}
	p.advance()
	operand := p.parseUnaryExpr()
	if operand == nil {
		return nil
	}
	return &ir.Unary{Op: op, X: operand}
}

func (p *Parser) parsePrimaryExpr() ir.Expr {
	tok := p.current()

	switch tok.Kind {
	case lexer.TokIntLiteral:
		p.advance()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.errorAt(tok.Start, diagnostic.CodeSyntax, fmt.Sprintf("integer literal %s out of range", tok.Value))
			return nil
		}
		return &ir.IntImm{Value: v}

	case lexer.TokFloatLiteral:
		p.advance()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			p.errorAt(tok.Start, diagnostic.CodeSyntax, fmt.Sprintf("invalid float literal %s", tok.Value))
			return nil
		}
		return &ir.FloatImm{Value: v}

	case lexer.TokIdent:
		p.advance()
		switch p.current().Kind {
		case lexer.TokLBracket:
			p.advance()
			indices, ok := p.parseExpressionList(lexer.TokRBracket)
			if !ok {
				return nil
			}
			return &ir.Load{Tensor: &ir.Tensor{Name: tok.Value}, Indices: indices}

		case lexer.TokLParen:
			p.advance()
			args, ok := p.parseExpressionList(lexer.TokRParen)
			if !ok {
				return nil
			}
			return &ir.Call{Name: tok.Value, Args: args}
		}
		return p.symbols.Var(tok.Value)

	case lexer.TokLParen:
		p.advance()
		e := p.parseExpression()
		if e == nil {
			return nil
		}
		if _, ok := p.expect(lexer.TokRParen); !ok {
			return nil
		}
		return e

	default:
		p.error("expected expression")
		return nil
	}
}

// parseExpressionList parses comma separated expressions up to and
// including the closing token.
func (p *Parser) parseExpressionList(closing lexer.TokenKind) ([]ir.Expr, bool) {
	var list []ir.Expr
	for p.current().Kind != closing {
		e := p.parseExpression()
		if e == nil {
			return nil, false
		}
		list = append(list, e)
		if !p.match(lexer.TokComma) {
			break
		}
	}
	if _, ok := p.expect(closing); !ok {
		return nil, false
	}
	return list, true
}
