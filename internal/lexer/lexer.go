// Package lexer provides tokenization for the IR text format.
//
// The lexer converts an IR document into a sequence of tokens, handling:
// - Keywords (loop kinds, control flow, memory statements)
// - Identifiers (including Unicode letters)
// - Numeric literals (int and float, with exponents)
// - Operators and punctuation
// - Line and block comments
package lexer

import (
	"unicode"
	"unicode/utf8"
)

// ----------------------------------------------------------------------------
// Token Types
// ----------------------------------------------------------------------------

// TokenKind represents the type of a token.
type TokenKind uint8

const (
	TokError TokenKind = iota
	TokEOF

	// Literals
	TokIntLiteral
	TokFloatLiteral

	// Identifiers
	TokIdent

	// Keywords
	TokAlloc
	TokElse
	TokFor
	TokFree
	TokIf
	TokLet
	TokParallel
	TokPolyFor
	TokSchedule
	TokUnroll
	TokVectorize
	TokVersion

	// Operators
	TokPlus    // +
	TokMinus   // -
	TokStar    // *
	TokSlash   // /
	TokPercent // %
	TokBang    // !
	TokLt      // <
	TokGt      // >
	TokEq      // =

	// Multi-char operators
	TokAmpAmp   // &&
	TokPipePipe // ||
	TokLtEq     // <=
	TokGtEq     // >=
	TokEqEq     // ==
	TokBangEq   // !=

	// Delimiters
	TokLParen    // (
	TokRParen    // )
	TokLBrace    // {
	TokRBrace    // }
	TokLBracket  // [
	TokRBracket  // ]
	TokSemicolon // ;
	TokComma     // ,
)

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "unknown"
}

var tokenNames = [...]string{
	TokError:        "error",
	TokEOF:          "EOF",
	TokIntLiteral:   "int",
	TokFloatLiteral: "float",
	TokIdent:        "identifier",
	// Keywords
	TokAlloc:     "alloc",
	TokElse:      "else",
	TokFor:       "for",
	TokFree:      "free",
	TokIf:        "if",
	TokLet:       "let",
	TokParallel:  "parallel",
	TokPolyFor:   "poly_for",
	TokSchedule:  "schedule",
	TokUnroll:    "unroll",
	TokVectorize: "vectorize",
	TokVersion:   "version",
	// Operators
	TokPlus:      "+",
	TokMinus:     "-",
	TokStar:      "*",
	TokSlash:     "/",
	TokPercent:   "%",
	TokBang:      "!",
	TokLt:        "<",
	TokGt:        ">",
	TokEq:        "=",
	TokAmpAmp:    "&&",
	TokPipePipe:  "||",
	TokLtEq:      "<=",
	TokGtEq:      ">=",
	TokEqEq:      "==",
	TokBangEq:    "!=",
	TokLParen:    "(",
	TokRParen:    ")",
	TokLBrace:    "{",
	TokRBrace:    "}",
	TokLBracket:  "[",
	TokRBracket:  "]",
	TokSemicolon: ";",
	TokComma:     ",",
}

// ----------------------------------------------------------------------------
// Token
// ----------------------------------------------------------------------------

// Token represents a lexical token.
type Token struct {
	Kind  TokenKind
	Start int    // Byte offset in source
	End   int    // Byte offset of end (exclusive)
	Value string // For identifiers, literals and error messages
}

// Text returns the source text of the token.
func (t Token) Text(source string) string {
	if t.Start >= 0 && t.End <= len(source) && t.Start <= t.End {
		return source[t.Start:t.End]
	}
	return ""
}

// ----------------------------------------------------------------------------
// Keywords
// ----------------------------------------------------------------------------

// Keywords maps keyword strings to their token kinds.
var Keywords = map[string]TokenKind{
	"alloc":     TokAlloc,
	"else":      TokElse,
	"for":       TokFor,
	"free":      TokFree,
	"if":        TokIf,
	"let":       TokLet,
	"parallel":  TokParallel,
	"poly_for":  TokPolyFor,
	"schedule":  TokSchedule,
	"unroll":    TokUnroll,
	"vectorize": TokVectorize,
	"version":   TokVersion,
}

// ----------------------------------------------------------------------------
// Lexer
// ----------------------------------------------------------------------------

// Lexer tokenizes IR source text.
type Lexer struct {
	source string
	pos    int
	start  int
	tokens []Token

	// Set when a block comment runs to the end of input.
	unterminated int
}

// New creates a new lexer for the given source.
func New(source string) *Lexer {
	return &Lexer{
		source:       source,
		tokens:       make([]Token, 0, len(source)/3),
		unterminated: -1,
	}
}

// Tokenize returns all tokens in the source. The last token is TokEOF or
// TokError.
func (l *Lexer) Tokenize() []Token {
	for {
		tok := l.Next()
		l.tokens = append(l.tokens, tok)
		if tok.Kind == TokEOF || tok.Kind == TokError {
			break
		}
	}
	return l.tokens
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()

	if l.unterminated >= 0 {
		start := l.unterminated
		l.unterminated = -1
		return Token{Kind: TokError, Start: start, End: l.pos, Value: "unterminated block comment"}
	}

	if l.pos >= len(l.source) {
		return Token{Kind: TokEOF, Start: l.pos, End: l.pos}
	}

	l.start = l.pos
	ch := l.source[l.pos]

	// Identifiers and keywords
	if ch < utf8.RuneSelf {
		if asciiIdentStart[ch] {
			return l.scanIdentOrKeyword()
		}
	} else if r, _ := utf8.DecodeRuneInString(l.source[l.pos:]); isIdentStartSlow(r) {
		return l.scanIdentOrKeyword()
	}

	// Numbers
	if isDigit(ch) || (ch == '.' && l.pos+1 < len(l.source) && isDigit(l.source[l.pos+1])) {
		return l.scanNumber()
	}

	// Operators and punctuation
	return l.scanOperator()
}

// ----------------------------------------------------------------------------
// Scanning Helpers
// ----------------------------------------------------------------------------

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		if ch < utf8.RuneSelf && asciiWhitespace[ch] {
			l.pos++
			continue
		}

		// Line comment
		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '/' {
			l.pos += 2
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.pos++
			}
			continue
		}

		// Block comment
		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '*' {
			start := l.pos
			l.pos += 2
			closed := false
			for l.pos+1 < len(l.source) {
				if l.source[l.pos] == '*' && l.source[l.pos+1] == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				l.pos = len(l.source)
				l.unterminated = start
				return
			}
			continue
		}

		break
	}
}

func (l *Lexer) scanIdentOrKeyword() Token {
	start := l.pos

	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch < utf8.RuneSelf {
			if asciiIdentContinue[ch] {
				l.pos++
				continue
			}
			break
		}
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentContinueSlow(r) {
			break
		}
		l.pos += size
	}

	text := l.source[start:l.pos]

	if kind, ok := Keywords[text]; ok {
		return Token{Kind: kind, Start: start, End: l.pos, Value: text}
	}

	return Token{Kind: TokIdent, Start: start, End: l.pos, Value: text}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	kind := TokIntLiteral

	// Integer part
	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.pos++
	}

	// Fraction
	if l.pos < len(l.source) && l.source[l.pos] == '.' {
		kind = TokFloatLiteral
		l.pos++
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}

	// Exponent
	if l.pos < len(l.source) && (l.source[l.pos] == 'e' || l.source[l.pos] == 'E') {
		p := l.pos + 1
		if p < len(l.source) && (l.source[p] == '+' || l.source[p] == '-') {
			p++
		}
		if p < len(l.source) && isDigit(l.source[p]) {
			kind = TokFloatLiteral
			l.pos = p
			for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
				l.pos++
			}
		}
	}

	// A number running straight into an identifier, like 2i, is malformed.
	if l.pos < len(l.source) && l.source[l.pos] < utf8.RuneSelf && asciiIdentContinue[l.source[l.pos]] {
		for l.pos < len(l.source) && l.source[l.pos] < utf8.RuneSelf && asciiIdentContinue[l.source[l.pos]] {
			l.pos++
		}
		return Token{Kind: TokError, Start: start, End: l.pos, Value: "malformed number"}
	}

	return Token{Kind: kind, Start: start, End: l.pos, Value: l.source[start:l.pos]}
}

func (l *Lexer) scanOperator() Token {
	start := l.pos
	ch := l.source[l.pos]
	l.pos++

	// Look for two-character operators
	var next byte
	if l.pos < len(l.source) {
		next = l.source[l.pos]
	}

	switch ch {
	case '+':
		return Token{Kind: TokPlus, Start: start, End: l.pos}
	case '-':
		return Token{Kind: TokMinus, Start: start, End: l.pos}
	case '*':
		return Token{Kind: TokStar, Start: start, End: l.pos}
	case '/':
		return Token{Kind: TokSlash, Start: start, End: l.pos}
	case '%':
		return Token{Kind: TokPercent, Start: start, End: l.pos}

	case '&':
		if next == '&' {
			l.pos++
			return Token{Kind: TokAmpAmp, Start: start, End: l.pos}
		}

	case '|':
		if next == '|' {
			l.pos++
			return Token{Kind: TokPipePipe, Start: start, End: l.pos}
		}

	case '<':
		if next == '=' {
			l.pos++
			return Token{Kind: TokLtEq, Start: start, End: l.pos}
		}
		return Token{Kind: TokLt, Start: start, End: l.pos}

	case '>':
		if next == '=' {
			l.pos++
			return Token{Kind: TokGtEq, Start: start, End: l.pos}
		}
		return Token{Kind: TokGt, Start: start, End: l.pos}

	case '=':
		if next == '=' {
			l.pos++
			return Token{Kind: TokEqEq, Start: start, End: l.pos}
		}
		return Token{Kind: TokEq, Start: start, End: l.pos}

	case '!':
		if next == '=' {
			l.pos++
			return Token{Kind: TokBangEq, Start: start, End: l.pos}
		}
		return Token{Kind: TokBang, Start: start, End: l.pos}

	case '(':
		return Token{Kind: TokLParen, Start: start, End: l.pos}
	case ')':
		return Token{Kind: TokRParen, Start: start, End: l.pos}
	case '{':
		return Token{Kind: TokLBrace, Start: start, End: l.pos}
	case '}':
		return Token{Kind: TokRBrace, Start: start, End: l.pos}
	case '[':
		return Token{Kind: TokLBracket, Start: start, End: l.pos}
	case ']':
		return Token{Kind: TokRBracket, Start: start, End: l.pos}
	case ';':
		return Token{Kind: TokSemicolon, Start: start, End: l.pos}
	case ',':
		return Token{Kind: TokComma, Start: start, End: l.pos}
	}

	// Keep multi-byte characters whole in the error span.
	if ch >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(l.source[start:])
		l.pos = start + size
	}
	return Token{Kind: TokError, Start: start, End: l.pos, Value: "unexpected character"}
}

// ----------------------------------------------------------------------------
// Character Classification
// ----------------------------------------------------------------------------

// ASCII lookup tables; Unicode tables are only consulted for non-ASCII input.
var (
	asciiIdentStart    [utf8.RuneSelf]bool
	asciiIdentContinue [utf8.RuneSelf]bool
	asciiWhitespace    [utf8.RuneSelf]bool
)

func init() {
	for c := 'a'; c <= 'z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	asciiIdentStart['_'] = true
	asciiIdentContinue['_'] = true

	for c := '0'; c <= '9'; c++ {
		asciiIdentContinue[c] = true
	}

	asciiWhitespace[' '] = true
	asciiWhitespace['\t'] = true
	asciiWhitespace['\n'] = true
	asciiWhitespace['\r'] = true
	asciiWhitespace['\v'] = true
	asciiWhitespace['\f'] = true
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStartSlow(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueSlow(r rune) bool {
	return isIdentStartSlow(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// IsIdent reports whether s is a valid identifier that is not a keyword.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	if _, ok := Keywords[s]; ok {
		return false
	}
	for i, r := range s {
		if r < utf8.RuneSelf {
			if i == 0 && !asciiIdentStart[r] || i > 0 && !asciiIdentContinue[r] {
				return false
			}
			continue
		}
		if i == 0 && !isIdentStartSlow(r) || i > 0 && !isIdentContinueSlow(r) {
			return false
		}
	}
	return true
}
