package lexer

import (
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test Helpers
// ----------------------------------------------------------------------------

func expectToken(t *testing.T, input string, expected TokenKind) {
	t.Helper()
	l := New(input)
	tok := l.Next()
	if tok.Kind != expected {
		t.Errorf("input %q: expected %v, got %v", input, expected, tok.Kind)
	}
}

func expectTokenValue(t *testing.T, input string, expectedKind TokenKind, expectedValue string) {
	t.Helper()
	l := New(input)
	tok := l.Next()
	if tok.Kind != expectedKind {
		t.Errorf("input %q: expected kind %v, got %v", input, expectedKind, tok.Kind)
	}
	if tok.Value != expectedValue {
		t.Errorf("input %q: expected value %q, got %q", input, expectedValue, tok.Value)
	}
}

func expectTokens(t *testing.T, input string, expected []TokenKind) {
	t.Helper()
	l := New(input)
	for i, exp := range expected {
		tok := l.Next()
		if tok.Kind != exp {
			t.Errorf("input %q token %d: expected %v, got %v", input, i, exp, tok.Kind)
		}
	}
}

func expectError(t *testing.T, input string) {
	t.Helper()
	l := New(input)
	tok := l.Next()
	if tok.Kind != TokError {
		t.Errorf("input %q: expected error, got %v", input, tok.Kind)
	}
}

// ----------------------------------------------------------------------------
// Keyword Tests
// ----------------------------------------------------------------------------

func TestKeywords(t *testing.T) {
	cases := []struct {
		input string
		kind  TokenKind
	}{
		{"alloc", TokAlloc},
		{"else", TokElse},
		{"for", TokFor},
		{"free", TokFree},
		{"if", TokIf},
		{"let", TokLet},
		{"parallel", TokParallel},
		{"poly_for", TokPolyFor},
		{"schedule", TokSchedule},
		{"unroll", TokUnroll},
		{"vectorize", TokVectorize},
		{"version", TokVersion},
	}

	if len(cases) != len(Keywords) {
		t.Errorf("%d keyword cases for %d keywords", len(cases), len(Keywords))
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			expectTokenValue(t, tc.input, tc.kind, tc.input)
		})
	}
}

func TestIdentifiers(t *testing.T) {
	cases := []string{"i", "io", "A", "_tmp", "x_1", "forward", "ifx", "poly", "for_i"}
	for _, id := range cases {
		t.Run(id, func(t *testing.T) {
			expectTokenValue(t, id, TokIdent, id)
		})
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	expectTokenValue(t, "αβ", TokIdent, "αβ")
	expectTokenValue(t, "température", TokIdent, "température")
	expectTokenValue(t, "変数 ", TokIdent, "変数")
}

// ----------------------------------------------------------------------------
// Number Tests
// ----------------------------------------------------------------------------

func TestIntegers(t *testing.T) {
	for _, n := range []string{"0", "1", "42", "1024"} {
		expectTokenValue(t, n, TokIntLiteral, n)
	}
}

func TestFloats(t *testing.T) {
	for _, n := range []string{"1.0", "0.5", ".5", "2.", "1e9", "1e+06", "2.5E-3"} {
		t.Run(n, func(t *testing.T) {
			expectTokenValue(t, n, TokFloatLiteral, n)
		})
	}
}

func TestExponentWithoutDigits(t *testing.T) {
	// "2e" is not an exponent; the number runs into an identifier.
	expectError(t, "2e")
	expectError(t, "3x")
}

func TestVersionNumberTokens(t *testing.T) {
	expectTokens(t, "version 1.0.0;", []TokenKind{
		TokVersion,
		TokFloatLiteral, // 1.0
		TokFloatLiteral, // .0
		TokSemicolon,
		TokEOF,
	})
}

// ----------------------------------------------------------------------------
// Operator Tests
// ----------------------------------------------------------------------------

func TestSingleCharOperators(t *testing.T) {
	cases := map[string]TokenKind{
		"+": TokPlus, "-": TokMinus, "*": TokStar, "/": TokSlash, "%": TokPercent,
		"!": TokBang, "<": TokLt, ">": TokGt, "=": TokEq,
	}
	for input, kind := range cases {
		expectToken(t, input, kind)
	}
}

func TestMultiCharOperators(t *testing.T) {
	cases := map[string]TokenKind{
		"&&": TokAmpAmp, "||": TokPipePipe, "<=": TokLtEq, ">=": TokGtEq,
		"==": TokEqEq, "!=": TokBangEq,
	}
	for input, kind := range cases {
		expectToken(t, input, kind)
	}
}

func TestDelimiters(t *testing.T) {
	expectTokens(t, "(){}[];,", []TokenKind{
		TokLParen, TokRParen, TokLBrace, TokRBrace,
		TokLBracket, TokRBracket, TokSemicolon, TokComma, TokEOF,
	})
}

func TestLoneAmpersandAndPipe(t *testing.T) {
	expectError(t, "&")
	expectError(t, "| x")
}

func TestUnknownCharacter(t *testing.T) {
	invalidChars := []string{"$", "#", "`", "\\", "\"", "'", "?", "@", ".", "→"}
	for _, ch := range invalidChars {
		t.Run(ch, func(t *testing.T) {
			l := New(ch)
			tok := l.Next()
			if tok.Kind != TokError {
				t.Errorf("input %q: expected TokError, got %v", ch, tok.Kind)
			}
			if tok.End != len(ch) {
				t.Errorf("input %q: error span ends at %d, want %d", ch, tok.End, len(ch))
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Comment Tests
// ----------------------------------------------------------------------------

func TestLineComments(t *testing.T) {
	expectTokenValue(t, "// comment\nfoo", TokIdent, "foo")

	l := New("foo // comment")
	tok := l.Next()
	if tok.Kind != TokIdent || tok.Value != "foo" {
		t.Errorf("expected identifier 'foo', got %v %q", tok.Kind, tok.Value)
	}
	tok = l.Next()
	if tok.Kind != TokEOF {
		t.Errorf("expected EOF after comment, got %v", tok.Kind)
	}
}

func TestBlockComments(t *testing.T) {
	expectTokenValue(t, "/* comment */ foo", TokIdent, "foo")
	expectTokenValue(t, "/* line1\nline2\nline3 */ baz", TokIdent, "baz")
	expectTokenValue(t, "/**/x", TokIdent, "x")
}

func TestUnterminatedBlockComment(t *testing.T) {
	l := New("a /* never closed")
	if tok := l.Next(); tok.Kind != TokIdent {
		t.Fatalf("expected identifier, got %v", tok.Kind)
	}
	tok := l.Next()
	if tok.Kind != TokError || tok.Start != 2 {
		t.Errorf("expected error at 2, got %v at %d", tok.Kind, tok.Start)
	}
	if tok.Value != "unterminated block comment" {
		t.Errorf("unexpected message %q", tok.Value)
	}
}

func TestWhitespace(t *testing.T) {
	expectTokenValue(t, "  \t\n\r  foo", TokIdent, "foo")
	expectToken(t, "", TokEOF)
	expectToken(t, "   \n\t", TokEOF)
	expectToken(t, "// only a comment", TokEOF)
}

// ----------------------------------------------------------------------------
// Token Sequence Tests
// ----------------------------------------------------------------------------

func TestLoopNest(t *testing.T) {
	input := `parallel for (i, 0, n) {
		A[i, j] = B[j, i] + f(i) * 2;
	}`
	expectTokens(t, input, []TokenKind{
		TokParallel, TokFor, TokLParen, TokIdent, TokComma, TokIntLiteral, TokComma, TokIdent, TokRParen, TokLBrace,
		TokIdent, TokLBracket, TokIdent, TokComma, TokIdent, TokRBracket, TokEq,
		TokIdent, TokLBracket, TokIdent, TokComma, TokIdent, TokRBracket, TokPlus,
		TokIdent, TokLParen, TokIdent, TokRParen, TokStar, TokIntLiteral, TokSemicolon,
		TokRBrace, TokEOF,
	})
}

func TestPolyForHeader(t *testing.T) {
	expectTokens(t, "poly_for (k, 0, k <= 8 && k != 3, k + 1) {}", []TokenKind{
		TokPolyFor, TokLParen, TokIdent, TokComma, TokIntLiteral, TokComma,
		TokIdent, TokLtEq, TokIntLiteral, TokAmpAmp, TokIdent, TokBangEq, TokIntLiteral, TokComma,
		TokIdent, TokPlus, TokIntLiteral, TokRParen, TokLBrace, TokRBrace, TokEOF,
	})
}

func TestStatementKeywords(t *testing.T) {
	expectTokens(t, "alloc C[16, n]; free C; schedule S0 (vi = i) {}", []TokenKind{
		TokAlloc, TokIdent, TokLBracket, TokIntLiteral, TokComma, TokIdent, TokRBracket, TokSemicolon,
		TokFree, TokIdent, TokSemicolon,
		TokSchedule, TokIdent, TokLParen, TokIdent, TokEq, TokIdent, TokRParen, TokLBrace, TokRBrace,
		TokEOF,
	})
}

// ----------------------------------------------------------------------------
// Token API Tests
// ----------------------------------------------------------------------------

func TestTokenKindString(t *testing.T) {
	cases := []struct {
		kind     TokenKind
		expected string
	}{
		{TokEOF, "EOF"},
		{TokError, "error"},
		{TokIntLiteral, "int"},
		{TokFloatLiteral, "float"},
		{TokIdent, "identifier"},
		{TokPolyFor, "poly_for"},
		{TokVersion, "version"},
		{TokAmpAmp, "&&"},
		{TokBangEq, "!="},
		{TokComma, ","},
	}

	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			got := tc.kind.String()
			if got != tc.expected {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tc.kind, got, tc.expected)
			}
		})
	}

	if got := TokenKind(255).String(); got != "unknown" {
		t.Errorf("TokenKind(255).String() = %q, want %q", got, "unknown")
	}
}

func TestEveryTokenKindHasAName(t *testing.T) {
	for k := TokError; k <= TokComma; k++ {
		if k.String() == "" || k.String() == "unknown" {
			t.Errorf("TokenKind(%d) has no name", k)
		}
	}
}

func TestTokenText(t *testing.T) {
	source := "for (i, 0, 4) {}"
	tokens := New(source).Tokenize()

	if got := tokens[0].Text(source); got != "for" {
		t.Errorf("Token.Text() = %q, want %q", got, "for")
	}
	if got := tokens[2].Text(source); got != "i" {
		t.Errorf("Token.Text() = %q, want %q", got, "i")
	}

	bad := Token{Kind: TokIdent, Start: -1, End: 10}
	if got := bad.Text(source); got != "" {
		t.Errorf("Token.Text() with invalid bounds = %q, want empty", got)
	}
}

func TestTokenizeStopsAtError(t *testing.T) {
	tokens := New("let x = $ 1;").Tokenize()

	last := tokens[len(tokens)-1]
	if last.Kind != TokError {
		t.Fatalf("last token should be TokError, got %v", last.Kind)
	}
	if len(tokens) != 4 {
		t.Errorf("Tokenize() returned %d tokens, want 4", len(tokens))
	}
}

func TestIsIdent(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"i", true},
		{"io_2", true},
		{"_", true},
		{"αβ", true},
		{"", false},
		{"2x", false},
		{"for", false},
		{"a-b", false},
		{"a b", false},
	}
	for _, tc := range cases {
		if got := IsIdent(tc.input); got != tc.want {
			t.Errorf("IsIdent(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Benchmarks
// ----------------------------------------------------------------------------

func BenchmarkLexer(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("for (i, 0, 64) { A[i, j * 4 + k] = B[j, i] + f(i) * 2.5; } // loop\n")
	}
	source := sb.String()

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = New(source).Tokenize()
	}
}
