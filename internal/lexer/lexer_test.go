package lexer

import "testing"

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func assertTypes(t *testing.T, input string, want []TokenType) {
	t.Helper()
	tokens := New(input).Tokenize()
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch for %q: got %d (%v), want %d (%v)", input, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d of %q: got %s, want %s", i, input, got[i].Name(), want[i].Name())
		}
	}
}

func TestLexerDeclaration(t *testing.T) {
	assertTypes(t, "there is a number called x which is 5",
		[]TokenType{THERE_IS, TYPE_NUMBER, CALLED, IDENT, WHICH_IS, NUMBER_LITERAL, EOF})
}

func TestLexerLongestMatchWins(t *testing.T) {
	// "is greater than" must win over the shorter "is" keyword.
	assertTypes(t, "x is greater than 3",
		[]TokenType{IDENT, GREATER_THAN, NUMBER_LITERAL, EOF})
}

func TestLexerWordBoundary(t *testing.T) {
	// "isgreaterthan" is one identifier, not a phrase match, because
	// phrase matching requires a non-identifier boundary.
	assertTypes(t, "isgreaterthan", []TokenType{IDENT, EOF})
}

func TestLexerStringEscapes(t *testing.T) {
	tokens := New(`say "line one\nline two"`).Tokenize()
	if tokens[1].Type != STRING_LITERAL {
		t.Fatalf("expected STRING_LITERAL, got %s", tokens[1].Type.Name())
	}
	if tokens[1].Literal != "line one\nline two" {
		t.Fatalf("unexpected decoded literal: %q", tokens[1].Literal)
	}
}

func TestLexerPossessiveVsCharLiteral(t *testing.T) {
	assertTypes(t, "x's value", []TokenType{IDENT, APOSTROPHE_S, IDENT, EOF})
	assertTypes(t, "'a'", []TokenType{CHAR_LITERAL, EOF})
}

func TestLexerNegativeAndDecimalNumbers(t *testing.T) {
	assertTypes(t, "-5", []TokenType{NUMBER_LITERAL, EOF})
	assertTypes(t, "3.14", []TokenType{DECIMAL_LITERAL, EOF})
}

func TestLexerLineComment(t *testing.T) {
	assertTypes(t, "# a whole comment line\nsay \"hi\"",
		[]TokenType{NEWLINE, SAY, STRING_LITERAL, EOF})
}

func TestLexerUnterminatedStringReportsError(t *testing.T) {
	l := New(`"never closes`)
	l.Tokenize()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected exactly one lexer error, got %d", len(l.Errors()))
	}
}

func TestLexerColumnsCountRunes(t *testing.T) {
	tokens := New("äb cd").Tokenize()
	// "äb" (a two-byte rune, then b) occupies columns 1-2; "cd" starts
	// after the space at column 4, not 5 as a byte count would give.
	if tokens[1].Pos.Column != 4 {
		t.Fatalf("expected column 4 for second token, got %d", tokens[1].Pos.Column)
	}
}
