package kicadsexp

import (
	"strings"
	"testing"
)

func TestLexerTokens(t *testing.T) {
	l := NewLexer(strings.NewReader("(ref #PWR01)\n  (name \"a\\\"b\\n\")\nVCC"))

	want := []Token{
		{Type: TokenLeftParen, Value: "(", Line: 1},
		{Type: TokenSymbol, Value: "ref", Line: 1},
		{Type: TokenSymbol, Value: "#PWR01", Line: 1},
		{Type: TokenRightParen, Value: ")", Line: 1},
		{Type: TokenLeftParen, Value: "(", Line: 2},
		{Type: TokenSymbol, Value: "name", Line: 2},
		{Type: TokenString, Value: "a\"b\n", Line: 2},
		{Type: TokenRightParen, Value: ")", Line: 2},
		{Type: TokenSymbol, Value: "VCC", Line: 3},
		{Type: TokenEOF, Line: 3},
	}
	for i, w := range want {
		got, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if got != w {
			t.Errorf("token %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestLexerSymbolStopsAtQuote(t *testing.T) {
	l := NewLexer(strings.NewReader(`abc"def"`))
	first, err := l.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if first.Value != "abc" || first.Type != TokenSymbol {
		t.Errorf("first = %+v", first)
	}
	if second.Value != "def" || second.Type != TokenString {
		t.Errorf("second = %+v", second)
	}
}
