package kicadsexp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is a lexical token and the line it started on.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer tokenizes S-expressions from an io.Reader
type Lexer struct {
	r    *bufio.Reader
	line int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1}
}

// NextToken reads the next token from the input, skipping whitespace.
// KiCad files have no comment syntax: '#' is an ordinary symbol character,
// as in power symbol references like #PWR01.
func (l *Lexer) NextToken() (Token, error) {
	ch, err := l.skipSpace()
	if err == io.EOF {
		return Token{Type: TokenEOF, Line: l.line}, nil
	}
	if err != nil {
		return Token{}, err
	}

	line := l.line
	switch ch {
	case '(':
		return Token{Type: TokenLeftParen, Value: "(", Line: line}, nil
	case ')':
		return Token{Type: TokenRightParen, Value: ")", Line: line}, nil
	case '"':
		return l.quoted(line)
	}
	if err := l.r.UnreadRune(); err != nil {
		return Token{}, err
	}
	return l.bare(line)
}

// skipSpace consumes whitespace and returns the first other rune.
func (l *Lexer) skipSpace() (rune, error) {
	for {
		ch, err := l.next()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(ch) {
			return ch, nil
		}
	}
}

func (l *Lexer) next() (rune, error) {
	ch, _, err := l.r.ReadRune()
	if err == nil && ch == '\n' {
		l.line++
	}
	return ch, err
}

var escapes = map[rune]rune{'n': '\n', 't': '\t', 'r': '\r'}

// quoted reads the rest of a string whose opening quote is consumed.
func (l *Lexer) quoted(line int) (Token, error) {
	var b strings.Builder
	for {
		ch, err := l.next()
		if err == io.EOF {
			return Token{}, fmt.Errorf("line %d: unterminated string", line)
		}
		if err != nil {
			return Token{}, err
		}
		switch ch {
		case '"':
			return Token{Type: TokenString, Value: b.String(), Line: line}, nil
		case '\\':
			esc, err := l.next()
			if err != nil {
				return Token{}, fmt.Errorf("line %d: unexpected EOF after backslash", line)
			}
			if r, ok := escapes[esc]; ok {
				esc = r
			}
			b.WriteRune(esc)
		default:
			b.WriteRune(ch)
		}
	}
}

// bare reads an unquoted atom (identifier, number, net name...).
func (l *Lexer) bare(line int) (Token, error) {
	var b strings.Builder
	for {
		ch, _, err := l.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			if err := l.r.UnreadRune(); err != nil {
				return Token{}, err
			}
			break
		}
		b.WriteRune(ch)
	}
	if b.Len() == 0 {
		return Token{}, fmt.Errorf("line %d: empty symbol", line)
	}
	return Token{Type: TokenSymbol, Value: b.String(), Line: line}, nil
}
