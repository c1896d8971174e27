// Package kicadsexp is a small streaming S-expression reader for the files
// KiCad writes: netlist exports, schematics and boards all share the syntax.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp is an S-expression node, either an atom or a list.
type Sexp interface {
	// IsLeaf reports whether the node is an atom.
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms).
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms).
	Head() Sexp

	// Tail returns the rest of a list after the first element.
	Tail() Sexp

	String() string
}

// Symbol is an atom. Quoted strings and bare words both become symbols;
// the quotes are removed by the lexer.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// List is a parenthesised sequence of S-expressions.
type List struct {
	elements []Sexp
	line     int
}

// NewList builds a list from already parsed elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:], line: l.line}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at index, or nil when out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list.
func (l *List) Len() int {
	return len(l.elements)
}

// Elements returns the list elements. The slice must not be modified.
func (l *List) Elements() []Sexp {
	return l.elements
}

// Line returns the 1-based source line of the opening parenthesis, or 0
// for lists that were not produced by the parser.
func (l *List) Line() int {
	return l.line
}

// Parse reads every top-level S-expression from r.
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString is Parse for in-memory input.
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
