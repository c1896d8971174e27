// Package sexp provides navigation helpers over kicadsexp trees shared by
// the KiCad file readers.
package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/ucfgen/pkg/kicad/sexp/kicadsexp"
)

// FindNode returns the first child list whose head symbol is key.
// Example: FindNode(comp, "ref") finds (ref R1) in (comp (ref R1) ...).
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes returns every child list whose head symbol is key.
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}
	return results
}

// GetListItems returns all items in a list except the leading key.
// Example: GetListItems((names "/" "/sub")) returns ["/", "/sub"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// SexpToSlice converts a list into a Go slice. Atoms and nil yield nil.
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}
	if l, ok := s.(*kicadsexp.List); ok {
		return l.Elements()
	}

	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		items = append(items, s.Head())
		if s.LeafCount() == 1 {
			break
		}
		s = s.Tail()
	}
	return items
}

// GetString extracts the atom at index. Index 0 is the key.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := SexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if sym, ok := items[index].(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// GetNodeName returns the head symbol of a list, or the atom itself.
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}
	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}

	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}

// ChildValue returns the first value of the child (key value) under s.
// ok is false when the child is missing or has no value.
func ChildValue(s kicadsexp.Sexp, key string) (string, bool) {
	node, found := FindNode(s, key)
	if !found {
		return "", false
	}
	v, err := GetString(node, 1)
	if err != nil {
		return "", false
	}
	return v, true
}

// Line returns the source line of a parsed list, or 0 if unknown.
func Line(s kicadsexp.Sexp) int {
	if l, ok := s.(*kicadsexp.List); ok {
		return l.Line()
	}
	return 0
}
