package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error produced by the pipeline wraps one of these.
var (
	ErrStructural             = errors.New("structural error")
	ErrUnknownPin             = errors.New("unknown pin")
	ErrUnresolvedPinSemantics = errors.New("unresolved pin semantics")
	ErrAmbiguousDevice        = errors.New("ambiguous target device")
)

// StructuralError reports a defect in the schematic itself: duplicate
// names, doubly wired pins, or passive loops found during reduction.
type StructuralError struct {
	Subject string // offending net, component or part
	Detail  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s: %s", e.Subject, e.Detail)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// Structuralf builds a StructuralError with a formatted detail.
func Structuralf(subject, format string, args ...any) *StructuralError {
	return &StructuralError{Subject: subject, Detail: fmt.Sprintf(format, args...)}
}

// UnknownPinError reports a pin outside the range a pass-through rule knows.
type UnknownPinError struct {
	Part string
	Pin  PinID
}

func (e *UnknownPinError) Error() string {
	return fmt.Sprintf("unknown pin %s on part %s", e.Pin, e.Part)
}

func (e *UnknownPinError) Unwrap() error { return ErrUnknownPin }

// UnresolvedPinSemanticsError reports a pin whose description no semantics
// rule of its part type covers.
type UnresolvedPinSemanticsError struct {
	Part        string
	Component   string // empty when the lookup was made without a component
	Pin         PinID
	Description string
	Reason      string
}

func (e *UnresolvedPinSemanticsError) Error() string {
	var b strings.Builder
	b.WriteString("unresolved pin semantics: ")
	if e.Component != "" {
		fmt.Fprintf(&b, "%s ", e.Component)
	}
	fmt.Fprintf(&b, "part %s pin %s (%q)", e.Part, e.Pin, e.Description)
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

func (e *UnresolvedPinSemanticsError) Unwrap() error { return ErrUnresolvedPinSemantics }

// AmbiguousDeviceError reports zero or several target device candidates.
type AmbiguousDeviceError struct {
	Pattern    string
	Candidates []string
}

func (e *AmbiguousDeviceError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no target device matching %q", e.Pattern)
	}
	return fmt.Sprintf("%d target devices match %q: %s",
		len(e.Candidates), e.Pattern, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousDeviceError) Unwrap() error { return ErrAmbiguousDevice }
