// Package units parses component values as written on schematics.
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// valueLexer tokenises values such as "4k7", "2.2M", "R47", "10kΩ 1%".
var valueLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Tolerance", Pattern: `[0-9]+(\.[0-9]+)?%`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Unit", Pattern: `[Oo][Hh][Mm][Ss]?|Ω`},
	{Name: "Prefix", Pattern: `[RrEKkMmGg]`},
})

type resistance struct {
	Mantissa  *mantissa `@@`
	Unit      string    `@Unit?`
	Tolerance string    `@Tolerance?`
}

type mantissa struct {
	Leading *leadingForm `  @@`
	Radix   *radixForm   `| @@`
}

// leadingForm is "10k", "4k7", "2.2M", "0R" or a bare "100".
type leadingForm struct {
	Whole    string `@Number`
	Prefix   string `@Prefix?`
	Fraction string `@Number?`
}

// radixForm is "R47" or "k5": the prefix stands in for the decimal point.
type radixForm struct {
	Prefix   string `@Prefix`
	Fraction string `@Number`
}

var valueParser = participle.MustBuild[resistance](
	participle.Lexer(valueLexer),
	participle.Elide("Whitespace"),
)

// exponents maps a multiplier letter to its power of ten.
var exponents = map[string]int{
	"":  0,
	"R": 0, "r": 0, "E": 0,
	"k": 3, "K": 3,
	"M": 6,
	"m": -3,
	"G": 9,
}

// Value is a parsed resistance.
type Value struct {
	Ohms      float64
	Tolerance string // e.g. "1%", empty when not given
}

// Parse reads a resistor value. Values that are not resistances ("DNP",
// "100nF", "") are errors.
func Parse(s string) (Value, error) {
	if strings.TrimSpace(s) == "" {
		return Value{}, fmt.Errorf("units: empty value")
	}
	ast, err := valueParser.ParseString("", s)
	if err != nil {
		return Value{}, fmt.Errorf("units: parse %q: %w", s, err)
	}

	var whole, prefix, fraction string
	switch m := ast.Mantissa; {
	case m.Leading != nil:
		whole, prefix, fraction = m.Leading.Whole, m.Leading.Prefix, m.Leading.Fraction
		if fraction != "" && (prefix == "" || strings.Contains(whole, ".")) {
			return Value{}, fmt.Errorf("units: parse %q: misplaced digits", s)
		}
	case m.Radix != nil:
		whole, prefix, fraction = "0", m.Radix.Prefix, m.Radix.Fraction
		if strings.Contains(fraction, ".") {
			return Value{}, fmt.Errorf("units: parse %q: misplaced decimal point", s)
		}
	}

	exp, ok := exponents[prefix]
	if !ok {
		return Value{}, fmt.Errorf("units: parse %q: unknown multiplier %q", s, prefix)
	}
	literal := whole
	if fraction != "" {
		literal += "." + fraction
	}
	ohms, err := strconv.ParseFloat(literal+"e"+strconv.Itoa(exp), 64)
	if err != nil {
		return Value{}, fmt.Errorf("units: parse %q: %w", s, err)
	}
	return Value{Ohms: ohms, Tolerance: ast.Tolerance}, nil
}

// ParseResistance returns the resistance of a value string in ohms.
func ParseResistance(s string) (float64, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return v.Ohms, nil
}
