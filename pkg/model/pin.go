package model

import (
	"regexp"
	"strconv"
)

var gridPinRegex = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

type pinKind int

const (
	pinNumeric pinKind = iota
	pinNamed
	pinGrid
)

// PinID is a normalised pin identifier. Numeric pins ("7") keep their
// number, BGA grid pins ("AB12") are split into row letters and column,
// and anything else ("EP", "SH1_A") is kept as a name.
//
// PinID is comparable and usable as a map key.
type PinID struct {
	kind   pinKind
	letter string
	number int
	name   string
}

// ParsePinID normalises a raw pin identifier.
func ParsePinID(raw string) PinID {
	if n, err := strconv.Atoi(raw); err == nil {
		return PinID{kind: pinNumeric, number: n}
	}
	if m := gridPinRegex.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[2])
		return PinID{kind: pinGrid, letter: m[1], number: n}
	}
	return PinID{kind: pinNamed, name: raw}
}

// NumPin returns the PinID of a numeric pin.
func NumPin(n int) PinID {
	return PinID{kind: pinNumeric, number: n}
}

// GridPin returns the PinID of a grid pin such as ("C", 7).
func GridPin(letter string, n int) PinID {
	return PinID{kind: pinGrid, letter: letter, number: n}
}

// Number returns the pin number and true for numeric pins.
func (p PinID) Number() (int, bool) {
	return p.number, p.kind == pinNumeric
}

// IsGrid reports whether the pin is a (letter, number) grid position.
func (p PinID) IsGrid() bool { return p.kind == pinGrid }

func (p PinID) String() string {
	switch p.kind {
	case pinNumeric:
		return strconv.Itoa(p.number)
	case pinGrid:
		return p.letter + strconv.Itoa(p.number)
	default:
		return p.name
	}
}

// Less orders numeric pins first, then named pins, then grid pins by row
// letters and column number.
func (p PinID) Less(o PinID) bool {
	if p.kind != o.kind {
		return p.kind < o.kind
	}
	switch p.kind {
	case pinNumeric:
		return p.number < o.number
	case pinGrid:
		if len(p.letter) != len(o.letter) {
			return len(p.letter) < len(o.letter)
		}
		if p.letter != o.letter {
			return p.letter < o.letter
		}
		return p.number < o.number
	default:
		return p.name < o.name
	}
}

// Compare returns -1, 0 or +1 following Less.
func (p PinID) Compare(o PinID) int {
	switch {
	case p == o:
		return 0
	case p.Less(o):
		return -1
	default:
		return 1
	}
}
