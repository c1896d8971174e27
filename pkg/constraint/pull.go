package constraint

import (
	"fmt"

	"github.com/OpenTraceLab/ucfgen/pkg/units"
)

// Strength classifies a resistive pull.
type Strength int

const (
	StrengthUnknown Strength = iota
	StrengthWeak
	StrengthStrong
)

func (s Strength) String() string {
	switch s {
	case StrengthWeak:
		return "weakly"
	case StrengthStrong:
		return "strongly"
	default:
		return "unknown"
	}
}

// ClassifyPull parses a resistor value and compares it with threshold.
// Values above the threshold are weak; unparseable values are unknown.
func ClassifyPull(value string, threshold float64) Strength {
	ohms, err := units.ParseResistance(value)
	if err != nil {
		return StrengthUnknown
	}
	if ohms > threshold {
		return StrengthWeak
	}
	return StrengthStrong
}

// pullNote renders the comment line for one pull of a signal.
func pullNote(signal, rail, ref, value string, s Strength) string {
	if s == StrengthUnknown {
		return fmt.Sprintf("# %s is pulled to %s by %s (%s), strength unknown", signal, rail, ref, value)
	}
	return fmt.Sprintf("# %s is %s pulled to %s by %s (%s)", signal, s, rail, ref, value)
}
