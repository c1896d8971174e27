package model

import (
	"regexp"
	"strings"
)

// DefaultTargetPattern matches the Spartan-6 family part names.
const DefaultTargetPattern = `^XC6SLX`

// Conventions are the naming rules the model uses to classify components
// and nets.
type Conventions struct {
	PassiveParts      []string       // part types that count as passive
	ConnectorPrefixes []string       // reference prefixes of connectors
	ConnectorExcludes []string       // prefixes that look like connectors but are not (jumpers)
	VCCMarkers        []string       // substrings that make a net a supply rail
	GNDMarkers        []string       // substrings that make a net a ground rail
	TargetDevice      *regexp.Regexp // matches the target device part type
}

// DefaultConventions returns the conventions of the reference design.
func DefaultConventions() Conventions {
	return Conventions{
		PassiveParts:      []string{"R", "C"},
		ConnectorPrefixes: []string{"J"},
		ConnectorExcludes: []string{"JP"},
		VCCMarkers:        []string{"VCC", "VDD", "VTT"},
		GNDMarkers:        []string{"GND"},
		TargetDevice:      regexp.MustCompile(DefaultTargetPattern),
	}
}

// IsPassive reports whether the component's part type is in the passive set.
func (cv Conventions) IsPassive(c *Component) bool {
	for _, p := range cv.PassiveParts {
		if c.Part == p {
			return true
		}
	}
	return false
}

// IsConnector applies the reference naming convention.
func (cv Conventions) IsConnector(c *Component) bool {
	for _, ex := range cv.ConnectorExcludes {
		if strings.HasPrefix(c.Ref, ex) {
			return false
		}
	}
	for _, p := range cv.ConnectorPrefixes {
		if strings.HasPrefix(c.Ref, p) {
			return true
		}
	}
	return false
}

// PowerClass classifies a net by name. Supply markers win over ground
// markers so a name is never both.
func (cv Conventions) PowerClass(netName string) PowerClass {
	for _, m := range cv.VCCMarkers {
		if strings.Contains(netName, m) {
			return PowerVCC
		}
	}
	for _, m := range cv.GNDMarkers {
		if strings.Contains(netName, m) {
			return PowerGND
		}
	}
	return PowerNone
}
