package model

import (
	"fmt"
	"sort"
	"sync"
)

// Schematic is the immutable-after-build graph of parts, components and
// nets, plus the (component, pin) to net index.
type Schematic struct {
	conv Conventions

	parts      map[string]*Part
	components map[string]*Component
	nets       map[string]*Net
	pinNet     map[ConnKey]*Net

	targetOnce sync.Once
	target     *Component
	targetErr  error
}

// Option configures a Schematic.
type Option func(*Schematic)

// WithConventions replaces the default naming conventions.
func WithConventions(cv Conventions) Option {
	return func(s *Schematic) {
		s.conv = cv
	}
}

// New returns an empty schematic.
func New(opts ...Option) *Schematic {
	s := &Schematic{
		conv:       DefaultConventions(),
		parts:      make(map[string]*Part),
		components: make(map[string]*Component),
		nets:       make(map[string]*Net),
		pinNet:     make(map[ConnKey]*Net),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Conventions returns the conventions the schematic classifies with.
func (s *Schematic) Conventions() Conventions {
	return s.conv
}

// AddPart registers a part definition. Part names are unique.
func (s *Schematic) AddPart(p *Part) error {
	if p == nil || p.Name == "" {
		return Structuralf("part", "empty part definition")
	}
	if _, exists := s.parts[p.Name]; exists {
		return Structuralf("part "+p.Name, "defined twice")
	}
	s.parts[p.Name] = p
	return nil
}

// AddComponent registers a component instance. The part type must already
// be known.
func (s *Schematic) AddComponent(c *Component) error {
	if c == nil || c.Ref == "" {
		return Structuralf("component", "empty reference")
	}
	if _, exists := s.components[c.Ref]; exists {
		return Structuralf("component "+c.Ref, "reference used twice")
	}
	if _, ok := s.parts[c.Part]; !ok {
		return Structuralf("component "+c.Ref, "unknown part type %q", c.Part)
	}
	if c.Fields == nil {
		c.Fields = make(map[string]string)
	}
	s.components[c.Ref] = c
	return nil
}

// AddNet registers a net, classifies it and indexes its connections. Every
// (component, pin) pair may appear on at most one net.
func (s *Schematic) AddNet(n *Net) error {
	if n == nil || n.Name == "" {
		return Structuralf("net", "empty net name")
	}
	if _, exists := s.nets[n.Name]; exists {
		return Structuralf("net "+n.Name, "defined twice")
	}

	seen := make(map[ConnKey]struct{}, len(n.Connections))
	for _, conn := range n.Connections {
		if _, ok := s.components[conn.Component]; !ok {
			return Structuralf("net "+n.Name, "unknown component %q", conn.Component)
		}
		key := conn.Key()
		if _, dup := seen[key]; dup {
			return Structuralf("net "+n.Name, "pin %s listed twice", conn)
		}
		if other, wired := s.pinNet[key]; wired {
			return Structuralf("net "+n.Name, "pin %s already wired to net %s", conn, other.Name)
		}
		seen[key] = struct{}{}
	}

	n.Power = s.conv.PowerClass(n.Name)
	s.nets[n.Name] = n
	for key := range seen {
		s.pinNet[key] = n
	}
	return nil
}

// Part looks up a part definition.
func (s *Schematic) Part(name string) (*Part, bool) {
	p, ok := s.parts[name]
	return p, ok
}

// Component looks up a component by reference.
func (s *Schematic) Component(ref string) (*Component, bool) {
	c, ok := s.components[ref]
	return c, ok
}

// Net looks up a net by name.
func (s *Schematic) Net(name string) (*Net, bool) {
	n, ok := s.nets[name]
	return n, ok
}

// PinNet returns the net a pin is wired to, if any.
func (s *Schematic) PinNet(ref string, pin PinID) (*Net, bool) {
	n, ok := s.pinNet[ConnKey{Component: ref, Pin: pin}]
	return n, ok
}

// NetForPin is PinNet for callers that require the pin to be wired.
func (s *Schematic) NetForPin(ref string, pin PinID) (*Net, error) {
	n, ok := s.PinNet(ref, pin)
	if !ok {
		return nil, Structuralf("component "+ref, "pin %s is not wired to any net", pin)
	}
	return n, nil
}

// PinOf returns the part pin definition behind a component pin.
func (s *Schematic) PinOf(ref string, pin PinID) (Pin, bool) {
	c, ok := s.components[ref]
	if !ok {
		return Pin{}, false
	}
	p, ok := s.parts[c.Part]
	if !ok {
		return Pin{}, false
	}
	def, ok := p.Pins[pin]
	return def, ok
}

// TargetDevice returns the single component whose part type matches the
// target pattern. The answer is computed once.
func (s *Schematic) TargetDevice() (*Component, error) {
	s.targetOnce.Do(func() {
		s.target, s.targetErr = s.findTarget()
	})
	return s.target, s.targetErr
}

func (s *Schematic) findTarget() (*Component, error) {
	re := s.conv.TargetDevice
	if re == nil {
		return nil, &AmbiguousDeviceError{Pattern: "<none>"}
	}
	var matches []*Component
	for _, c := range s.Components() {
		if re.MatchString(c.Part) {
			matches = append(matches, c)
		}
	}
	if len(matches) != 1 {
		refs := make([]string, 0, len(matches))
		for _, c := range matches {
			refs = append(refs, fmt.Sprintf("%s (%s)", c.Ref, c.Part))
		}
		return nil, &AmbiguousDeviceError{Pattern: re.String(), Candidates: refs}
	}
	return matches[0], nil
}

// IsTarget reports whether c is the target device. It is false when the
// target cannot be determined.
func (s *Schematic) IsTarget(c *Component) bool {
	t, err := s.TargetDevice()
	return err == nil && t.Ref == c.Ref
}

// IsPassive applies the passive-part convention.
func (s *Schematic) IsPassive(c *Component) bool {
	return s.conv.IsPassive(c)
}

// IsConnector applies the connector reference convention.
func (s *Schematic) IsConnector(c *Component) bool {
	return s.conv.IsConnector(c)
}

// Parts returns all part definitions sorted by name.
func (s *Schematic) Parts() []*Part {
	out := make([]*Part, 0, len(s.parts))
	for _, p := range s.parts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Components returns all components sorted by reference.
func (s *Schematic) Components() []*Component {
	out := make([]*Component, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out
}

// Nets returns all nets sorted by name.
func (s *Schematic) Nets() []*Net {
	out := make([]*Net, 0, len(s.nets))
	for _, n := range s.nets {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
