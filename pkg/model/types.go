// Package model holds the in-memory schematic graph: parts, component
// instances, nets and the pin to net index. It is built once from a
// netlist export and is read-only afterwards.
package model

import (
	"sort"
	"strings"
)

// Pin is one pin of a part definition.
type Pin struct {
	ID          PinID
	Description string // pin function as drawn in the symbol, e.g. "D0+"
	Type        string // electrical role: passive, input, BiDi, power_in...
}

// Part is a library part definition keyed by part type name.
type Part struct {
	Name string
	Pins map[PinID]Pin
}

// NewPart returns an empty part definition.
func NewPart(name string) *Part {
	return &Part{Name: name, Pins: make(map[PinID]Pin)}
}

// AddPin normalises raw and adds the pin. Pin identifiers are unique
// within a part.
func (p *Part) AddPin(raw, description, typ string) error {
	id := ParsePinID(raw)
	if _, exists := p.Pins[id]; exists {
		return Structuralf("part "+p.Name, "duplicate pin %s", id)
	}
	p.Pins[id] = Pin{ID: id, Description: description, Type: typ}
	return nil
}

// SortedPins returns the pins in PinID order.
func (p *Part) SortedPins() []Pin {
	pins := make([]Pin, 0, len(p.Pins))
	for _, pin := range p.Pins {
		pins = append(pins, pin)
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i].ID.Less(pins[j].ID) })
	return pins
}

// Well-known component field names.
const (
	FieldValue     = "Value"
	FieldFootprint = "Footprint"
	FieldDirection = "Direction"
)

// Component is a placed instance of a part.
type Component struct {
	Ref    string
	Part   string
	Fields map[string]string
}

// Field returns a field value, or "" when absent.
func (c *Component) Field(name string) string {
	if c.Fields == nil {
		return ""
	}
	return c.Fields[name]
}

// Value returns the component value, e.g. "10k" for a resistor.
func (c *Component) Value() string {
	return c.Field(FieldValue)
}

// SortKey orders components by part type, then field values in field name
// order, then reference.
func (c *Component) SortKey() string {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(c.Part)
	for _, name := range names {
		b.WriteByte(0)
		b.WriteString(c.Fields[name])
	}
	b.WriteByte(0)
	b.WriteByte(0)
	b.WriteString(c.Ref)
	return b.String()
}

// Via records how a connection was reached during reduction: through which
// passive component and onto which net.
type Via struct {
	Component string
	Net       string
}

// Connection is one (component, pin) endpoint of a net.
type Connection struct {
	Component string
	Pin       PinID
	Via       Via // zero for connections read from the netlist
}

// ConnKey identifies a connection regardless of how it was reached.
type ConnKey struct {
	Component string
	Pin       PinID
}

// Key drops the provenance.
func (c Connection) Key() ConnKey {
	return ConnKey{Component: c.Component, Pin: c.Pin}
}

// HasVia reports whether the connection was reached through a passive.
func (c Connection) HasVia() bool {
	return c.Via != Via{}
}

func (c Connection) String() string {
	return c.Component + "." + c.Pin.String()
}

// LessConnection orders connections by component then pin.
func LessConnection(a, b Connection) bool {
	if a.Component != b.Component {
		return a.Component < b.Component
	}
	return a.Pin.Less(b.Pin)
}

// PowerClass is the power classification of a net.
type PowerClass int

const (
	PowerNone PowerClass = iota
	PowerVCC
	PowerGND
)

func (p PowerClass) String() string {
	switch p {
	case PowerVCC:
		return "VCC"
	case PowerGND:
		return "GND"
	default:
		return ""
	}
}

// Net is a named electrical node.
type Net struct {
	Name        string
	Connections []Connection
	Power       PowerClass // set by Schematic.AddNet
}

// NewNet builds a net from its connections.
func NewNet(name string, conns ...Connection) *Net {
	return &Net{Name: name, Connections: conns}
}

// IsPower reports whether the net is a supply or ground rail.
func (n *Net) IsPower() bool {
	return n.Power != PowerNone
}

// Pull records that Net is biased towards the rail To through the passive
// Via.
type Pull struct {
	Net string
	Via string
	To  string
}

// LessPull orders pulls by net, via, then rail.
func LessPull(a, b Pull) bool {
	if a.Net != b.Net {
		return a.Net < b.Net
	}
	if a.Via != b.Via {
		return a.Via < b.Via
	}
	return a.To < b.To
}
